package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitObjects(t *testing.T) {
	in := `noise{"a":"}{"}  {"b":{"c":"x\"}"}}}{"open":1`
	got := SplitObjects([]byte(in))
	want := []string{`{"a":"}{"}`, `{"b":{"c":"x\"}"}}`}
	if assert.Len(t, got, len(want)) {
		for i := range want {
			assert.Equal(t, want[i], string(got[i]))
		}
	}
}

func TestSplitObjectsStrayClose(t *testing.T) {
	got := SplitObjects([]byte(`}}{"a":1}`))
	if assert.Len(t, got, 1) {
		assert.Equal(t, `{"a":1}`, string(got[0]))
	}
}
