package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnifiedListing(t *testing.T) {
	a := []byte("7680000000011\tA\t10.00\t-\tSL\n7680000000028\tB\t-\t3.00\t-\n")
	b := []byte("7680000000011\tA\t12.50\t-\tSL\n7680000000028\tB\t-\t3.00\t-\n")
	body, oversize := Unified("old", "new", a, b, Options{})
	assert.False(t, oversize)
	assert.True(t, strings.HasPrefix(body, "--- old\n+++ new\n"), body)
	assert.Contains(t, body, "-7680000000011\tA\t10.00\t-\tSL\n")
	assert.Contains(t, body, "+7680000000011\tA\t12.50\t-\tSL\n")
	assert.NotContains(t, body, "7680000000028")
}

func TestUnifiedIdenticalIsEmpty(t *testing.T) {
	body, _ := Unified("old", "new", []byte("x\n"), []byte("x\n"), Options{Context: 3})
	assert.Empty(t, body)
}

func TestUnifiedOversize(t *testing.T) {
	body, oversize := Unified("old", "new", []byte("aaaa"), []byte("bbbb"), Options{MaxBytes: 4})
	assert.True(t, oversize)
	assert.Contains(t, body, "diff omitted")
}
