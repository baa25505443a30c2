package flags

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The numbering is a contract with the consumer; this pins every code.
func TestLegendIsFixed(t *testing.T) {
	want := map[Code]string{
		1: "new", 2: "sl_entry_delete", 3: "name_base", 4: "address",
		5: "ikscat", 6: "composition", 7: "indication", 8: "sequence",
		9: "expiry_date", 10: "sl_entry", 11: "price", 12: "comment",
		13: "price_rise", 14: "delete", 15: "price_cut", 16: "not_specified",
	}
	assert.Equal(t, want, Legend())
}

func TestLegendReturnsCopy(t *testing.T) {
	l := Legend()
	l[New] = "changed"
	assert.Equal(t, "new", New.Name())
}

func TestValidAndEmitted(t *testing.T) {
	assert.False(t, Valid(0))
	assert.False(t, Valid(17))
	assert.True(t, Valid(Address))
	assert.False(t, EmittedByEngine(Address))
	assert.False(t, EmittedByEngine(NotSpecified))
	for _, c := range []Code{New, SLEntryDelete, NameBase, SLEntry, Price, PriceRise, Delete, PriceCut} {
		assert.True(t, EmittedByEngine(c), c.String())
	}
	assert.Equal(t, "Code(99)", Code(99).String())
}

func TestLegendJSONOrder(t *testing.T) {
	b, err := json.Marshal(LegendJSON{})
	require.NoError(t, err)
	assert.Equal(t,
		`{"1":"new","2":"sl_entry_delete","3":"name_base","4":"address","5":"ikscat",`+
			`"6":"composition","7":"indication","8":"sequence","9":"expiry_date","10":"sl_entry",`+
			`"11":"price","12":"comment","13":"price_rise","14":"delete","15":"price_cut","16":"not_specified"}`,
		string(b))

	var round map[string]string
	require.NoError(t, json.Unmarshal(b, &round))
	assert.Len(t, round, 16)
}
