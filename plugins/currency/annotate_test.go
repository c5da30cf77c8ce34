package currency

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const activitiesBody = `{"data":[{"id":"1","name":"Louvre tour","price":{"amount":"55.00","currencyCode":"EUR"}},{"id":"2","name":"Free walk"},{"id":"3","name":"Ramen class","price":{"amount":"1000","currencyCode":"JPY"}}],"meta":{"count":3}}`

func TestAnnotateGolden(t *testing.T) {
	out := Annotate([]byte(activitiesBody), NewRateTable(nil))

	var pretty bytes.Buffer
	require.NoError(t, json.Indent(&pretty, out, "", "  "))

	g := goldie.New(t)
	g.Assert(t, "annotated_activities", pretty.Bytes())
}

func TestAnnotateKnownAndUnknownCodes(t *testing.T) {
	table := NewRateTable(map[string]float64{"GBP": 1.27, "USD": 1})
	body := `{"data":[
		{"price":{"amount":10.555,"currencyCode":"GBP"}},
		{"price":{"amount":"12.346","currencyCode":"CHF"}}
	]}`

	out := Annotate([]byte(body), table)

	first := gjson.GetBytes(out, "data.0.price")
	assert.Equal(t, Round2(10.555*1.27), first.Get("usdAmount").Float())
	assert.Equal(t, 10.555, first.Get("originalAmount").Float())
	assert.Equal(t, "GBP", first.Get("originalCurrency").String())

	// Unknown codes convert at 1.0
	second := gjson.GetBytes(out, "data.1.price")
	assert.Equal(t, 12.35, second.Get("usdAmount").Float())
	assert.Equal(t, 12.346, second.Get("originalAmount").Float())
	assert.Equal(t, "CHF", second.Get("originalCurrency").String())
}

func TestAnnotatePassThrough(t *testing.T) {
	table := NewRateTable(nil)
	tests := []struct {
		name string
		body string
	}{
		{"not json", `upstream exploded`},
		{"no data", `{"meta":{"count":0}}`},
		{"data object", `{"data":{"price":{"amount":"1","currencyCode":"EUR"}}}`},
		{"no price", `{"data":[{"id":"1"}]}`},
		{"missing currency", `{"data":[{"price":{"amount":"5.00"}}]}`},
		{"empty amount", `{"data":[{"price":{"amount":"","currencyCode":"EUR"}}]}`},
		{"zero amount", `{"data":[{"price":{"amount":0,"currencyCode":"EUR"}}]}`},
		{"garbage amount", `{"data":[{"price":{"amount":"n/a","currencyCode":"EUR"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Annotate([]byte(tt.body), table)
			assert.Equal(t, tt.body, string(out))
		})
	}
}

func TestAnnotateDoesNotModifyInput(t *testing.T) {
	in := []byte(activitiesBody)
	_ = Annotate(in, NewRateTable(nil))
	assert.Equal(t, activitiesBody, string(in))
}
