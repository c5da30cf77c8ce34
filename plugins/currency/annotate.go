package currency

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Annotate adds usdAmount, originalAmount and originalCurrency to the price of
// every element in the top-level "data" array that carries price.amount and
// price.currencyCode. Anything it cannot interpret is returned untouched, and
// the rest of the document keeps its byte layout.
func Annotate(body []byte, rates *RateTable) []byte {
	if rates == nil || !gjson.ValidBytes(body) {
		return body
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return body
	}

	out := body
	for idx, item := range data.Array() {
		amount, code, ok := nativePrice(item)
		if !ok {
			continue
		}
		next, err := setPrice(out, idx, Round2(rates.ToUSD(amount, code)), amount, code)
		if err != nil {
			continue
		}
		out = next
	}
	return out
}

// nativePrice reads price.amount (number or numeric string) and price.currencyCode.
// A zero numeric amount counts as absent.
func nativePrice(item gjson.Result) (float64, string, bool) {
	amountField := item.Get("price.amount")
	codeField := item.Get("price.currencyCode")
	if codeField.Type != gjson.String || codeField.Str == "" {
		return 0, "", false
	}

	switch amountField.Type {
	case gjson.Number:
		if amountField.Num == 0 {
			return 0, "", false
		}
		return amountField.Num, codeField.Str, true
	case gjson.String:
		if amountField.Str == "" {
			return 0, "", false
		}
		v, err := strconv.ParseFloat(amountField.Str, 64)
		if err != nil {
			return 0, "", false
		}
		return v, codeField.Str, true
	default:
		return 0, "", false
	}
}

func setPrice(body []byte, idx int, usd, amount float64, code string) ([]byte, error) {
	prefix := fmt.Sprintf("data.%d.price.", idx)
	out, err := sjson.SetBytes(body, prefix+"usdAmount", usd)
	if err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, prefix+"originalAmount", amount); err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, prefix+"originalCurrency", code)
}
