package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ratesToINR static, disclaimed exchange table: value of one unit in INR.
// There is no live feed and no historical tracking.
var ratesToINR = map[string]decimal.Decimal{
	"INR": decimal.NewFromInt(1),
	"USD": decimal.NewFromInt(83),
	"EUR": decimal.NewFromInt(90),
	"GBP": decimal.NewFromInt(105),
	"AED": decimal.RequireFromString("22.6"),
	"SGD": decimal.RequireFromString("61.5"),
	"JPY": decimal.RequireFromString("0.56"),
	"CNY": decimal.RequireFromString("11.5"),
}

// Currencies returns the supported ISO codes.
func Currencies() []string {
	out := make([]string, 0, len(ratesToINR))
	for code := range ratesToINR {
		out = append(out, code)
	}
	return out
}

// Supported reports whether code is in the exchange table.
func Supported(code string) bool {
	_, ok := ratesToINR[strings.ToUpper(code)]
	return ok
}

// Convert amount from one currency to another through INR. The result is not rounded.
func Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		if !Supported(from) {
			return decimal.Zero, unsupported(from)
		}
		return amount, nil
	}
	fromRate, ok := ratesToINR[from]
	if !ok {
		return decimal.Zero, unsupported(from)
	}
	toRate, ok := ratesToINR[to]
	if !ok {
		return decimal.Zero, unsupported(to)
	}
	return amount.Mul(fromRate).DivRound(toRate, 8), nil
}
