package types

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ToMoney converts a loosely-typed record field into Money. Records coming
// out of the schemaless store or a restored backup may carry amounts as
// strings, floats, or ints.
func ToMoney(v any) (Money, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, nil
	case string:
		if x == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(x)
	case float64:
		return decimal.NewFromFloat(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case json.Number:
		return decimal.NewFromString(x.String())
	case decimal.Decimal:
		return x, nil
	default:
		return decimal.Zero, fmt.Errorf("cannot convert %T to money", v)
	}
}

// MoneyOrZero converts like ToMoney but swallows conversion failures.
// Used on read paths that must degrade gracefully.
func MoneyOrZero(v any) Money {
	m, err := ToMoney(v)
	if err != nil {
		return decimal.Zero
	}
	return m
}

// ToInt64 converts a loosely-typed record field into an int64.
func ToInt64(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return int64(x), nil
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case string:
		if x == "" {
			return 0, nil
		}
		return strconv.ParseInt(x, 10, 64)
	case json.Number:
		return x.Int64()
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", v)
	}
}
