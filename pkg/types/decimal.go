package types

import (
	"bytes"

	"github.com/shopspring/decimal"
)

// Decimal is a decimal.Decimal that decodes the empty JSON string as zero.
// The sql Scanner, Valuer and the JSON encoding are the ones of decimal.Decimal.
type Decimal struct {
	decimal.Decimal
}

func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

func NewDecimalFromInt(i int64) Decimal {
	return Decimal{Decimal: decimal.NewFromInt(i)}
}

func NewDecimalFromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, err
	}

	return Decimal{Decimal: d}, nil
}

func MustNewDecimalFromString(s string) Decimal {
	d, err := NewDecimalFromString(s)
	if err != nil {
		panic(err)
	}

	return d
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte(`""`)) {
		d.Decimal = decimal.Zero
		return nil
	}

	return d.Decimal.UnmarshalJSON(data)
}
