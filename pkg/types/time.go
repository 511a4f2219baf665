package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// MillisecondTimestamp is a time encoded as the unix epoch in milliseconds on the wire.
type MillisecondTimestamp time.Time

func NewMillisecondTimestampFromInt(i int64) MillisecondTimestamp {
	return MillisecondTimestamp(time.UnixMilli(i))
}

func MustParseMillisecondTimestamp(a string) MillisecondTimestamp {
	m, err := strconv.ParseInt(a, 10, 64)
	if err != nil {
		panic(fmt.Errorf("millisecond timestamp parse error %v", err))
	}

	return NewMillisecondTimestampFromInt(m)
}

func (t MillisecondTimestamp) String() string {
	return time.Time(t).String()
}

func (t MillisecondTimestamp) Time() time.Time {
	return time.Time(t)
}

func (t MillisecondTimestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// MarshalJSON encodes the time as epoch milliseconds, the zero time is encoded as null.
func (t MillisecondTimestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return []byte(strconv.FormatInt(time.Time(t).UnixMilli(), 10)), nil
}

// UnmarshalJSON decodes numbers and numeric strings as epoch milliseconds regardless of the number of digits.
// null and the empty string are decoded as the zero time.
func (t *MillisecondTimestamp) UnmarshalJSON(data []byte) error {
	var v interface{}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&v); err != nil {
		return err
	}

	switch vt := v.(type) {
	case nil:
		*t = MillisecondTimestamp(time.Time{})
		return nil

	case json.Number:
		tt, err := parseMilliseconds(vt.String())
		if err != nil {
			return err
		}

		*t = MillisecondTimestamp(tt)
		return nil

	case string:
		if vt == "" {
			*t = MillisecondTimestamp(time.Time{})
			return nil
		}

		if tt, err := parseMilliseconds(vt); err == nil {
			*t = MillisecondTimestamp(tt)
			return nil
		}

		tt, err := time.Parse(time.RFC3339Nano, vt)
		if err != nil {
			return err
		}

		*t = MillisecondTimestamp(tt)
		return nil
	}

	return fmt.Errorf("can not parse %T %+v as millisecond timestamp", v, v)
}

// parseMilliseconds parses an epoch milliseconds number, the fraction is truncated.
func parseMilliseconds(s string) (time.Time, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(i), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return time.Time{}, fmt.Errorf("the millisecond timestamp %s is out of range", s)
	}

	return time.UnixMilli(int64(f)), nil
}

// Value implements the driver.Valuer interface, the time is stored in UTC.
func (t MillisecondTimestamp) Value() (driver.Value, error) {
	return time.Time(t).UTC(), nil
}

// Scan implements the sql.Scanner interface
func (t *MillisecondTimestamp) Scan(src interface{}) error {
	switch d := src.(type) {
	case time.Time:
		*t = MillisecondTimestamp(d)
		return nil

	case int64:
		*t = NewMillisecondTimestampFromInt(d)
		return nil

	case []byte:
		return t.scanString(string(d))

	case string:
		return t.scanString(d)

	case nil:
		*t = MillisecondTimestamp(time.Time{})
		return nil
	}

	return fmt.Errorf("datatype:MillisecondTimestamp scan error, unsupported type %T", src)
}

func (t *MillisecondTimestamp) scanString(s string) error {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00", // sqlite3
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	} {
		if tt, err := time.Parse(layout, s); err == nil {
			*t = MillisecondTimestamp(tt)
			return nil
		}
	}

	return fmt.Errorf("datatype:MillisecondTimestamp can not parse time string %q", s)
}
