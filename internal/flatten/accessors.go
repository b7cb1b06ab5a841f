package flatten

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exchange-format wrapper keys.
const (
	OIDKey        = "$oid"
	DateKey       = "$date"
	NumberLongKey = "$numberLong"
)

// String returns the value at key as a string. Numbers and booleans are formatted;
// anything else is nil.
func (r Row) String(key string) *string {
	var s string
	switch v := r[key].(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(v)
	default:
		return nil
	}
	return &s
}

// Float returns the value at key as a float64. Numeric strings such as "26.00"
// are accepted; blank or non-numeric values are nil.
func (r Row) Float(key string) *float64 {
	d, ok := r.decimal(key)
	if !ok {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

// Int returns the value at key as an int64. Values with a fractional part are nil.
func (r Row) Int(key string) *int64 {
	d, ok := r.decimal(key)
	if !ok || !d.IsInteger() {
		return nil
	}
	n := d.IntPart()
	return &n
}

func (r Row) decimal(key string) (decimal.Decimal, bool) {
	var s string
	switch v := r[key].(type) {
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	case float64:
		return decimal.NewFromFloat(v), true
	default:
		return decimal.Decimal{}, false
	}
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Bool returns the value at key as a bool. "true"/"false" strings are accepted.
func (r Row) Bool(key string) *bool {
	var b bool
	switch v := r[key].(type) {
	case bool:
		b = v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		b = parsed
	default:
		return nil
	}
	return &b
}

// ObjectID returns the identifier wrapped at prefix ({"$oid": ...}) or stored there
// as a bare string. Valid ObjectIDs are returned in canonical lower-case hex;
// other strings are returned trimmed.
func (r Row) ObjectID(prefix string) *string {
	raw := r.String(prefix + Separator + OIDKey)
	if raw == nil {
		raw = r.String(prefix)
	}
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		s = oid.Hex()
	}
	return &s
}

// Time returns the timestamp wrapped at prefix ({"$date": ...}). The payload may be
// epoch milliseconds, an RFC 3339 string, or {"$numberLong": "..."}. Absent or
// malformed payloads are nil.
func (r Row) Time(prefix string) *time.Time {
	dateKey := prefix + Separator + DateKey
	v, ok := r[dateKey]
	if !ok {
		v = r[dateKey+Separator+NumberLongKey]
	}

	var t time.Time
	switch p := v.(type) {
	case json.Number:
		ms, err := p.Int64()
		if err != nil {
			return nil
		}
		t = primitive.DateTime(ms).Time()
	case float64:
		t = primitive.DateTime(int64(p)).Time()
	case string:
		s := strings.TrimSpace(p)
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			t = primitive.DateTime(ms).Time()
			break
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil
		}
		t = parsed
	default:
		return nil
	}
	t = t.UTC()
	return &t
}
