// Package wire normalizes server payloads into canonical model records.
//
// The server is inconsistent about field naming: ORM-backed endpoints echo
// Go struct names (ID, ParentID, CreatedAt) while hand-written responses use
// snake_case (lot_id, remaining_quantity), and some clients send camelCase.
// Every mapper resolves each field through an ordered list of synonyms; the
// first present, non-null value that decodes into the field's type wins.
// Mappers never fail: missing fields take zero values.
package wire

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledgerctl/internal/model"
)

// Record is an untrusted JSON object.
type Record map[string]json.RawMessage

// Decode parses data as a JSON object. A null or non-object document yields
// an empty Record.
func Decode(data []byte) (Record, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	if _, ok := v.(map[string]any); !ok {
		return Record{}, nil
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// asRecord converts a raw JSON value into a Record, or an empty Record when
// it is not an object.
func asRecord(raw json.RawMessage) (Record, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Record{}, false
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, false
	}
	return r, true
}

// raw returns the first present, non-null value among keys.
func (r Record) raw(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		v = bytes.TrimSpace(v)
		if len(v) == 0 || bytes.Equal(v, []byte("null")) {
			continue
		}
		return v, true
	}
	return nil, false
}

// first returns the first synonym whose value parse accepts.
func first[T any](r Record, parse func(json.RawMessage) (T, bool), keys ...string) (T, bool) {
	for _, k := range keys {
		v, ok := r.raw(k)
		if !ok {
			continue
		}
		if out, ok := parse(v); ok {
			return out, true
		}
	}
	var zero T
	return zero, false
}

// Has reports whether any of keys carries a non-null value.
func (r Record) Has(keys ...string) bool {
	_, ok := r.raw(keys...)
	return ok
}

// String resolves a string field; "" when absent.
func (r Record) String(keys ...string) string {
	s, _ := first(r, parseString, keys...)
	return s
}

// Int resolves an integer field; 0 when absent.
func (r Record) Int(keys ...string) int64 {
	n, _ := r.IntOK(keys...)
	return n
}

// IntOK resolves an integer field and reports whether one was found.
func (r Record) IntOK(keys ...string) (int64, bool) {
	return first(r, parseInt, keys...)
}

// Bool resolves a boolean field; false when absent.
func (r Record) Bool(keys ...string) bool {
	b, _ := first(r, parseBool, keys...)
	return b
}

// Decimal resolves a numeric field; zero when absent.
func (r Record) Decimal(keys ...string) decimal.Decimal {
	d, ok := first(r, parseDecimal, keys...)
	if !ok {
		return decimal.Zero
	}
	return d
}

// Time resolves an RFC 3339 timestamp; nil when absent.
func (r Record) Time(keys ...string) *time.Time {
	t, ok := first(r, parseTime, keys...)
	if !ok {
		return nil
	}
	return &t
}

// Date resolves a calendar date as YYYY-MM-DD. Full timestamps are cut to
// their date; other strings pass through.
func (r Record) Date(keys ...string) string {
	s := r.String(keys...)
	if s == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Format(model.DateLayout)
	}
	return s
}

// Object resolves a nested object.
func (r Record) Object(keys ...string) (Record, bool) {
	return first(r, asRecord, keys...)
}

// Objects resolves an array of objects. Non-object elements become empty
// records.
func (r Record) Objects(keys ...string) []Record {
	out, _ := first(r, parseRecords, keys...)
	return out
}

func parseString(v json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

func parseBool(v json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		return false, false
	}
	return b, true
}

// parseDecimal accepts JSON numbers and numeric strings.
func parseDecimal(v json.RawMessage) (decimal.Decimal, bool) {
	s := string(v)
	if strings.HasPrefix(s, `"`) {
		var err error
		if s, err = strconv.Unquote(s); err != nil {
			return decimal.Zero, false
		}
		s = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseInt(v json.RawMessage) (int64, bool) {
	d, ok := parseDecimal(v)
	if !ok || !d.IsInteger() {
		return 0, false
	}
	return d.IntPart(), true
}

func parseTime(v json.RawMessage) (time.Time, bool) {
	s, ok := parseString(v)
	if !ok || s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseRecords(v json.RawMessage) ([]Record, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil, false
	}
	out := make([]Record, len(items))
	for i, item := range items {
		out[i], _ = asRecord(item)
	}
	return out, true
}
