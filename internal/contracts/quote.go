package contracts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// IdentityField is echoed back by the market-data provider for known symbols
const IdentityField = "Symbol"

// QuoteRecord is the company overview returned by the market-data provider.
// It keeps the upstream body verbatim so it can be passed through, and
// exposes typed optional lookups for the few fields the service reads.
// ⭐ SSOT: Quote 데이터 표현은 이 타입에서만
type QuoteRecord struct {
	raw    json.RawMessage
	fields map[string]json.RawMessage
}

// ParseQuoteRecord parses a JSON object into a QuoteRecord
func ParseQuoteRecord(body []byte) (QuoteRecord, error) {
	trimmed := bytes.TrimSpace(body)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return QuoteRecord{}, fmt.Errorf("decode quote record: %w", err)
	}
	if fields == nil {
		// literal null
		return QuoteRecord{}, fmt.Errorf("decode quote record: not a JSON object")
	}

	raw := make(json.RawMessage, len(trimmed))
	copy(raw, trimmed)

	return QuoteRecord{raw: raw, fields: fields}, nil
}

// Valid reports whether the provider recognized the symbol
func (q QuoteRecord) Valid() bool {
	s, ok := q.String(IdentityField)
	return ok && s != ""
}

// Symbol returns the provider's symbol echo
func (q QuoteRecord) Symbol() string {
	s, _ := q.String(IdentityField)
	return s
}

// Has reports whether key is present
func (q QuoteRecord) Has(key string) bool {
	_, ok := q.fields[key]
	return ok
}

// Len returns the number of top-level fields
func (q QuoteRecord) Len() int {
	return len(q.fields)
}

// String returns key as a string if it is present and a JSON string
func (q QuoteRecord) String(key string) (string, bool) {
	raw, ok := q.fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Float returns key as a number. Both JSON numbers and numeric strings are
// accepted since the provider quotes every value ("0.247", "None").
func (q QuoteRecord) Float(key string) (float64, bool) {
	raw, ok := q.fields[key]
	if !ok {
		return 0, false
	}

	// json.Number takes bare numbers and strictly formatted quoted ones
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return parseFloat(n.String())
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	return parseFloat(strings.TrimSpace(s))
}

// parseFloat keeps the ±Inf that strconv reports for out-of-range values
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// FloatOr returns key as a number, or def when absent or non-numeric
func (q QuoteRecord) FloatOr(key string, def float64) float64 {
	if f, ok := q.Float(key); ok {
		return f
	}
	return def
}

// MarshalJSON writes the upstream body unchanged
func (q QuoteRecord) MarshalJSON() ([]byte, error) {
	if q.raw == nil {
		return []byte("{}"), nil
	}
	return q.raw, nil
}

// UnmarshalJSON parses a JSON object into the record
func (q *QuoteRecord) UnmarshalJSON(data []byte) error {
	parsed, err := ParseQuoteRecord(data)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
