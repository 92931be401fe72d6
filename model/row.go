package model

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Row is one raw record as returned by the OLT. Key names vary per device
// family and firmware build, so lookups take a preference-ordered key list.
type Row map[string]any

var powerStrip = regexp.MustCompile(`[^0-9.\-]`)

// String returns the first non-empty value among keys, rendered as text.
func (r Row) String(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = strings.TrimSpace(t)
		case float64:
			if t == math.Trunc(t) {
				s = strconv.FormatInt(int64(t), 10)
			} else {
				s = strconv.FormatFloat(t, 'f', -1, 64)
			}
		case bool:
			s = strconv.FormatBool(t)
		default:
			continue
		}
		if s != "" {
			return s
		}
	}
	return ""
}

// Int returns the first value among keys that coerces to an integer.
func (r Row) Int(keys ...string) (int, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// Power returns the first value among keys that parses as a dBm reading.
func (r Row) Power(keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := ParsePower(r[k]); ok {
			return f, true
		}
	}
	return 0, false
}

// ParsePower extracts a dBm value from the loosely formatted power fields.
// The firmware returns these as strings, often with a unit suffix, and uses
// "-" as a placeholder for no reading.
func ParsePower(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := powerStrip.ReplaceAllString(t, "")
		if s == "" || s == "-" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
