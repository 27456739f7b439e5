// Package normalize maps loosely-typed backend records onto the canonical
// model types. The backend has shipped both camelCase and snake_case field
// names (and both "id" and "_id"); every lookup here accepts either so that
// callers never branch on wire naming.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is one decoded JSON object of unknown shape.
type Record map[string]any

// Decode parses a JSON object body into a Record. Numbers are kept as
// json.Number so large integer ids survive.
func Decode(body []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decode response object: %w", err)
	}
	if r == nil {
		r = Record{}
	}
	return r, nil
}

// DecodeAny parses any JSON body (object, array, scalar).
func DecodeAny(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return v, nil
}

func (r Record) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r Record) Has(keys ...string) bool {
	_, ok := r.lookup(keys...)
	return ok
}

// String returns the first present key rendered as a trimmed string.
func (r Record) String(keys ...string) string {
	v, ok := r.lookup(keys...)
	if !ok {
		return ""
	}
	return strings.TrimSpace(stringAny(v))
}

func (r Record) Int(keys ...string) int {
	v, ok := r.lookup(keys...)
	if !ok {
		return 0
	}
	f, ok := parseFloatAny(v)
	if !ok {
		return 0
	}
	return int(math.Round(f))
}

func (r Record) Float(keys ...string) float64 {
	v, ok := r.lookup(keys...)
	if !ok {
		return 0
	}
	f, _ := parseFloatAny(v)
	return f
}

func (r Record) Bool(keys ...string) bool {
	v, ok := r.lookup(keys...)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	default:
		f, ok := parseFloatAny(v)
		return ok && f != 0
	}
}

// Strings returns a non-nil slice. Arrays, JSON-encoded array strings and
// comma-separated strings are all accepted.
func (r Record) Strings(keys ...string) []string {
	v, ok := r.lookup(keys...)
	if !ok {
		return []string{}
	}
	return stringsAny(v)
}

func (r Record) Time(keys ...string) time.Time {
	return parseTime(r.String(keys...))
}

func (r Record) Object(keys ...string) Record {
	v, ok := r.lookup(keys...)
	if !ok {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		return Record(m)
	}
	if m, ok := v.(Record); ok {
		return m
	}
	return nil
}

func (r Record) Objects(keys ...string) []Record {
	v, ok := r.lookup(keys...)
	if !ok {
		return nil
	}
	return objectsAny(v)
}

// ID resolves an entity id from "id" or "_id". Mongo extended JSON
// ({"$oid": "..."}) and numeric SQL ids are both flattened to strings.
func (r Record) ID() string {
	v, ok := r.lookup("id", "_id")
	if !ok {
		return ""
	}
	return idAny(v)
}

func idAny(v any) string {
	switch t := v.(type) {
	case map[string]any:
		if oid, ok := t["$oid"]; ok {
			return idAny(oid)
		}
		return ""
	case string:
		s := strings.TrimSpace(t)
		if oid, err := primitive.ObjectIDFromHex(s); err == nil {
			return oid.Hex()
		}
		return s
	default:
		return stringAny(v)
	}
}

func stringAny(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		if oid, ok := t["$oid"]; ok {
			return stringAny(oid)
		}
		if d, ok := t["$date"]; ok {
			return stringAny(d)
		}
		return ""
	default:
		return ""
	}
}

func parseFloatAny(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringsAny(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			s := strings.TrimSpace(stringAny(item))
			if s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return out
		}
		if strings.HasPrefix(s, "[") {
			var decoded []any
			if err := json.Unmarshal([]byte(s), &decoded); err == nil {
				return stringsAny(decoded)
			}
		}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func objectsAny(v any) []Record {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
}

// parseTime accepts the ISO variants the backend emits. Naive timestamps
// are treated as UTC. Unparseable input yields the zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}
