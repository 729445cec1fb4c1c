package models

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Patch is a partial update to a ComplianceInfo. Values are string, int,
// bool or nil (a cleared selection).
type Patch map[FieldName]any

// Fields returns the patched field names in a stable order.
func (p Patch) Fields() []FieldName {
	names := make([]FieldName, 0, len(p))
	for f := range p {
		names = append(names, f)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Apply returns the snapshot that results from applying p to info. info is
// not modified. Values of the wrong type yield an error and no partial
// update.
func Apply(info ComplianceInfo, p Patch) (ComplianceInfo, error) {
	next := info
	strs := next.stringFields()
	ints := next.intFields()

	for _, f := range p.Fields() {
		v := p[f]
		switch {
		case f == FieldIsBusiness:
			b, ok := v.(bool)
			if !ok {
				return info, fmt.Errorf("field %s: expected bool, got %T", f, v)
			}
			next.IsBusiness = b
		case ints[f] != nil:
			n, err := toInt(v)
			if err != nil {
				return info, fmt.Errorf("field %s: %w", f, err)
			}
			*ints[f] = n
		case strs[f] != nil:
			s, err := toString(v)
			if err != nil {
				return info, fmt.Errorf("field %s: %w", f, err)
			}
			*strs[f] = s
		default:
			return info, fmt.Errorf("field %s: not patchable", f)
		}
	}
	return next, nil
}

func toString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func toInt(v any) (int, error) {
	var n int64
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		n = int64(t)
	case int64:
		n = t
	case float64:
		if t != math.Trunc(t) || math.Abs(t) > math.MaxInt32 {
			return 0, fmt.Errorf("expected integer, got %v", t)
		}
		n = int64(t)
	case json.Number:
		parsed, err := strconv.ParseInt(t.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", t)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("integer %d out of range", n)
	}
	return int(n), nil
}
