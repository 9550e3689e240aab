package marketplace

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/siesson1991/adtracking-saas/internal/domain/tracking"
)

// field walks nested objects, returning nil when any step is missing
func field(payload tracking.OrderPayload, path ...string) any {
	var cur any = map[string]any(payload)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

// stringField renders scalar values as strings; objects, arrays and null are absent
func stringField(payload tracking.OrderPayload, path ...string) string {
	switch v := field(payload, path...).(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// firstString returns the first non-empty field among candidates
func firstString(payload tracking.OrderPayload, candidates ...[]string) (string, bool) {
	for _, path := range candidates {
		if s := stringField(payload, path...); s != "" {
			return s, true
		}
	}
	return "", false
}

func oneOf(value string, accepted ...string) bool {
	for _, a := range accepted {
		if value == a {
			return true
		}
	}
	return false
}

func containsTestFold(s string) bool {
	return strings.Contains(strings.ToLower(s), "test")
}
