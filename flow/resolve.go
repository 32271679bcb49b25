package flow

import (
	"regexp"
	"strings"

	"github.com/oliveagle/jsonpath"
)

var placeholder = regexp.MustCompile(`\{([^{}]+)\}`)

// Substitute replaces {key} with the context value under key and {$.a.b} with the jsonpath
// lookup into the context. Unmatched placeholders are kept verbatim.
func Substitute(s string, data map[string]any) string {
	if !strings.Contains(s, "{") {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(token string) string {
		key := token[1 : len(token)-1]
		if strings.HasPrefix(key, "$") {
			value, err := jsonpath.JsonPathLookup(data, key)
			if err != nil {
				return token
			}
			return Stringify(value)
		}
		value, ok := data[key]
		if !ok {
			return token
		}
		return Stringify(value)
	})
}

// ResolveParams returns a copy of params with every string, at any depth, substituted.
func ResolveParams(params map[string]any, data map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = resolveValue(v, data)
	}
	return out
}

func resolveValue(v any, data map[string]any) any {
	switch val := v.(type) {
	case string:
		return Substitute(val, data)
	case map[string]any:
		return ResolveParams(val, data)
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, resolveValue(item, data))
		}
		return out
	case []string:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, Substitute(item, data))
		}
		return out
	}
	return v
}
