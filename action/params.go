package action

import (
	"github.com/hotgigs/automation/flow"
)

func paramString(params map[string]any, key string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return ""
	}
	return flow.Stringify(v)
}

// paramOrContext reads key from params, falling back to the execution context.
func paramOrContext(params map[string]any, data map[string]any, key string) string {
	if s := paramString(params, key); s != "" {
		return s
	}
	return paramString(data, key)
}

func paramMap(params map[string]any, key string) map[string]any {
	m, _ := params[key].(map[string]any)
	return m
}

func paramFloat(params map[string]any, key string, def float64) float64 {
	if f, ok := flow.ToFloat(params[key]); ok {
		return f
	}
	return def
}
