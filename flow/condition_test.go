package flow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConditionsMet(t *testing.T) {
	for scenario, tc := range map[string]struct {
		conditions map[string]any
		data       map[string]any
		want       bool
	}{
		"nil conditions pass": {
			conditions: nil,
			data:       map[string]any{},
			want:       true,
		},
		"literal equality": {
			conditions: map[string]any{"status": "new"},
			data:       map[string]any{"status": "new"},
			want:       true,
		},
		"literal inequality": {
			conditions: map[string]any{"status": "new"},
			data:       map[string]any{"status": "old"},
			want:       false,
		},
		"missing key fails": {
			conditions: map[string]any{"score": map[string]any{"operator": "less_than", "value": 100}},
			data:       map[string]any{},
			want:       false,
		},
		"greater_than is strict at the boundary": {
			conditions: map[string]any{"score": map[string]any{"operator": "greater_than", "value": 10}},
			data:       map[string]any{"score": 10},
			want:       false,
		},
		"greater_than passes above the boundary": {
			conditions: map[string]any{"score": map[string]any{"operator": "greater_than", "value": 10}},
			data:       map[string]any{"score": 11},
			want:       true,
		},
		"less_than compares mixed numeric types": {
			conditions: map[string]any{"score": map[string]any{"operator": "less_than", "value": 10.5}},
			data:       map[string]any{"score": int64(10)},
			want:       true,
		},
		"equals operator compares numbers by value": {
			conditions: map[string]any{"count": map[string]any{"operator": "equals", "value": float64(3)}},
			data:       map[string]any{"count": 3},
			want:       true,
		},
		"contains on strings": {
			conditions: map[string]any{"title": map[string]any{"operator": "contains", "value": "Go"}},
			data:       map[string]any{"title": "Senior Go Engineer"},
			want:       true,
		},
		"unknown operator fails": {
			conditions: map[string]any{"x": map[string]any{"operator": "between", "value": 1}},
			data:       map[string]any{"x": 1},
			want:       false,
		},
		"map without operator is literal": {
			conditions: map[string]any{"meta": map[string]any{"a": 1}},
			data:       map[string]any{"meta": map[string]any{"a": 1}},
			want:       true,
		},
		"expression sees value and context": {
			conditions: map[string]any{"score": map[string]any{"operator": "expression", "value": "value >= $.threshold"}},
			data:       map[string]any{"score": 80, "threshold": 70},
			want:       true,
		},
		"invalid expression fails": {
			conditions: map[string]any{"score": map[string]any{"operator": "expression", "value": "value >>> ("}},
			data:       map[string]any{"score": 80},
			want:       false,
		},
		"every gate must pass": {
			conditions: map[string]any{"a": 1, "b": 2},
			data:       map[string]any{"a": 1, "b": 3},
			want:       false,
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			require.Equal(t, tc.want, ConditionsMet(tc.conditions, tc.data))
		})
	}
}

func TestStringify(t *testing.T) {
	require.Equal(t, "", Stringify(nil))
	require.Equal(t, "75", Stringify(75.0))
	require.Equal(t, "0.5", Stringify(0.5))
	require.Equal(t, "true", Stringify(true))
	require.Equal(t, "42", Stringify(42))
	require.Equal(t, `["a","b"]`, Stringify([]any{"a", "b"}))
}

func TestContainsRendersGoValues(t *testing.T) {
	data := map[string]any{"passed": true, "score": 10.0}
	contains := func(key string, value any) bool {
		return ConditionsMet(map[string]any{key: map[string]any{"operator": "contains", "value": value}}, data)
	}
	require.True(t, contains("passed", "true"))
	require.False(t, contains("passed", "True"))
	require.True(t, contains("score", "10"))
	require.False(t, contains("score", "10.0"))
}
