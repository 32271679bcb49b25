package flow

import (
	"strings"

	"github.com/hotgigs/automation/logger"
	"go.uber.org/zap"
)

const (
	OP_EQUALS       = "equals"
	OP_GREATER_THAN = "greater_than"
	OP_LESS_THAN    = "less_than"
	OP_CONTAINS     = "contains"
	OP_EXPRESSION   = "expression"
)

// ConditionsMet evaluates every gate in conditions against data. A gate whose key is absent
// from data always fails. An empty or nil conditions map passes.
func ConditionsMet(conditions map[string]any, data map[string]any) bool {
	for key, expected := range conditions {
		actual, ok := data[key]
		if !ok {
			return false
		}
		if !gate(expected, actual, data) {
			return false
		}
	}
	return true
}

func gate(expected any, actual any, data map[string]any) bool {
	cond, ok := expected.(map[string]any)
	if !ok {
		return Equal(actual, expected)
	}
	op, ok := cond["operator"].(string)
	if !ok {
		return Equal(actual, expected)
	}
	value := cond["value"]
	switch op {
	case OP_EQUALS:
		return Equal(actual, value)
	case OP_GREATER_THAN:
		c, ok := compare(actual, value)
		return ok && c > 0
	case OP_LESS_THAN:
		c, ok := compare(actual, value)
		return ok && c < 0
	case OP_CONTAINS:
		return strings.Contains(Stringify(actual), Stringify(value))
	case OP_EXPRESSION:
		expr, ok := value.(string)
		if !ok {
			return false
		}
		res, err := EvalExpression(expr, actual, data)
		if err != nil {
			logger.Error("error evaluating condition expression", zap.String("expression", expr), zap.Error(err))
			return false
		}
		return res
	}
	logger.Warn("unknown condition operator", zap.String("operator", op))
	return false
}
