package flow

import (
	"fmt"

	"github.com/dop251/goja"
)

// EvalExpression runs a javascript boolean expression with $ bound to the execution context
// and value bound to the gated context entry.
func EvalExpression(expression string, value any, data map[string]any) (bool, error) {
	vm := goja.New()
	if err := vm.Set("$", data); err != nil {
		return false, err
	}
	if err := vm.Set("value", value); err != nil {
		return false, err
	}
	res, err := vm.RunString(expression)
	if err != nil {
		return false, fmt.Errorf("error executing javascript %w", err)
	}
	return res.ToBoolean(), nil
}
