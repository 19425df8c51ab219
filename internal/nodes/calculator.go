package nodes

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
)

var errDivideByZero = errors.New("division by zero")

// constants visible to calculator expressions
var calculatorEnv = map[string]any{
	"pi": math.Pi,
	"e":  math.E,
}

// checkedDivision routes / and % through functions that reject a zero divisor.
type checkedDivision struct{}

func (checkedDivision) Visit(node *ast.Node) {
	b, ok := (*node).(*ast.BinaryNode)
	if !ok {
		return
	}
	var fn string
	switch b.Operator {
	case "/":
		fn = "div"
	case "%":
		fn = "mod"
	default:
		return
	}
	ast.Patch(node, &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: fn},
		Arguments: []ast.Node{b.Left, b.Right},
	})
}

func calculatorOptions() []expr.Option {
	return []expr.Option{
		expr.Env(calculatorEnv),
		expr.Patch(checkedDivision{}),
		expr.Function("div", binary("div", func(x, y float64) (float64, error) {
			if y == 0 {
				return 0, errDivideByZero
			}
			return x / y, nil
		})),
		expr.Function("mod", binary("mod", func(x, y float64) (float64, error) {
			if y == 0 {
				return 0, errDivideByZero
			}
			return math.Mod(x, y), nil
		})),
		expr.Function("pow", binary("pow", func(x, y float64) (float64, error) {
			return math.Pow(x, y), nil
		})),
		expr.Function("sqrt", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, errors.New("sqrt takes one argument")
			}
			x, err := toFloat(params[0])
			if err != nil {
				return nil, err
			}
			return math.Sqrt(x), nil
		}),
	}
}

func binary(name string, f func(x, y float64) (float64, error)) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("%s takes two arguments", name)
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		y, err := toFloat(params[1])
		if err != nil {
			return nil, err
		}
		return f(x, y)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("%v is not a number", v)
}

// Evaluate computes an arithmetic expression such as "(12.5 + 3) * 2 / 4".
// Supported: + - * / % ** ^, parentheses and sqrt, pow, abs, round, floor, ceil.
func Evaluate(input string) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, errors.New("empty expression")
	}
	program, err := expr.Compile(input, calculatorOptions()...)
	if err != nil {
		return 0, fmt.Errorf("cannot evaluate %q: %w", input, err)
	}
	out, err := expr.Run(program, calculatorEnv)
	if err != nil {
		if errors.Is(err, errDivideByZero) || strings.Contains(err.Error(), errDivideByZero.Error()) {
			return 0, errDivideByZero
		}
		return 0, fmt.Errorf("cannot evaluate %q: %w", input, err)
	}
	return toFloat(out)
}
