package nodes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"1 + 2", 3},
		{"7 / 2", 3.5},
		{"-(3 - 5) * 4", 8},
		{"2 ** 10", 1024},
		{"pow(2, 3) + sqrt(16)", 12},
		{"10 % 4", 2},
		{"round(2.5) + floor(1.9) + ceil(0.1) + abs(-1)", 6},
		{"1_000 * 1.5", 1500},
		{"7.5 % 2", 1.5},
		{"2 * pi", 2 * math.Pi},
	}
	for _, tt := range tests {
		got, err := Evaluate(tt.expr)
		require.NoError(t, err, tt.expr)
		assert.InDelta(t, tt.want, got, 1e-9, tt.expr)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	for _, expr := range []string{"", "1 +", `"text"`, "foo(1)", "x + 1", "sqrt(1, 2)", "5 % 0"} {
		_, err := Evaluate(expr)
		assert.Error(t, err, expr)
	}
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	for _, expr := range []string{"1 / 0", "5 % 0", "3 / (2 - 2)"} {
		_, err := Evaluate(expr)
		assert.ErrorIs(t, err, errDivideByZero, expr)
	}
}
