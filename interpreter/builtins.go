package interpreter

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// Builtin is a native function exposed to programs. Builtins participate
// in the regular call protocol: arity is checked by the interpreter
// before Callback runs, and a Callback error surfaces as a RuntimeError
// at the call site.
type Builtin struct {
	Name     string
	ArityN   int
	Callback func(arguments []any) (any, error)
}

func (b *Builtin) Arity() int {
	return b.ArityN
}

func (b *Builtin) Call(i *TreeWalkInterpreter, arguments []any) any {
	result, err := b.Callback(arguments)
	if err != nil {
		panic(CreateRuntimeError(0, 0, err.Error()))
	}
	return result
}

func (b *Builtin) String() string {
	return fmt.Sprintf("<builtin %s/%d>", b.Name, b.ArityN)
}

// builtins lists the native functions bound in the global environment at
// interpreter construction.
var builtins = []*Builtin{
	{
		// rand(max) returns a random integer-valued number in [0, max)
		Name:   "rand",
		ArityN: 1,
		Callback: func(arguments []any) (any, error) {
			max, ok := arguments[0].(float64)
			if !ok || max <= 0 {
				return nil, fmt.Errorf("Argument of rand must be a number greater than 0, got: `%v`", stringify(arguments[0]))
			}
			return float64(rand.Intn(int(math.Ceil(max)))), nil
		},
	},
	{
		// time() returns the seconds elapsed since the Unix epoch
		Name:   "time",
		ArityN: 0,
		Callback: func(arguments []any) (any, error) {
			return float64(time.Now().UnixNano()) / float64(time.Second), nil
		},
	},
	{
		// sqrt(x) returns the square root of x
		Name:   "sqrt",
		ArityN: 1,
		Callback: func(arguments []any) (any, error) {
			x, ok := arguments[0].(float64)
			if !ok {
				return nil, fmt.Errorf("Argument of sqrt must be a number, got: `%v`", stringify(arguments[0]))
			}
			if x < 0 {
				return nil, fmt.Errorf("Cannot compute square root of negative number")
			}
			return math.Sqrt(x), nil
		},
	},
}
