package interpreter

import (
	"fmt"
	"strings"

	"golox/ast"
)

// Callable is implemented by every value that can appear as the callee
// of a call expression: user-declared functions and built-ins.
type Callable interface {
	// Arity returns the number of arguments the callable expects.
	Arity() int

	// Call invokes the callable with already-evaluated arguments. The
	// argument count has been checked against Arity by the interpreter.
	Call(i *TreeWalkInterpreter, arguments []any) any
}

// returnSignal carries a return value up through nested statement
// execution until the enclosing call frame consumes it. It is a plain
// control-flow sentinel, deliberately distinct from RuntimeError.
type returnSignal struct {
	value any
}

// Function is a user-declared function value: the declaration AST node
// paired with the environment captured at declaration time (the closure).
// Calls create a fresh child environment enclosing the closure's
// environment, not the caller's.
type Function struct {
	Declaration *ast.FunStmt
	Closure     *Environment
}

// MakeFunction builds a function value closing over the given environment.
func MakeFunction(declaration *ast.FunStmt, closure *Environment) *Function {
	return &Function{
		Declaration: declaration,
		Closure:     closure,
	}
}

func (f *Function) Arity() int {
	return len(f.Declaration.Parameters)
}

// Call executes the function body under a fresh environment enclosing
// the closure, with each parameter bound to the corresponding argument.
// A return unwind inside the body produces the call result; falling off
// the end of the body produces nil.
func (f *Function) Call(i *TreeWalkInterpreter, arguments []any) any {
	environment := MakeNestedEnvironment(f.Closure)
	for idx, param := range f.Declaration.Parameters {
		environment.define(param.Lexeme, arguments[idx])
	}

	signal := i.executeBlock(f.Declaration.Body, environment)
	if ret, ok := signal.(*returnSignal); ok {
		return ret.value
	}
	return nil
}

func (f *Function) String() string {
	params := make([]string, 0, len(f.Declaration.Parameters))
	for _, param := range f.Declaration.Parameters {
		params = append(params, param.Lexeme)
	}
	return fmt.Sprintf("<fn %s(%s)>", f.Declaration.Name.Lexeme, strings.Join(params, ", "))
}
