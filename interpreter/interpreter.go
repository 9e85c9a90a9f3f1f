package interpreter

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"golox/ast"
	"golox/token"
)

// TreeWalkInterpreter executes parsed statements and evaluates expressions.
//
// It keeps a reference to the distinguished global environment (created
// once per interpreter, with no enclosing parent), the current
// environment, and the scope-depth map populated by the resolver. Local
// accesses carry a depth and never walk; globals are reached through the
// direct reference to the global environment.
type TreeWalkInterpreter struct {
	globals     *Environment
	environment *Environment
	locals      map[ast.Expression]int
	out         io.Writer
}

// Make creates an instance of a "Tree-Walk Interpreter" printing to
// standard output, with the built-in functions bound in its globals.
func Make() *TreeWalkInterpreter {
	return MakeWithOutput(os.Stdout)
}

// MakeWithOutput creates an interpreter whose print statements write to
// the given writer.
func MakeWithOutput(out io.Writer) *TreeWalkInterpreter {
	globals := MakeEnvironment()
	for _, builtin := range builtins {
		globals.define(builtin.Name, builtin)
	}
	return &TreeWalkInterpreter{
		globals:     globals,
		environment: globals,
		locals:      make(map[ast.Expression]int),
		out:         out,
	}
}

// ResolveDepth records the number of enclosing scopes between a variable
// reference and its binding site. It is called by the resolver to populate
// the depth map before execution; the map is keyed by node identity, so
// two syntactically identical references at different program positions
// resolve independently.
func (i *TreeWalkInterpreter) ResolveDepth(expression ast.Expression, depth int) {
	i.locals[expression] = depth
}

// DepthOf reports the resolved scope depth for the given expression, if
// the resolver recorded one. References without an entry are resolved
// dynamically against the global environment.
func (i *TreeWalkInterpreter) DepthOf(expression ast.Expression) (int, bool) {
	depth, ok := i.locals[expression]
	return depth, ok
}

// Interpret executes a list of statements. Runtime errors raised during
// evaluation abort the run and are returned to the caller; the
// interpreter itself stays usable for subsequent programs.
func (i *TreeWalkInterpreter) Interpret(statements []ast.Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			runtimeErr, ok := r.(RuntimeError)
			if !ok {
				panic(r)
			}
			err = runtimeErr
		}
	}()
	i.executeStatements(statements)
	return nil
}

// executeStatements executes each statement by invoking its Accept
// method. A non-nil result is a return unwind from a nested statement;
// execution of the remaining statements stops and the signal propagates
// to the enclosing call frame.
func (i *TreeWalkInterpreter) executeStatements(statements []ast.Stmt) any {
	for _, s := range statements {
		if signal := s.Accept(i); signal != nil {
			return signal
		}
	}
	return nil
}

// executeStmt executes the given AST node statement by invoking its Accept method,
// which calls the appropriate Visit method of the interpreter.
func (i *TreeWalkInterpreter) executeStmt(stmt ast.Stmt) any {

	// Implements the visitor pattern to process different
	// kinds of statements polymorphically.
	return stmt.Accept(i)
}

// executeBlock executes the statements under the provided environment,
// restoring the previous environment on every exit path: normal
// completion, a return unwind, or a runtime-error panic.
func (i *TreeWalkInterpreter) executeBlock(statements []ast.Stmt, environment *Environment) any {
	previous := i.environment
	i.environment = environment
	defer func() {
		i.environment = previous
	}()
	return i.executeStatements(statements)
}

// VisitBlockStmt executes all statements in the given ast.BlockStmt
// within a new nested environment scoped as a child of the current one.
func (i *TreeWalkInterpreter) VisitBlockStmt(blockStmt *ast.BlockStmt) any {
	return i.executeBlock(blockStmt.Statements, MakeNestedEnvironment(i.environment))
}

// VisitExpressionStmt visits an ExpressionStmt node.
// Evaluates the expression and discards the result.
//
// Returns:
//   - any: always nil because expression statements do not unwind.
func (i *TreeWalkInterpreter) VisitExpressionStmt(exprStatement *ast.ExpressionStmt) any {
	i.evaluate(exprStatement.Expression)
	return nil
}

// VisitIfStmt evaluates the condition of the given ast.IfStmt.
// If the condition evaluates to true (according to truthiness rules),
// it executes the 'Then' branch. If an 'Else' branch is present and
// the condition is false, it is executed.
//
// Returns:
//   - any: the return unwind of the executed branch, or nil.
func (i *TreeWalkInterpreter) VisitIfStmt(stmt *ast.IfStmt) any {
	if i.isTruthy(i.evaluate(stmt.Condition)) {
		return i.executeStmt(stmt.Then)
	}
	if stmt.Else != nil {
		return i.executeStmt(stmt.Else)
	}
	return nil
}

// VisitWhileStmt iterates the loop body for as long as the condition
// evaluates truthy. A return unwind inside the body stops the loop and
// propagates.
func (i *TreeWalkInterpreter) VisitWhileStmt(stmt *ast.WhileStmt) any {
	for i.isTruthy(i.evaluate(stmt.Condition)) {
		if signal := i.executeStmt(stmt.Body); signal != nil {
			return signal
		}
	}
	return nil
}

// VisitPrintStmt visits a PrintStmt node.
// Evaluates the expression and prints the result followed by a newline.
//
// Returns:
//   - any: always nil because print statements do not unwind.
func (i *TreeWalkInterpreter) VisitPrintStmt(printStmt *ast.PrintStmt) any {
	value := i.evaluate(printStmt.Expression)
	fmt.Fprintln(i.out, stringify(value))
	return nil
}

// VisitVarStmt visits a VarStmt node.
// It evaluates the initializer expression of the statement if it contains
// one and binds the variable's name to the evaluated value, or to nil for
// a declaration without an initializer.
func (i *TreeWalkInterpreter) VisitVarStmt(varStmt *ast.VarStmt) any {
	var value any = nil
	if varStmt.Initializer != nil {
		value = i.evaluate(varStmt.Initializer)
	}
	i.environment.define(varStmt.Name.Lexeme, value)
	return nil
}

// VisitFunStmt builds a function value capturing the current environment
// and defines it in the current environment under the function's name.
// The captured environment is the one active at declaration time, which
// is what makes closures close over their defining scope rather than
// their call site.
func (i *TreeWalkInterpreter) VisitFunStmt(funStmt *ast.FunStmt) any {
	function := MakeFunction(funStmt, i.environment)
	i.environment.define(funStmt.Name.Lexeme, function)
	return nil
}

// VisitReturnStmt evaluates the optional return value and produces the
// unwind signal consumed at the matching call frame.
func (i *TreeWalkInterpreter) VisitReturnStmt(returnStmt *ast.ReturnStmt) any {
	var value any = nil
	if returnStmt.Value != nil {
		value = i.evaluate(returnStmt.Value)
	}
	return &returnSignal{value: value}
}

// VisitAssignExpression evaluates an assignment expression node and updates
// the value of the corresponding variable.
//
// If the resolver recorded a scope depth for this node, the assignment
// targets the environment exactly that many hops up the chain. Otherwise
// the variable is assigned dynamically in the global environment.
//
// Returns:
//   - any: The value resulting from evaluating `assign.Value`, which is
//     also the value bound to the variable after the assignment.
func (i *TreeWalkInterpreter) VisitAssignExpression(assign *ast.Assign) any {
	value := i.evaluate(assign.Value)

	if distance, ok := i.locals[assign]; ok {
		if err := i.environment.assignAt(distance, assign.Name, value); err != nil {
			panic(err)
		}
		return value
	}

	if err := i.globals.assign(assign.Name, value); err != nil {
		panic(err)
	}
	return value
}

// VisitBinary evaluates a binary expression node. Both operands are
// evaluated (left first, then right) before the operator's type checks
// run.
//
// Returns:
//   - any: evaluated result of the binary expression (number, string, bool).
//
// Panics with a RuntimeError on invalid operands, division or modulo
// by zero, or unsupported operators.
func (i *TreeWalkInterpreter) VisitBinary(binary *ast.Binary) any {
	left := i.evaluate(binary.Left)
	right := i.evaluate(binary.Right)
	operator := binary.Operator

	switch operator.TokenType {
	case token.ADD:
		leftNumber, leftIsNumber := left.(float64)
		rightNumber, rightIsNumber := right.(float64)
		if leftIsNumber && rightIsNumber {
			return leftNumber + rightNumber
		}
		leftString, leftIsString := left.(string)
		rightString, rightIsString := right.(string)
		if leftIsString && rightIsString {
			return leftString + rightString
		}
		msg := fmt.Sprintf("Operands of + must be either numbers or strings, got: `%v + %v`", stringify(left), stringify(right))
		panic(CreateRuntimeError(operator.Line, operator.Column, msg))

	case token.SUB:
		leftNumber, rightNumber := i.numericOperands(operator, left, right)
		return leftNumber - rightNumber

	case token.MULT:
		leftNumber, rightNumber := i.numericOperands(operator, left, right)
		return leftNumber * rightNumber

	case token.DIV:
		leftNumber, rightNumber := i.numericOperands(operator, left, right)
		if rightNumber == 0 {
			panic(CreateRuntimeError(operator.Line, operator.Column, "Division by 0"))
		}
		return leftNumber / rightNumber

	case token.MOD:
		leftNumber, rightNumber := i.numericOperands(operator, left, right)
		if rightNumber == 0 {
			panic(CreateRuntimeError(operator.Line, operator.Column, "Modulo by 0"))
		}
		return math.Mod(leftNumber, rightNumber)

	case token.POW:
		leftNumber, rightNumber := i.numericOperands(operator, left, right)
		return math.Pow(leftNumber, rightNumber)

	case token.LARGER:
		leftNumber, rightNumber := i.numericOperands(operator, left, right)
		return leftNumber > rightNumber

	case token.LARGER_EQUAL:
		leftNumber, rightNumber := i.numericOperands(operator, left, right)
		return leftNumber >= rightNumber

	case token.LESS:
		leftNumber, rightNumber := i.numericOperands(operator, left, right)
		return leftNumber < rightNumber

	case token.LESS_EQUAL:
		leftNumber, rightNumber := i.numericOperands(operator, left, right)
		return leftNumber <= rightNumber

	case token.EQUAL_EQUAL:
		return left == right

	case token.NOT_EQUAL:
		return left != right

	default:
		msg := fmt.Sprintf("Unknown binary operator: `%s`", operator.Lexeme)
		panic(CreateRuntimeError(operator.Line, operator.Column, msg))
	}
}

// VisitUnary evaluates a unary expression node.
//
// Returns:
//   - any: the evaluated result of the unary operation.
//
// Panics with a RuntimeError on invalid operand types or unsupported
// operators.
func (i *TreeWalkInterpreter) VisitUnary(unary *ast.Unary) any {
	right := i.evaluate(unary.Right)
	operator := unary.Operator

	switch operator.TokenType {
	case token.SUB:
		rightNumber, isNumber := right.(float64)
		if !isNumber {
			msg := fmt.Sprintf("Operand of - must be a number, got: `-%v`", stringify(right))
			panic(CreateRuntimeError(operator.Line, operator.Column, msg))
		}
		return -rightNumber
	case token.BANG:
		// negating a value implicitly casts it to a boolean
		return !i.isTruthy(right)
	default:
		msg := fmt.Sprintf("Unknown unary operator: `%s`", operator.Lexeme)
		panic(CreateRuntimeError(operator.Line, operator.Column, msg))
	}
}

// VisitLogicalExpression evaluates a short-circuiting logical
// expression. The left operand decides whether the right operand is
// evaluated at all, and the produced value is one of the operands
// themselves, never a coerced boolean.
func (i *TreeWalkInterpreter) VisitLogicalExpression(logical *ast.Logical) any {
	left := i.evaluate(logical.Left)

	if logical.Operator.TokenType == token.OR {
		if i.isTruthy(left) {
			return left
		}
	} else {
		if !i.isTruthy(left) {
			return left
		}
	}

	return i.evaluate(logical.Right)
}

// VisitTernaryExpression evaluates a conditional expression. Only the
// branch selected by the condition's truthiness is evaluated.
func (i *TreeWalkInterpreter) VisitTernaryExpression(ternary *ast.Ternary) any {
	if i.isTruthy(i.evaluate(ternary.Condition)) {
		return i.evaluate(ternary.Then)
	}
	return i.evaluate(ternary.Else)
}

// VisitPostfixExpression evaluates a postfix increment. The operand must
// be a variable reference holding a number; the stored value is
// incremented and the pre-increment value is produced.
func (i *TreeWalkInterpreter) VisitPostfixExpression(postfix *ast.Postfix) any {
	operator := postfix.Operator

	variable, ok := postfix.Left.(*ast.Variable)
	if !ok {
		msg := "Operand of ++ must be a variable"
		panic(CreateRuntimeError(operator.Line, operator.Column, msg))
	}

	value := i.lookUpVariable(variable.Name, variable)
	number, isNumber := value.(float64)
	if !isNumber {
		msg := fmt.Sprintf("Operand of ++ must be a number, got: `%v`", stringify(value))
		panic(CreateRuntimeError(operator.Line, operator.Column, msg))
	}

	// store through the same binding the resolver identified for the read
	if distance, ok := i.locals[variable]; ok {
		if err := i.environment.assignAt(distance, variable.Name, number+1); err != nil {
			panic(err)
		}
	} else {
		if err := i.globals.assign(variable.Name, number+1); err != nil {
			panic(err)
		}
	}

	return number
}

// VisitCallExpression evaluates a function invocation following the call
// protocol: evaluate the callee, evaluate the arguments left to right,
// check callability and arity, then dispatch to the callable.
func (i *TreeWalkInterpreter) VisitCallExpression(call *ast.Call) any {
	callee := i.evaluate(call.Callee)

	arguments := make([]any, 0, len(call.Arguments))
	for _, argument := range call.Arguments {
		arguments = append(arguments, i.evaluate(argument))
	}

	function, ok := callee.(Callable)
	if !ok {
		msg := fmt.Sprintf("Cannot call non-callable object: `%v`", stringify(callee))
		panic(CreateRuntimeError(call.Paren.Line, call.Paren.Column, msg))
	}

	if len(arguments) != function.Arity() {
		msg := fmt.Sprintf("Expected %d arguments, got %d", function.Arity(), len(arguments))
		panic(CreateRuntimeError(call.Paren.Line, call.Paren.Column, msg))
	}

	return function.Call(i, arguments)
}

// Retrieves the value for a variable reference, using the resolver's
// scope depth when one was recorded and falling back to the global
// environment otherwise.
//
// Raises:
//   - RuntimeError: panics if attempting to access an undefined variable
func (i *TreeWalkInterpreter) VisitVariableExpression(expression *ast.Variable) any {
	return i.lookUpVariable(expression.Name, expression)
}

// VisitLiteral returns the value of a Literal node.
func (i *TreeWalkInterpreter) VisitLiteral(literal *ast.Literal) any {
	return literal.Value
}

// VisitGrouping evaluates a Grouping expression by evaluating its inner expression.
func (i *TreeWalkInterpreter) VisitGrouping(grouping *ast.Grouping) any {
	return i.evaluate(grouping.Expression)
}

// evaluate evaluates any expression node by invoking its Accept method
// with the Interpreter visitor.
//
// Returns:
//   - any: the evaluated value of the expression.
func (i *TreeWalkInterpreter) evaluate(expression ast.Expression) any {
	return expression.Accept(i)
}

// lookUpVariable reads a variable either at the resolved depth or
// dynamically from the global environment.
func (i *TreeWalkInterpreter) lookUpVariable(name token.Token, expression ast.Expression) any {
	if distance, ok := i.locals[expression]; ok {
		value, err := i.environment.getAt(distance, name)
		if err != nil {
			panic(err)
		}
		return value
	}

	value, err := i.globals.get(name)
	if err != nil {
		panic(err)
	}
	return value
}

// isTruthy determines the "truthiness" of the given object. nil and
// false are falsy; every other value (including 0 and "") is truthy.
func (i *TreeWalkInterpreter) isTruthy(object any) bool {
	if object == nil {
		return false
	}
	value, isBool := object.(bool)
	if isBool {
		return value
	}
	return true
}

// numericOperands validates that both operands are numbers.
//
// Returns:
//   - float64: numeric value of left operand.
//   - float64: numeric value of right operand.
//
// Panics with a RuntimeError naming the operator if either operand is
// not a number.
func (i *TreeWalkInterpreter) numericOperands(operator token.Token, left any, right any) (float64, float64) {
	leftNumber, leftIsNumber := left.(float64)
	rightNumber, rightIsNumber := right.(float64)

	if leftIsNumber && rightIsNumber {
		return leftNumber, rightNumber
	}

	msg := fmt.Sprintf("Operands of %s must be numbers, got: `%v %s %v`", operator.Lexeme, stringify(left), operator.Lexeme, stringify(right))
	panic(CreateRuntimeError(operator.Line, operator.Column, msg))
}

// stringify renders a value the way print statements display it:
// numbers without a trailing `.0` when integer-valued, nil as `nil`,
// booleans as `true`/`false`, and strings without surrounding quotes.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
