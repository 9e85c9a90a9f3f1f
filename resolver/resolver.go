// Static resolution pass
//
// The resolver walks the AST between parsing and evaluation, maintaining a
// stack of lexical scopes. For every identifier reference it records the
// hop count (the number of enclosing scopes between the use site and the
// binding site) into the interpreter's depth map, so the evaluator can
// look locals up in O(hops) instead of walking the environment chain.
// References it cannot find on the scope stack are left to be resolved
// dynamically against the global environment at evaluation time.
package resolver

import (
	"fmt"
	"sort"
	"strings"

	"golox/ast"
	"golox/interpreter"
	"golox/token"
)

// binding tracks the state of a single name inside one lexical scope.
// A name is declared before its initializer resolves and only defined
// afterwards, which is what detects `var x = x;`.
type binding struct {
	defined bool
	used    bool
}

// scope is a mapping from names to their binding state. The global scope
// is implicit and never pushed on the stack.
type scope map[string]*binding

// Resolver performs the static resolution pass. It implements both AST
// visitor interfaces; resolution has no runtime effect other than
// populating the interpreter's depth map and collecting warnings.
type Resolver struct {
	scopes      []scope
	interpreter *interpreter.TreeWalkInterpreter
	warnings    []string
}

// Make initializes a Resolver feeding scope depths into the given
// interpreter.
func Make(interp *interpreter.TreeWalkInterpreter) *Resolver {
	return &Resolver{
		scopes:      []scope{},
		interpreter: interp,
	}
}

// Resolve walks the given statements and records a scope depth for every
// identifier reference found on the scope stack. Running it twice over
// identical ASTs produces identical depth maps.
//
// Returns:
//   - error: a NameError if a variable is referenced inside its own
//     initializer, or nil.
func (r *Resolver) Resolve(statements []ast.Stmt) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			nameErr, ok := rec.(NameError)
			if !ok {
				panic(rec)
			}
			err = nameErr
		}
	}()
	r.resolveStatements(statements)
	return nil
}

// Warnings returns the unused-variable warnings collected so far, one
// per binding that was never read and whose name does not begin with
// an underscore.
func (r *Resolver) Warnings() []string {
	return r.warnings
}

func (r *Resolver) resolveStatements(statements []ast.Stmt) {
	for _, statement := range statements {
		statement.Accept(r)
	}
}

func (r *Resolver) resolveStmt(statement ast.Stmt) {
	statement.Accept(r)
}

func (r *Resolver) resolveExpr(expression ast.Expression) {
	expression.Accept(r)
}

// beginScope pushes a fresh scope onto the stack.
func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

// endScope pops the top scope, emitting a warning for every binding
// that was never used. Names starting with '_' opt out of the warning.
func (r *Resolver) endScope() {
	top := r.scopes[len(r.scopes)-1]
	r.scopes = r.scopes[:len(r.scopes)-1]

	unused := []string{}
	for name, entry := range top {
		if !entry.used && !strings.HasPrefix(name, "_") {
			unused = append(unused, name)
		}
	}
	sort.Strings(unused)
	for _, name := range unused {
		r.warnings = append(r.warnings, fmt.Sprintf("[warning] Variable %q is never used.", name))
	}
}

// declare records a name in the top scope as not yet defined. Declaring
// a name twice in the same scope simply overwrites the entry: the
// language permits redeclaration.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	top[name.Lexeme] = &binding{}
}

// define marks a previously declared name as fully defined in the top
// scope.
func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if entry, ok := top[name.Lexeme]; ok {
		entry.defined = true
		return
	}
	top[name.Lexeme] = &binding{defined: true}
}

// resolveLocal scans the scope stack top-down for the given name. On a
// hit it records the hop count (top of stack = 0) into the interpreter's
// depth map. A miss means the reference will be resolved dynamically
// against the global environment.
func (r *Resolver) resolveLocal(expression ast.Expression, name token.Token, markUsed bool) {
	for idx := len(r.scopes) - 1; idx >= 0; idx-- {
		if entry, ok := r.scopes[idx][name.Lexeme]; ok {
			r.interpreter.ResolveDepth(expression, len(r.scopes)-1-idx)
			if markUsed {
				entry.used = true
			}
			return
		}
	}
}

// ---------- Statements ---------- //

// VisitBlockStmt resolves a block inside its own scope.
func (r *Resolver) VisitBlockStmt(blockStmt *ast.BlockStmt) any {
	r.beginScope()
	r.resolveStatements(blockStmt.Statements)
	r.endScope()
	return nil
}

// VisitVarStmt declares the variable, resolves its initializer and only
// then defines it. The two-phase sequence is what catches a reference to
// a declared-but-not-defined name such as `var x = x;`.
func (r *Resolver) VisitVarStmt(varStmt *ast.VarStmt) any {
	r.declare(varStmt.Name)
	if varStmt.Initializer != nil {
		r.resolveExpr(varStmt.Initializer)
	}
	r.define(varStmt.Name)
	return nil
}

// VisitFunStmt declares and defines the function's name in the current
// scope, then resolves the parameters and body inside a new scope.
// Defining the name eagerly allows the function body to refer to itself
// recursively.
func (r *Resolver) VisitFunStmt(funStmt *ast.FunStmt) any {
	r.declare(funStmt.Name)
	r.define(funStmt.Name)

	r.beginScope()
	for _, param := range funStmt.Parameters {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(funStmt.Body)
	r.endScope()
	return nil
}

func (r *Resolver) VisitExpressionStmt(exprStmt *ast.ExpressionStmt) any {
	r.resolveExpr(exprStmt.Expression)
	return nil
}

func (r *Resolver) VisitPrintStmt(printStmt *ast.PrintStmt) any {
	r.resolveExpr(printStmt.Expression)
	return nil
}

func (r *Resolver) VisitReturnStmt(returnStmt *ast.ReturnStmt) any {
	if returnStmt.Value != nil {
		r.resolveExpr(returnStmt.Value)
	}
	return nil
}

func (r *Resolver) VisitIfStmt(stmt *ast.IfStmt) any {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Then)
	if stmt.Else != nil {
		r.resolveStmt(stmt.Else)
	}
	return nil
}

func (r *Resolver) VisitWhileStmt(stmt *ast.WhileStmt) any {
	r.resolveExpr(stmt.Condition)
	r.resolveStmt(stmt.Body)
	return nil
}

// ---------- Expressions ---------- //

// VisitVariableExpression fails if the variable is referenced inside its
// own initializer, then records the reference's scope depth and marks
// the binding used.
func (r *Resolver) VisitVariableExpression(variable *ast.Variable) any {
	if len(r.scopes) > 0 {
		top := r.scopes[len(r.scopes)-1]
		if entry, ok := top[variable.Name.Lexeme]; ok && !entry.defined {
			msg := fmt.Sprintf("Variable `%s` was declared but not defined", variable.Name.Lexeme)
			panic(CreateNameError(variable.Name.Line, variable.Name.Column, msg))
		}
	}

	r.resolveLocal(variable, variable.Name, true)
	return nil
}

// VisitAssignExpression resolves the assigned value, then records the
// scope depth at which the assignment must store.
func (r *Resolver) VisitAssignExpression(assign *ast.Assign) any {
	r.resolveExpr(assign.Value)
	r.resolveLocal(assign, assign.Name, false)
	return nil
}

// VisitLiteral has nothing to resolve: literals are the smallest thing
// in the language.
func (r *Resolver) VisitLiteral(literal *ast.Literal) any {
	return nil
}

func (r *Resolver) VisitGrouping(grouping *ast.Grouping) any {
	r.resolveExpr(grouping.Expression)
	return nil
}

func (r *Resolver) VisitUnary(unary *ast.Unary) any {
	r.resolveExpr(unary.Right)
	return nil
}

func (r *Resolver) VisitBinary(binary *ast.Binary) any {
	r.resolveExpr(binary.Left)
	r.resolveExpr(binary.Right)
	return nil
}

func (r *Resolver) VisitLogicalExpression(logical *ast.Logical) any {
	r.resolveExpr(logical.Left)
	r.resolveExpr(logical.Right)
	return nil
}

func (r *Resolver) VisitCallExpression(call *ast.Call) any {
	r.resolveExpr(call.Callee)
	for _, argument := range call.Arguments {
		r.resolveExpr(argument)
	}
	return nil
}

func (r *Resolver) VisitTernaryExpression(ternary *ast.Ternary) any {
	r.resolveExpr(ternary.Condition)
	r.resolveExpr(ternary.Then)
	r.resolveExpr(ternary.Else)
	return nil
}

func (r *Resolver) VisitPostfixExpression(postfix *ast.Postfix) any {
	r.resolveExpr(postfix.Left)
	return nil
}
