package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golox/ast"
	"golox/lexer"
	"golox/token"
)

// parseSource runs the lexer and parser over the given source and
// requires the whole pipeline to succeed.
func parseSource(t *testing.T, source string) []ast.Stmt {
	t.Helper()

	tokens, err := lexer.New(source).Scan()
	require.NoError(t, err)

	statements, errs := Make(tokens).Parse()
	require.Empty(t, errs)
	return statements
}

// parseError runs the lexer and parser and returns the first parse error,
// which must exist.
func parseError(t *testing.T, source string) error {
	t.Helper()

	tokens, err := lexer.New(source).Scan()
	require.NoError(t, err)

	_, errs := Make(tokens).Parse()
	require.NotEmpty(t, errs)
	return errs[0]
}

// expressionOf unwraps the single expression statement of a one-statement
// program.
func expressionOf(t *testing.T, source string) ast.Expression {
	t.Helper()

	statements := parseSource(t, source)
	require.Len(t, statements, 1)
	exprStmt, ok := statements[0].(*ast.ExpressionStmt)
	require.True(t, ok, "expected an expression statement, got %T", statements[0])
	return exprStmt.Expression
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 - 4 must parse as ((1 + (2 * 3)) - 4)
	expr := expressionOf(t, "1 + 2 * 3 - 4;")

	sub, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.SUB), sub.Operator.TokenType)

	add, ok := sub.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.ADD), add.Operator.TokenType)

	mult, ok := add.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.MULT), mult.Operator.TokenType)
}

func TestParseLeftAssociativity(t *testing.T) {
	// 5 - 3 - 1 must parse as ((5 - 3) - 1)
	expr := expressionOf(t, "5 - 3 - 1;")

	outer, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.SUB), outer.Operator.TokenType)

	inner, ok := outer.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.SUB), inner.Operator.TokenType)

	right, ok := outer.Right.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, 1.0, right.Value)
}

func TestParseUnaryBinding(t *testing.T) {
	// -1 + 2 must parse as ((-1) + 2)
	expr := expressionOf(t, "-1 + 2;")

	add, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.ADD), add.Operator.TokenType)

	neg, ok := add.Left.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.SUB), neg.Operator.TokenType)
}

func TestParsePowerRightAssociativity(t *testing.T) {
	// 2 ** 3 ** 2 must parse as (2 ** (3 ** 2))
	expr := expressionOf(t, "2 ** 3 ** 2;")

	outer, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.POW), outer.Operator.TokenType)

	left, ok := outer.Left.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, 2.0, left.Value)

	inner, ok := outer.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.POW), inner.Operator.TokenType)
}

func TestParseGrouping(t *testing.T) {
	expr := expressionOf(t, "(1 + 2) * 3;")

	mult, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.MULT), mult.Operator.TokenType)

	_, ok = mult.Left.(*ast.Grouping)
	assert.True(t, ok)
}

func TestParseVariableDeclaration(t *testing.T) {
	statements := parseSource(t, "var answer = 42;")
	require.Len(t, statements, 1)

	varStmt, ok := statements[0].(*ast.VarStmt)
	require.True(t, ok)
	assert.Equal(t, "answer", varStmt.Name.Lexeme)

	literal, ok := varStmt.Initializer.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, 42.0, literal.Value)
}

func TestParseVariableDeclarationWithoutInitializer(t *testing.T) {
	statements := parseSource(t, "var x;")
	require.Len(t, statements, 1)

	varStmt, ok := statements[0].(*ast.VarStmt)
	require.True(t, ok)
	assert.Nil(t, varStmt.Initializer)
}

func TestParseAssignment(t *testing.T) {
	expr := expressionOf(t, "x = y = 1;")

	assign, ok := expr.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name.Lexeme)

	// assignment is right-associative
	nested, ok := assign.Value.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "y", nested.Name.Lexeme)
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	err := parseError(t, "1 = 2;")
	assert.Contains(t, err.Error(), "Invalid assignment target")
	assert.IsType(t, SyntaxError{}, err)
}

func TestParseIfElse(t *testing.T) {
	statements := parseSource(t, `if (x > 0) print "pos"; else print "neg";`)
	require.Len(t, statements, 1)

	ifStmt, ok := statements[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.NotNil(t, ifStmt.Condition)
	_, ok = ifStmt.Then.(*ast.PrintStmt)
	assert.True(t, ok)
	_, ok = ifStmt.Else.(*ast.PrintStmt)
	assert.True(t, ok)
}

func TestParseWhile(t *testing.T) {
	statements := parseSource(t, "while (i < 3) { i = i + 1; }")
	require.Len(t, statements, 1)

	whileStmt, ok := statements[0].(*ast.WhileStmt)
	require.True(t, ok)
	_, ok = whileStmt.Body.(*ast.BlockStmt)
	assert.True(t, ok)
}

func TestParseForDesugarsToWhile(t *testing.T) {
	statements := parseSource(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Len(t, statements, 1)

	// { var i = 0; while (i < 3) { print i; i = i + 1; } }
	block, ok := statements[0].(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, block.Statements, 2)

	_, ok = block.Statements[0].(*ast.VarStmt)
	require.True(t, ok)

	loop, ok := block.Statements[1].(*ast.WhileStmt)
	require.True(t, ok)

	body, ok := loop.Body.(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, body.Statements, 2)
	_, ok = body.Statements[0].(*ast.PrintStmt)
	assert.True(t, ok)

	increment, ok := body.Statements[1].(*ast.ExpressionStmt)
	require.True(t, ok)
	_, ok = increment.Expression.(*ast.Assign)
	assert.True(t, ok)
}

func TestParseForWithEmptyClauses(t *testing.T) {
	statements := parseSource(t, "for (;;) print 1;")
	require.Len(t, statements, 1)

	// no initializer: the loop is not wrapped in a block,
	// and the missing condition becomes a literal true
	loop, ok := statements[0].(*ast.WhileStmt)
	require.True(t, ok)

	condition, ok := loop.Condition.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, true, condition.Value)

	_, ok = loop.Body.(*ast.PrintStmt)
	assert.True(t, ok)
}

func TestParseFunctionDeclaration(t *testing.T) {
	statements := parseSource(t, "fun add(a, b) { return a + b; }")
	require.Len(t, statements, 1)

	funStmt, ok := statements[0].(*ast.FunStmt)
	require.True(t, ok)
	assert.Equal(t, "add", funStmt.Name.Lexeme)
	require.Len(t, funStmt.Parameters, 2)
	assert.Equal(t, "a", funStmt.Parameters[0].Lexeme)
	assert.Equal(t, "b", funStmt.Parameters[1].Lexeme)

	require.Len(t, funStmt.Body, 1)
	returnStmt, ok := funStmt.Body[0].(*ast.ReturnStmt)
	require.True(t, ok)
	assert.NotNil(t, returnStmt.Value)
}

func TestParseReturnWithoutValue(t *testing.T) {
	statements := parseSource(t, "fun noop() { return; }")
	funStmt := statements[0].(*ast.FunStmt)
	returnStmt, ok := funStmt.Body[0].(*ast.ReturnStmt)
	require.True(t, ok)
	assert.Nil(t, returnStmt.Value)
}

func TestParseCall(t *testing.T) {
	expr := expressionOf(t, "fib(10, x + 1);")

	call, ok := expr.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Arguments, 2)

	callee, ok := call.Callee.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "fib", callee.Name.Lexeme)
}

func TestParseCurriedCall(t *testing.T) {
	expr := expressionOf(t, "make()();")

	outer, ok := expr.(*ast.Call)
	require.True(t, ok)
	assert.Empty(t, outer.Arguments)

	_, ok = outer.Callee.(*ast.Call)
	assert.True(t, ok)
}

func TestParseTernary(t *testing.T) {
	expr := expressionOf(t, `x > 0 ? "pos" : "neg";`)

	ternary, ok := expr.(*ast.Ternary)
	require.True(t, ok)
	_, ok = ternary.Condition.(*ast.Binary)
	assert.True(t, ok)
	_, ok = ternary.Then.(*ast.Literal)
	assert.True(t, ok)
	_, ok = ternary.Else.(*ast.Literal)
	assert.True(t, ok)
}

func TestParsePostfixIncrement(t *testing.T) {
	expr := expressionOf(t, "i++;")

	postfix, ok := expr.(*ast.Postfix)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.INCREMENT), postfix.Operator.TokenType)

	_, ok = postfix.Left.(*ast.Variable)
	assert.True(t, ok)
}

func TestParseLogicalOperators(t *testing.T) {
	expr := expressionOf(t, "a and b or c;")

	// or binds looser than and: ((a and b) or c)
	or, ok := expr.(*ast.Logical)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.OR), or.Operator.TokenType)

	and, ok := or.Left.(*ast.Logical)
	require.True(t, ok)
	assert.Equal(t, token.TokenType(token.AND), and.Operator.TokenType)
}

func TestParseMissingSemicolon(t *testing.T) {
	err := parseError(t, "print 1")
	assert.Contains(t, err.Error(), "Expected ';' after value")
	assert.Contains(t, err.Error(), "end of input")
}

func TestParseMissingClosingParenthesis(t *testing.T) {
	err := parseError(t, "(1 + 2;")
	assert.Contains(t, err.Error(), "Expected ')' after expression")
	assert.Contains(t, err.Error(), "';'")
}

func TestParseMissingClosingBrace(t *testing.T) {
	err := parseError(t, "{ print 1;")
	assert.Contains(t, err.Error(), "Expected '}' after block")
}

func TestParseUnrecognisedExpression(t *testing.T) {
	err := parseError(t, "var x = ;")
	assert.Contains(t, err.Error(), "Expected expression")
	assert.Contains(t, err.Error(), "';'")
}
