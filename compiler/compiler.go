// This package contains the bytecode expression compiler. A Pratt parser is
// used to parse arithmetic expressions: each token type maps to a particular
// prefix and infix parsing rule with its precedence level, and higher
// precedence rules are parsed and compiled before lower precedence rules.
// https://en.wikipedia.org/wiki/Operator-precedence_parser#Pratt_parsing
package compiler

import (
	"fmt"

	"golox/token"
)

// Precedence levels for the grammar's rules, ordered from lowest to highest.
const (
	PREC_NONE   = iota // LOWEST PRECEDENCE
	PREC_TERM          // +, -
	PREC_FACTOR        // *, /
	PREC_UNARY         // -
	PREC_PRIMARY       // (expr), number // HIGHEST PRECEDENCE
)

// The maximum number of constants a chunk can reference: OP_CONSTANT's
// operand is a single byte.
const maxConstants = 256

type ParseFunc func(*Compiler)

// Defines the parsing behavior for a specific token type.
// It contains optional prefix and infix parsing functions, and the
// precedence level of the token when used as an infix operator.
type parseRule struct {
	prefix     ParseFunc
	infix      ParseFunc
	precedence int
}

// Compiler compiles a stream of tokens describing an arithmetic
// expression into a Chunk to be executed by the VM.
type Compiler struct {
	tokens   []token.Token
	position int
	chunk    *Chunk

	parsingRules map[token.TokenType]parseRule
}

// New creates a `Compiler` instance over the given tokens and returns
// a pointer to it.
func New(tokens []token.Token) *Compiler {
	c := &Compiler{
		tokens: tokens,
		chunk:  MakeChunk(),

		parsingRules: map[token.TokenType]parseRule{
			token.ADD:    {prefix: nil, infix: (*Compiler).binary, precedence: PREC_TERM},
			token.SUB:    {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PREC_TERM},
			token.MULT:   {prefix: nil, infix: (*Compiler).binary, precedence: PREC_FACTOR},
			token.DIV:    {prefix: nil, infix: (*Compiler).binary, precedence: PREC_FACTOR},
			token.NUMBER: {prefix: (*Compiler).number, infix: nil, precedence: PREC_NONE},
			token.LPA:    {prefix: (*Compiler).grouping, infix: nil, precedence: PREC_NONE},
		},
	}
	return c
}

// Compile compiles the token stream into a Chunk, emitting a final
// OP_RETURN as the sentinel that makes the VM print the result and halt.
// A SemanticError is returned if the expression is malformed.
func (c *Compiler) Compile() (chunk *Chunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			semanticErr, ok := r.(SemanticError)
			if !ok {
				panic(r)
			}
			err = semanticErr
		}
	}()

	c.expression()
	if !c.isFinished() {
		c.fail("Unexpected token: %s", c.peek())
	}
	c.emit(byte(OP_RETURN))
	return c.chunk, nil
}

// expression parses a complete expression, which is parsing the lowest
// operator precedence.
func (c *Compiler) expression() {
	c.parsePrecedence(PREC_TERM)
}

// parsePrecedence parses an expression of a precedence greater than or
// equal to the provided level. It is the core of the Pratt parsing
// algorithm: consume a token, dispatch its prefix rule, then keep
// consuming infix operators for as long as their precedence does not
// drop below the requested level.
func (c *Compiler) parsePrecedence(precedence int) {
	tok := c.advance()

	rule := c.getParseRule(tok.TokenType)
	if rule.prefix == nil {
		c.fail("Unexpected token: %s", tok)
	}
	rule.prefix(c)

	for !c.isFinished() {
		nextRule := c.getParseRule(c.peek().TokenType)

		// make sure not to capture operands that do not belong
		// to this precedence level
		if precedence > nextRule.precedence {
			break
		}

		opToken := c.advance()
		if nextRule.infix == nil {
			c.fail("Unexpected token: %s", opToken)
		}
		nextRule.infix(c)
	}
}

// number compiles a number literal. The token has already been consumed;
// its value is appended to the constant pool and referenced by an
// OP_CONSTANT instruction.
func (c *Compiler) number() {
	num := c.previous()
	value, ok := num.Literal.(float64)
	if !ok {
		c.fail("Expected a number literal, got %s instead", num)
	}

	constantIndex := c.chunk.AddConstant(value)
	if constantIndex >= maxConstants {
		c.fail("Too many constants in one chunk")
	}
	c.emit(byte(OP_CONSTANT))
	c.emit(byte(constantIndex))
}

// unary compiles a unary operation. Even though the reading order is
// <operator><operand>, the emitted bytes are <operand><operator>, so the
// operator applies to the top of the VM's stack. The operand is parsed
// with the unary level itself, which is why '-' binds tighter than the
// binary operators.
func (c *Compiler) unary() {
	operator := c.previous()

	c.parsePrecedence(PREC_UNARY)

	switch operator.TokenType {
	case token.SUB:
		c.emit(byte(OP_NEGATE))
	default:
		c.fail("Unexpected unary operator: %s", operator)
	}
}

// binary compiles a binary operation. The operator and its left operand
// have already been consumed and compiled. The right operand is parsed
// one precedence level above the operator's own, which is what makes
// operators of the same precedence associate to the left.
func (c *Compiler) binary() {
	operator := c.previous()

	rule := c.getParseRule(operator.TokenType)
	c.parsePrecedence(rule.precedence + 1)

	switch operator.TokenType {
	case token.ADD:
		c.emit(byte(OP_ADD))
	case token.SUB:
		c.emit(byte(OP_SUBTRACT))
	case token.MULT:
		c.emit(byte(OP_MULTIPLY))
	case token.DIV:
		c.emit(byte(OP_DIVIDE))
	default:
		c.fail("Unexpected binary operator: %s", operator)
	}
}

// grouping compiles a parenthesized expression. It produces no bytecode
// of its own: it only parses an expression of the lowest precedence and
// requires the closing parenthesis.
func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RPA, "Expected ')' after grouping expression")
}

// getParseRule retrieves the parsing rule associated with the given
// token type, or an empty rule if the token has no place in an
// arithmetic expression.
func (c *Compiler) getParseRule(tokenType token.TokenType) parseRule {
	rule, ok := c.parsingRules[tokenType]
	if !ok {
		return parseRule{prefix: nil, infix: nil, precedence: PREC_NONE}
	}
	return rule
}

// emit appends a byte to the chunk's instruction stream.
func (c *Compiler) emit(b byte) {
	c.chunk.Write(b)
}

// consume advances past the next token if it matches the expected type,
// failing with the given message otherwise.
func (c *Compiler) consume(tokenType token.TokenType, errorMsg string) {
	if !c.isFinished() && c.peek().TokenType == tokenType {
		c.advance()
		return
	}
	c.fail("%s, got %s instead", errorMsg, c.peek())
}

// isFinished returns true if the compiler has reached the end of the
// token stream (EOF).
func (c *Compiler) isFinished() bool {
	return c.peek().TokenType == token.EOF
}

// peek returns the token at the current position without consuming it.
func (c *Compiler) peek() token.Token {
	return c.tokens[c.position]
}

// previous returns the most recently consumed token.
func (c *Compiler) previous() token.Token {
	return c.tokens[c.position-1]
}

// advance consumes the token at the current position and returns it.
func (c *Compiler) advance() token.Token {
	tok := c.peek()
	if !c.isFinished() {
		c.position++
	}
	return tok
}

// fail aborts compilation with a SemanticError.
func (c *Compiler) fail(format string, args ...any) {
	panic(SemanticError{Message: fmt.Sprintf(format, args...)})
}
