package lexer

import (
	"fmt"
	"strconv"

	"golox/token"
)

func isLetter(char rune) bool {
	return rune('a') <= char && char <= rune('z') || rune('A') <= char && char <= rune('Z') || char == rune('_')
}

func isDigit(char rune) bool {
	return rune('0') <= char && char <= rune('9')
}

// Lexer represents a lexical scanner for processing input text into tokens.
// It maintains the current scanning state, including the position within the
// input, the beginning of the current lexeme, and metadata for line/column
// tracking. The Lexer also records tokens and errors encountered during
// scanning.
type Lexer struct {
	// rune slice of the input string being scanned.
	characters []rune

	// Total number of runes in the input.
	totalChars int

	// Stores the sequence of tokens produced during lexing.
	tokens []token.Token

	// The index where the current lexeme begins.
	start int

	// The index of the next character to be consumed.
	current int

	// Tracks the number of lines processed (incremented on newline).
	line int32

	// The index where the current line begins. Columns are derived by
	// subtracting this from the lexeme start.
	lineStart int

	// Stores any scanning errors that occur during lexing.
	errors []error
}

// New initializes and returns a new Lexer instance.
//
// Parameters:
//   - input: string
//     The source code as a string to be lexically analyzed.
//
// Returns:
//   - *Lexer: A pointer to a newly created Lexer instance.
func New(input string) *Lexer {
	lexer := &Lexer{
		characters: []rune(input),
	}
	lexer.totalChars = len(lexer.characters)
	return lexer
}

// Determines if the lexer has consumed all the source code.
//
// Returns:
//   - bool: true if the lexer has finished scanning, false otherwise
func (lexer *Lexer) isFinished() bool {
	return lexer.current >= lexer.totalChars
}

// Consumes the character at the `Lexer`'s cursor and returns it,
// moving the cursor forward by one character.
func (lexer *Lexer) advance() rune {
	char := lexer.characters[lexer.current]
	lexer.current++
	return char
}

// Returns the character at the `Lexer`'s cursor without consuming it.
//
// Returns:
//   - rune: The next character in the input stream.
//     If the lexer has reached the end of the input, it returns 0 (null)
func (lexer *Lexer) peek() rune {
	if lexer.isFinished() {
		return rune(0)
	}
	return lexer.characters[lexer.current]
}

// Returns the character one past the `Lexer`'s cursor without consuming it.
//
// Returns:
//   - rune: The character after the next one in the input stream.
//     If no such character exists, it returns 0 (null)
func (lexer *Lexer) peekNext() rune {
	nextPos := lexer.current + 1
	if nextPos >= lexer.totalChars {
		return rune(0)
	}
	return lexer.characters[nextPos]
}

// Determines if the next character in the source code matches the
// `expected` character, consuming it on a match. Longest match wins
// on tied prefixes, so two-character operators are checked before
// their one-character fallbacks.
func (lexer *Lexer) isMatch(expected rune) bool {
	if lexer.isFinished() {
		return false
	}
	if lexer.characters[lexer.current] != expected {
		return false
	}
	lexer.current++
	return true
}

// Registers a newline at the cursor: increments the line count and
// resets the column origin to the character after the newline.
func (lexer *Lexer) newline() {
	lexer.line++
	lexer.lineStart = lexer.current
}

// The column (0-based) at which the current lexeme begins.
func (lexer *Lexer) column() int {
	return lexer.start - lexer.lineStart
}

// The source text of the current lexeme, spanning from `start` up to
// (but excluding) the cursor.
func (lexer *Lexer) lexeme() string {
	return string(lexer.characters[lexer.start:lexer.current])
}

// Appends a non-literal token of the given type at the current lexeme
// position.
func (lexer *Lexer) addToken(tokenType token.TokenType) {
	lexer.tokens = append(lexer.tokens, token.CreateToken(tokenType, lexer.line, lexer.column()))
}

// Appends a literal-carrying token at the current lexeme position.
func (lexer *Lexer) addLiteralToken(tokenType token.TokenType, literal any, lexeme string) {
	lexer.tokens = append(lexer.tokens, token.CreateLiteralToken(tokenType, literal, lexeme, lexer.line, lexer.column()))
}

// Records a scanning error at the current lexeme position.
func (lexer *Lexer) fail(format string, args ...any) {
	err := CreateScanError(lexer.line, lexer.column(), fmt.Sprintf(format, args...))
	lexer.errors = append(lexer.errors, err)
}

// handleLineComment consumes all characters until the end of the line or
// end of input. The terminating newline is left for the main scan loop.
func (lexer *Lexer) handleLineComment() {
	for !lexer.isFinished() && lexer.peek() != rune('\n') {
		lexer.advance()
	}
}

// handleBlockComment consumes a `/* ... */` comment. Block comments nest:
// every `/*` inside the comment must be closed by its own `*/`.
// An unterminated block comment is a scanning error.
func (lexer *Lexer) handleBlockComment() {
	depth := 1
	for depth > 0 && !lexer.isFinished() {
		if lexer.peek() == rune('/') && lexer.peekNext() == rune('*') {
			lexer.advance()
			lexer.advance()
			depth++
			continue
		}
		if lexer.peek() == rune('*') && lexer.peekNext() == rune('/') {
			lexer.advance()
			lexer.advance()
			depth--
			continue
		}
		if lexer.advance() == rune('\n') {
			lexer.newline()
		}
	}
	if depth > 0 {
		lexer.fail("unterminated block comment")
	}
}

// handleNumber scans a sequence of digits with at most one decimal point
// from the input and creates a NUMBER token carrying a float64 literal.
//
// Validation rules:
//   - A number ending with a decimal point (e.g., "1.") without further
//     digits is an error.
//   - Multiple decimal points (e.g., "1.1.") are considered invalid and
//     cause an error.
func (lexer *Lexer) handleNumber() {
	for isDigit(lexer.peek()) {
		lexer.advance()
	}

	if lexer.peek() == rune('.') {
		// handles numbers such as 1.
		if !isDigit(lexer.peekNext()) {
			lexer.advance()
			lexer.fail("invalid number: '%s'", lexer.lexeme())
			return
		}
		lexer.advance()
		for isDigit(lexer.peek()) {
			lexer.advance()
		}
	}

	// handles numbers such as 1.1.
	if lexer.peek() == rune('.') {
		lexer.advance()
		lexer.fail("invalid number: '%s'", lexer.lexeme())
		return
	}

	number := lexer.lexeme()
	value, _ := strconv.ParseFloat(number, 64)
	lexer.addLiteralToken(token.NUMBER, value, number)
}

// handleIdentifier processes a user identifier or a language keyword
// in the source code.
func (lexer *Lexer) handleIdentifier() {
	for isLetter(lexer.peek()) || isDigit(lexer.peek()) {
		lexer.advance()
	}

	identifier := lexer.lexeme()
	tokenType := token.TokenType(token.IDENTIFIER)
	if keywordType, exists := token.KeyWords[identifier]; exists {
		tokenType = keywordType
	}
	lexer.tokens = append(lexer.tokens, token.Token{
		TokenType: tokenType,
		Lexeme:    identifier,
		Line:      lexer.line,
		Column:    lexer.column(),
	})
}

// handleStringLiteral processes a double-quoted string literal. Newlines
// are allowed inside the literal. The emitted STRING token's literal is
// the interior text, without the surrounding quotes.
//
// An unclosed string literal is a scanning error.
func (lexer *Lexer) handleStringLiteral() {
	// the token reports the position of its opening quote, even when
	// the literal spans multiple lines
	startLine := lexer.line
	startColumn := lexer.column()

	for !lexer.isFinished() && lexer.peek() != rune('"') {
		if lexer.advance() == rune('\n') {
			lexer.newline()
		}
	}

	if lexer.isFinished() {
		lexer.fail("unterminated string literal: '%s'", string(lexer.characters[lexer.start+1:lexer.current]))
		return
	}

	// the closing quote
	lexer.advance()

	value := string(lexer.characters[lexer.start+1 : lexer.current-1])
	lexer.tokens = append(lexer.tokens, token.CreateLiteralToken(token.STRING, value, lexer.lexeme(), startLine, startColumn))
}

// scanToken consumes the character at the cursor and creates a token if
// applicable. Whitespace and comments produce no token.
func (lexer *Lexer) scanToken() {

	char := lexer.advance()
	switch char {
	case rune(' '), rune('\r'), rune('\t'):
		// whitespace is discarded
	case rune('\n'):
		lexer.newline()
	case rune('('):
		lexer.addToken(token.LPA)
	case rune(')'):
		lexer.addToken(token.RPA)
	case rune('{'):
		lexer.addToken(token.LCUR)
	case rune('}'):
		lexer.addToken(token.RCUR)
	case rune(','):
		lexer.addToken(token.COMMA)
	case rune('.'):
		lexer.addToken(token.DOT)
	case rune(';'):
		lexer.addToken(token.SEMICOLON)
	case rune('-'):
		lexer.addToken(token.SUB)
	case rune('%'):
		lexer.addToken(token.MOD)
	case rune('?'):
		lexer.addToken(token.QUESTION)
	case rune(':'):
		lexer.addToken(token.COLON)
	case rune('+'):
		if lexer.isMatch(rune('+')) {
			lexer.addToken(token.INCREMENT)
		} else {
			lexer.addToken(token.ADD)
		}
	case rune('*'):
		if lexer.isMatch(rune('*')) {
			lexer.addToken(token.POW)
		} else {
			lexer.addToken(token.MULT)
		}
	case rune('/'):
		if lexer.isMatch(rune('/')) {
			lexer.handleLineComment()
		} else if lexer.isMatch(rune('*')) {
			lexer.handleBlockComment()
		} else {
			lexer.addToken(token.DIV)
		}
	case rune('!'):
		if lexer.isMatch(rune('=')) {
			lexer.addToken(token.NOT_EQUAL)
		} else {
			lexer.addToken(token.BANG)
		}
	case rune('='):
		if lexer.isMatch(rune('=')) {
			lexer.addToken(token.EQUAL_EQUAL)
		} else {
			lexer.addToken(token.ASSIGN)
		}
	case rune('<'):
		if lexer.isMatch(rune('=')) {
			lexer.addToken(token.LESS_EQUAL)
		} else {
			lexer.addToken(token.LESS)
		}
	case rune('>'):
		if lexer.isMatch(rune('=')) {
			lexer.addToken(token.LARGER_EQUAL)
		} else {
			lexer.addToken(token.LARGER)
		}
	case rune('"'):
		lexer.handleStringLiteral()
	default:
		if isDigit(char) {
			lexer.handleNumber()
		} else if isLetter(char) {
			lexer.handleIdentifier()
		} else {
			lexer.fail("unexpected character: '%c'", char)
		}
	}
}

// Scan performs lexical analysis on the input and returns a slice of tokens
// terminated by an EOF token.
//
// This method is the main entry point for the lexical analysis process. It
// iterates through the input, tokenizing it and collecting all tokens until
// the end of the input is reached or an error occurs. Scanning the same
// source twice yields identical token sequences.
//
// Returns:
//   - []token.Token: A slice containing all tokens found in the input.
//   - error: A ScanError if any issue occurred during lexing, or nil if
//     successful.
func (lexer *Lexer) Scan() ([]token.Token, error) {

	for !lexer.isFinished() {
		lexer.start = lexer.current
		lexer.scanToken()
		if len(lexer.errors) > 0 {
			return lexer.tokens, lexer.errors[0]
		}
	}

	lexer.start = lexer.current
	lexer.tokens = append(lexer.tokens, token.CreateToken(token.EOF, lexer.line, lexer.column()))
	return lexer.tokens, nil
}
