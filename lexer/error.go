package lexer

import "fmt"

// Defines the struct for all scanning errors in the Lexer
type ScanError struct {
	Line    int32
	Column  int
	Message string
}

func CreateScanError(line int32, column int, message string) ScanError {
	return ScanError{
		Line:    line,
		Column:  column,
		Message: message,
	}
}

func (e ScanError) Error() string {
	return fmt.Sprintf("line:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
