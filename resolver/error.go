package resolver

import "fmt"

// Defines the struct for all name resolution errors in the Resolver
type NameError struct {
	Line    int32
	Column  int
	Message string
}

func CreateNameError(line int32, column int, message string) NameError {
	return NameError{
		Line:    line,
		Column:  column,
		Message: message,
	}
}

func (e NameError) Error() string {
	return fmt.Sprintf("line:%d, column:%d - %s", e.Line, e.Column, e.Message)
}
