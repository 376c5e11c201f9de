package filter

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr/file"
	"github.com/google/uuid"
)

// ErrEmptyExpression is returned when compiling a blank expression
var ErrEmptyExpression = errors.New("empty filter expression")

// CompilationError reports an expression rejected by the expr compiler.
// Line and Column are 1-based and zero when expr gave no location.
type CompilationError struct {
	Expression string
	Line       int
	Column     int
	Err        error
}

func newCompilationError(expression string, err error) *CompilationError {
	e := &CompilationError{Expression: expression, Err: err}
	var fileErr *file.Error
	if errors.As(err, &fileErr) {
		e.Line = fileErr.Line
		e.Column = fileErr.Column
	}
	return e
}

func (e *CompilationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("filter %q does not compile (line %d, column %d): %v", e.Expression, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("filter %q does not compile: %v", e.Expression, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// EvaluationError reports a filter that failed at run time for one student
type EvaluationError struct {
	Expression  string
	StudentID   uuid.UUID
	StudentName string
	Err         error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("filter %q failed for student %s (%s): %v", e.Expression, e.StudentName, e.StudentID, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
