package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/getjson/students"
)

// ExprFilter is a compiled filter expression over student details
type ExprFilter struct {
	program *vm.Program
	expr    string
}

// environment exposes a student and the helper functions to expressions.
// Compilation uses the zero student so field types are known up front.
// contains, startsWith and endsWith are expr operators, so the
// case-insensitive helpers are named hasText, hasPrefix and hasSuffix.
func environment(s students.StudentDetails) map[string]any {
	return map[string]any{
		"Student":  s,
		"ID":       s.ID.String(),
		"Name":     s.Name,
		"Age":      s.Age,
		"Country":  s.Country,
		"IsActive": s.IsActive,
		"Credits":  s.Credits,

		"hasText": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"hasPrefix": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"hasSuffix": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"livesIn": func(country string) bool {
			return strings.EqualFold(s.Country, country)
		},
	}
}

// CompileExprFilter compiles an expression that must evaluate to a bool
func CompileExprFilter(expression string) (*ExprFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, ErrEmptyExpression
	}

	program, err := expr.Compile(expression,
		expr.Env(environment(students.StudentDetails{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, newCompilationError(expression, err)
	}

	return &ExprFilter{
		program: program,
		expr:    expression,
	}, nil
}

// Evaluate reports whether the student matches
func (f *ExprFilter) Evaluate(s students.StudentDetails) (bool, error) {
	result, err := expr.Run(f.program, environment(s))
	if err != nil {
		return false, &EvaluationError{
			Expression:  f.expr,
			StudentID:   s.ID,
			StudentName: s.Name,
			Err:         err,
		}
	}

	matched, _ := result.(bool)
	return matched, nil
}

// String returns the original expression
func (f *ExprFilter) String() string {
	return f.expr
}
