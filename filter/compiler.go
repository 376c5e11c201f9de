package filter

import (
	"github.com/rs/zerolog"

	"github.com/s0up4200/getjson/students"
)

// DefaultCacheSize is the number of compiled expressions kept by a Compiler
const DefaultCacheSize = 100

// Compiler compiles expressions and caches the resulting programs
type Compiler struct {
	cache  *programCache
	logger zerolog.Logger
}

// NewCompiler creates a compiler caching up to cacheSize programs
func NewCompiler(cacheSize int, logger zerolog.Logger) *Compiler {
	return &Compiler{
		cache:  newProgramCache(cacheSize),
		logger: logger,
	}
}

// Compile returns the cached program for expression or compiles it
func (c *Compiler) Compile(expression string) (*ExprFilter, error) {
	if f, ok := c.cache.Get(expression); ok {
		return f, nil
	}

	f, err := CompileExprFilter(expression)
	if err != nil {
		return nil, err
	}

	c.cache.Put(expression, f)
	return f, nil
}

// Apply keeps the students matching f. Students the expression cannot be
// evaluated against are logged and skipped.
func (c *Compiler) Apply(f *ExprFilter, all []students.StudentDetails) []students.StudentDetails {
	matched := make([]students.StudentDetails, 0, len(all))
	for _, s := range all {
		ok, err := f.Evaluate(s)
		if err != nil {
			c.logger.Warn().Err(err).Str("student", s.Name).Msg("Skipping student")
			continue
		}
		if ok {
			matched = append(matched, s)
		}
	}
	return matched
}
