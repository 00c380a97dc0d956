package batch

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// schema holds the compiled #Batch definition. A cue.Context is not safe for
// concurrent use, so validation is serialized.
type schema struct {
	mu    sync.Mutex
	ctx   *cue.Context
	batch cue.Value
}

var (
	schemaOnce sync.Once
	compiled   *schema
	compileErr error
)

func compileSchema() (*schema, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			compileErr = &LoadError{Code: ErrCodeSchema, Source: "schema.cue", Message: err.Error()}
			return
		}
		compiled = &schema{ctx: ctx, batch: v.LookupPath(cue.ParsePath("#Batch"))}
	})
	return compiled, compileErr
}

// validate checks doc against #Batch. Every field must be concrete.
func (s *schema) validate(doc document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.ctx.Encode(doc)
	if err := data.Err(); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := s.batch.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%s", cueerrors.Details(err, nil))
	}
	return nil
}
