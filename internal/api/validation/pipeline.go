package validation

import (
	"context"
	"fmt"
)

// Form is a bound request body that can clean its own values.
type Form interface {
	// Normalize trims and canonicalises fields in place before any rule runs.
	Normalize()
}

// Redactor is implemented by forms carrying a credential. Redact blanks it
// so a re-rendered form never echoes the password.
type Redactor interface {
	Redact()
}

// Check is a store-dependent rule for one field. Fn returns a non-empty
// message when the rule fails; an error aborts the pipeline.
type Check struct {
	Field string
	Fn    func(ctx context.Context) (string, error)
}

// Pipeline runs normalisation, field rules and store checks in that order.
type Pipeline struct {
	v *Validator
}

func NewPipeline(v *Validator) *Pipeline {
	return &Pipeline{v: v}
}

// Run validates form. Every field rule is evaluated; store checks only run
// for fields that are still clean, so a malformed email never reaches the
// uniqueness query. A nil Errors means the form passed.
func (p *Pipeline) Run(ctx context.Context, form Form, checks ...Check) (Errors, error) {
	form.Normalize()

	errs := p.v.Errors(form)
	for _, chk := range checks {
		if errs.Has(chk.Field) {
			continue
		}
		msg, err := chk.Fn(ctx)
		if err != nil {
			return nil, fmt.Errorf("validate %s: %w", chk.Field, err)
		}
		if msg != "" {
			errs.Add(chk.Field, msg)
		}
	}

	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}
