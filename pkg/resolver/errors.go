package resolver

import (
	"fmt"
	"strings"
)

// ResolutionError reports a required part that no tier could resolve.
type ResolutionError struct {
	Ref  string
	Role string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("part %s (role %q): no resolution tier produced a symbol", e.Ref, e.Role)
}

// AggregateError collects every ResolutionError of a batch so the whole
// project can be fixed in one pass.
type AggregateError struct {
	Failures []*ResolutionError
}

func (e *AggregateError) Error() string {
	refs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		refs[i] = fmt.Sprintf("%s (%s)", f.Ref, f.Role)
	}
	return fmt.Sprintf("failed to resolve %d required part(s): %s", len(e.Failures), strings.Join(refs, ", "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Refs returns the refs of the failed parts in input order.
func (e *AggregateError) Refs() []string {
	refs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		refs[i] = f.Ref
	}
	return refs
}
