package studio

import "github.com/pkg/errors"

// NotLoadedError is returned by any query method when no document has
// been uploaded yet.
type NotLoadedError struct{}

func (*NotLoadedError) Error() string { return "studio: no document loaded" }

// BadInputError reports a malformed upload request (e.g. a filename not
// ending in .gdml).
type BadInputError struct {
	Reason string
}

func (e *BadInputError) Error() string { return "studio: bad input: " + e.Reason }

// badInput wraps Reason in a *BadInputError.
func badInput(reason string) error {
	return &BadInputError{Reason: reason}
}

// wrapPipelineError gives parse/eval failures from the pipeline a
// consistent, causally-chained message without discarding the underlying
// *gdml.ParseError / *expr.EvalError for callers that want to type-assert
// past it.
func wrapPipelineError(stage string, err error) error {
	return errors.Wrapf(err, "studio: %s failed", stage)
}
