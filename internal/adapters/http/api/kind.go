package api

import "fmt"

// kindError tags an error with an operation and a sentinel kind so callers
// can match with errors.Is while keeping the operation in the message.
type kindError struct {
	op    string
	kind  error
	cause error
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.cause)
}

func (e *kindError) Is(target error) bool { return target == e.kind }

func (e *kindError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return e.kind
}

// NewKind creates an op-tagged error of the given kind.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}

// WrapKind creates an op-tagged error of the given kind wrapping cause.
func WrapKind(op string, kind error, cause error) error {
	return &kindError{op: op, kind: kind, cause: cause}
}

// Wrap tags err with op without changing its kind.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
