// Package error defines domain-specific errors for the gift circle application.
package error

import "errors"

// Kind is the machine-readable class of a domain error. The HTTP layer maps
// kinds to status codes; use cases never format user-facing text beyond it.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindConflict      Kind = "conflict"
	KindNotFound      Kind = "not_found"
	KindInvariant     Kind = "invariant"
	KindInternal      Kind = "internal"
)

// kinded is implemented by every coded domain error.
type kinded interface {
	error
	Kind() Kind
}

type public interface {
	error
	public() (code, message string)
}

// KindOf resolves err to its Kind. Errors that carry no kind, such as
// storage failures, are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// IsKind reports whether err resolves to kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Public returns the client-facing code and message of the outermost coded
// error in err's chain.
func Public(err error) (code, message string, ok bool) {
	var p public
	if !errors.As(err, &p) {
		return "", "", false
	}
	code, message = p.public()
	return code, message, true
}

// Coded is the shape shared by the per-area errors: a stable code for API
// clients, a message and an optional cause.
type Coded[C ~string] struct {
	Code    C
	Message string
	Err     error
	kind    Kind
}

func newCoded[C ~string](code C, message string, err error, kinds map[C]Kind) *Coded[C] {
	kind, ok := kinds[code]
	if !ok {
		kind = KindInternal
	}
	return &Coded[C]{Code: code, Message: message, Err: err, kind: kind}
}

// Error implements the error interface.
func (e *Coded[C]) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Coded[C]) Unwrap() error {
	return e.Err
}

// Kind returns the class the code was registered with.
func (e *Coded[C]) Kind() Kind {
	if e.kind == "" {
		return KindInternal
	}
	return e.kind
}

func (e *Coded[C]) public() (string, string) {
	return string(e.Code), e.Message
}
