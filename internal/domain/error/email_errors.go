package error

import "errors"

// Email delivery errors. None of them reach API callers; the outbox
// worker uses them to decide between retrying and giving up.
var (
	// ErrEmailRejected is returned when the provider refuses the message.
	ErrEmailRejected = errors.New("email rejected by provider")

	// ErrEmailProviderUnavailable is returned for failures worth retrying.
	ErrEmailProviderUnavailable = errors.New("email provider unavailable")

	// ErrUnknownTemplate is returned when an outbox row names no known template.
	ErrUnknownTemplate = errors.New("unknown email template")

	// ErrOutboxWrite is returned when an email cannot be enqueued.
	ErrOutboxWrite = errors.New("failed to enqueue email")

	// ErrOutboundEmailNotFound is returned when an outbox row does not exist.
	ErrOutboundEmailNotFound = errors.New("outbound email not found")
)

// DeliveryError wraps an email failure with whether retrying can help.
type DeliveryError struct {
	Template  string
	Permanent bool
	Err       error
}

// NewDeliveryError classifies err for template.
func NewDeliveryError(template string, permanent bool, err error) *DeliveryError {
	return &DeliveryError{Template: template, Permanent: permanent, Err: err}
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	verdict := "temporary"
	if e.Permanent {
		verdict = "permanent"
	}
	if e.Template == "" {
		return verdict + " email failure: " + e.Err.Error()
	}
	return verdict + " email failure (" + e.Template + "): " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Kind is always internal.
func (e *DeliveryError) Kind() Kind {
	return KindInternal
}

// IsPermanentDelivery reports whether err carries a permanent DeliveryError.
func IsPermanentDelivery(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de) && de.Permanent
}
