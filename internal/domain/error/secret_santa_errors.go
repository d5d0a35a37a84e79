package error

import "errors"

// Secret Santa domain errors.
var (
	// ErrNotSecretSantaGroup is returned when a draw operation targets a wishlist group.
	ErrNotSecretSantaGroup = errors.New("group is not in secret santa mode")

	// ErrPairingsAlreadyDone is returned when the draw has already been made.
	ErrPairingsAlreadyDone = errors.New("pairings have already been generated")

	// ErrNotEnoughMembers is returned when fewer than two members can take part.
	ErrNotEnoughMembers = errors.New("at least two members are required")
)

// SecretSantaErrorCode defines error codes for Secret Santa errors.
// Format: SS-XXYYYY where XX is category and YYYY is specific error.
type SecretSantaErrorCode string

const (
	// Validation errors (02XXXX)
	ErrCodeNotSecretSantaGroup SecretSantaErrorCode = "SS-020001"
	ErrCodeNotEnoughMembers    SecretSantaErrorCode = "SS-020002"

	// Conflict errors (03XXXX)
	ErrCodePairingsAlreadyDone SecretSantaErrorCode = "SS-030001"
)

var secretSantaErrorKinds = map[SecretSantaErrorCode]Kind{
	ErrCodeNotSecretSantaGroup: KindValidation,
	ErrCodeNotEnoughMembers:    KindValidation,
	ErrCodePairingsAlreadyDone: KindConflict,
}

// SecretSantaError is the coded error for this area.
type SecretSantaError = Coded[SecretSantaErrorCode]

// NewSecretSantaError creates a new SecretSantaError with the given code and message.
func NewSecretSantaError(code SecretSantaErrorCode, message string, err error) *SecretSantaError {
	return newCoded(code, message, err, secretSantaErrorKinds)
}
