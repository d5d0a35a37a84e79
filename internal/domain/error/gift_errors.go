package error

import "errors"

// Gift domain errors.
var (
	// ErrGiftNotFound is returned when a gift does not exist or was removed by its requester.
	ErrGiftNotFound = errors.New("gift not found")

	// ErrGiftNameRequired is returned when the gift name is empty.
	ErrGiftNameRequired = errors.New("gift name is required")

	// ErrGiftNameTooLong is returned when the gift name exceeds the maximum length.
	ErrGiftNameTooLong = errors.New("gift name too long")

	// ErrInvalidGiftURL is returned when the gift URL is not an absolute http(s) URL.
	ErrInvalidGiftURL = errors.New("invalid gift url")

	// ErrGroupIDRequired is returned when a gift is created without a group.
	ErrGroupIDRequired = errors.New("group id is required")

	// ErrNotGiftOwner is returned when someone other than the requester mutates a gift.
	ErrNotGiftOwner = errors.New("only the requester can modify this gift")

	// ErrSelfClaim is returned when a requester tries to claim their own gift.
	ErrSelfClaim = errors.New("you cannot claim your own gift")

	// ErrGiftAlreadyClaimed is returned when the gift already has a claimant.
	ErrGiftAlreadyClaimed = errors.New("gift already claimed by someone else")

	// ErrNotGiftClaimant is returned when someone other than the claimant releases a claim.
	ErrNotGiftClaimant = errors.New("only the claimant can release this claim")
)

// GiftErrorCode defines error codes for gift errors.
// Format: GIFT-XXYYYY where XX is category and YYYY is specific error.
type GiftErrorCode string

const (
	// Resource not found errors (01XXXX)
	ErrCodeGiftNotFound GiftErrorCode = "GIFT-010001"

	// Validation errors (02XXXX)
	ErrCodeGiftNameRequired  GiftErrorCode = "GIFT-020001"
	ErrCodeGiftNameTooLong   GiftErrorCode = "GIFT-020002"
	ErrCodeInvalidGiftURL    GiftErrorCode = "GIFT-020003"
	ErrCodeGroupIDRequired   GiftErrorCode = "GIFT-020004"
	ErrCodeMissingGiftFields GiftErrorCode = "GIFT-020005"

	// Conflict errors (03XXXX)
	ErrCodeGiftAlreadyClaimed GiftErrorCode = "GIFT-030001"

	// Authorization errors (04XXXX)
	ErrCodeNotGiftOwner    GiftErrorCode = "GIFT-040001"
	ErrCodeSelfClaim       GiftErrorCode = "GIFT-040002"
	ErrCodeNotGiftClaimant GiftErrorCode = "GIFT-040003"
)

var giftErrorKinds = map[GiftErrorCode]Kind{
	ErrCodeGiftNotFound:       KindNotFound,
	ErrCodeGiftNameRequired:   KindValidation,
	ErrCodeGiftNameTooLong:    KindValidation,
	ErrCodeInvalidGiftURL:     KindValidation,
	ErrCodeGroupIDRequired:    KindValidation,
	ErrCodeMissingGiftFields:  KindValidation,
	ErrCodeGiftAlreadyClaimed: KindConflict,
	ErrCodeNotGiftOwner:       KindAuthorization,
	ErrCodeSelfClaim:          KindAuthorization,
	ErrCodeNotGiftClaimant:    KindAuthorization,
}

// GiftError is the coded error for this area.
type GiftError = Coded[GiftErrorCode]

// NewGiftError creates a new GiftError with the given code and message.
func NewGiftError(code GiftErrorCode, message string, err error) *GiftError {
	return newCoded(code, message, err, giftErrorKinds)
}

// NewGiftNotFoundError is shorthand used by every gift-scoped use case.
func NewGiftNotFoundError() *GiftError {
	return NewGiftError(ErrCodeGiftNotFound, "gift not found", ErrGiftNotFound)
}
