package error

import "errors"

// ErrInvalidNotificationID is returned when a notification id cannot be parsed.
var ErrInvalidNotificationID = errors.New("invalid notification id")

// NotificationErrorCode defines error codes for notification errors.
type NotificationErrorCode string

// Validation errors (02XXXX)
const ErrCodeInvalidNotificationID NotificationErrorCode = "NTF-020001"

var notificationErrorKinds = map[NotificationErrorCode]Kind{
	ErrCodeInvalidNotificationID: KindValidation,
}

// NotificationError is the coded error for notifications.
type NotificationError = Coded[NotificationErrorCode]

// NewNotificationError creates a new NotificationError.
func NewNotificationError(code NotificationErrorCode, message string, err error) *NotificationError {
	return newCoded(code, message, err, notificationErrorKinds)
}
