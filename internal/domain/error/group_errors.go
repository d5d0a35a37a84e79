package error

import "errors"

// Group domain errors.
var (
	// ErrGroupNotFound is returned when a group is not found in the system.
	ErrGroupNotFound = errors.New("group not found")

	// ErrGroupNameTooLong is returned when the group name exceeds the maximum length.
	ErrGroupNameTooLong = errors.New("group name too long")

	// ErrGroupNameRequired is returned when the group name is empty.
	ErrGroupNameRequired = errors.New("group name is required")

	// ErrInvalidGameMode is returned when the game mode is not supported.
	ErrInvalidGameMode = errors.New("invalid game mode")

	// ErrInvalidCelebrationType is returned when the celebration type is not supported.
	ErrInvalidCelebrationType = errors.New("invalid celebration type")

	// ErrEventDateRequired is returned when the event start date is missing.
	ErrEventDateRequired = errors.New("event date is required")

	// ErrInviteNotFound is returned when an invitation is not found.
	ErrInviteNotFound = errors.New("invite not found")

	// ErrInviteExpired is returned when an invitation has expired.
	ErrInviteExpired = errors.New("invite has expired")

	// ErrUserAlreadyMember is returned when a user is already a member of the group.
	ErrUserAlreadyMember = errors.New("user is already a member of this group")

	// ErrNotGroupCreator is returned when a non-creator tries a creator-only action.
	ErrNotGroupCreator = errors.New("only the group creator can perform this action")

	// ErrNotGroupMember is returned when a user is not a member of the group.
	ErrNotGroupMember = errors.New("user is not a member of this group")

	// ErrGroupArchived is returned when a mutation targets an archived group.
	ErrGroupArchived = errors.New("group is archived")

	// ErrGroupAlreadyArchived is returned when archiving twice.
	ErrGroupAlreadyArchived = errors.New("group is already archived")

	// ErrJoinClosed is returned when joining a Secret Santa group after the draw.
	ErrJoinClosed = errors.New("pairings already generated, group is closed to new members")

	// ErrNoInviteEmails is returned when an invite request lists no addresses.
	ErrNoInviteEmails = errors.New("at least one email is required")
)

// GroupErrorCode defines error codes for group errors.
// Format: GRP-XXYYYY where XX is category and YYYY is specific error.
type GroupErrorCode string

const (
	// Resource not found errors (01XXXX)
	ErrCodeGroupNotFound  GroupErrorCode = "GRP-010001"
	ErrCodeInviteNotFound GroupErrorCode = "GRP-010002"

	// Validation errors (02XXXX)
	ErrCodeGroupNameTooLong       GroupErrorCode = "GRP-020001"
	ErrCodeGroupNameRequired      GroupErrorCode = "GRP-020002"
	ErrCodeInvalidGameMode        GroupErrorCode = "GRP-020003"
	ErrCodeInvalidCelebrationType GroupErrorCode = "GRP-020004"
	ErrCodeEventDateRequired      GroupErrorCode = "GRP-020005"
	ErrCodeMissingGroupFields     GroupErrorCode = "GRP-020006"
	ErrCodeInviteExpired          GroupErrorCode = "GRP-020007"
	ErrCodeNoInviteEmails         GroupErrorCode = "GRP-020008"

	// Conflict errors (03XXXX)
	ErrCodeUserAlreadyMember    GroupErrorCode = "GRP-030001"
	ErrCodeGroupAlreadyArchived GroupErrorCode = "GRP-030002"

	// Authorization errors (04XXXX)
	ErrCodeNotGroupCreator GroupErrorCode = "GRP-040001"
	ErrCodeNotGroupMember  GroupErrorCode = "GRP-040002"
	ErrCodeGroupArchived   GroupErrorCode = "GRP-040003"
	ErrCodeJoinClosed      GroupErrorCode = "GRP-040004"
)

var groupErrorKinds = map[GroupErrorCode]Kind{
	ErrCodeGroupNotFound:          KindNotFound,
	ErrCodeInviteNotFound:         KindNotFound,
	ErrCodeGroupNameTooLong:       KindValidation,
	ErrCodeGroupNameRequired:      KindValidation,
	ErrCodeInvalidGameMode:        KindValidation,
	ErrCodeInvalidCelebrationType: KindValidation,
	ErrCodeEventDateRequired:      KindValidation,
	ErrCodeMissingGroupFields:     KindValidation,
	ErrCodeInviteExpired:          KindValidation,
	ErrCodeNoInviteEmails:         KindValidation,
	ErrCodeUserAlreadyMember:      KindConflict,
	ErrCodeGroupAlreadyArchived:   KindConflict,
	ErrCodeNotGroupCreator:        KindAuthorization,
	ErrCodeNotGroupMember:         KindAuthorization,
	ErrCodeGroupArchived:          KindAuthorization,
	ErrCodeJoinClosed:             KindAuthorization,
}

// GroupError is the coded error for this area.
type GroupError = Coded[GroupErrorCode]

// NewGroupError creates a new GroupError with the given code and message.
func NewGroupError(code GroupErrorCode, message string, err error) *GroupError {
	return newCoded(code, message, err, groupErrorKinds)
}

// NewGroupNotFoundError is shorthand used by every group-scoped use case.
func NewGroupNotFoundError() *GroupError {
	return NewGroupError(ErrCodeGroupNotFound, "group not found", ErrGroupNotFound)
}

// NewNotGroupMemberError is shorthand used by every member-only use case.
func NewNotGroupMemberError() *GroupError {
	return NewGroupError(ErrCodeNotGroupMember, "you are not a member of this group", ErrNotGroupMember)
}

// NewGroupArchivedError is shorthand for mutations rejected on archived groups.
func NewGroupArchivedError() *GroupError {
	return NewGroupError(ErrCodeGroupArchived, "this group is archived", ErrGroupArchived)
}
