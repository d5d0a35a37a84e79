package templates

// GroupInvitationData fills group_invitation.
type GroupInvitationData struct {
	InviterName  string
	InviterEmail string
	GroupName    string
	InviteURL    string
	ExpiresIn    string
}

// AssignmentData fills secret_santa_assignment.
type AssignmentData struct {
	UserName     string
	GroupName    string
	ReceiverName string
	GroupURL     string
}

// GiftChangeData fills gift_change.
type GiftChangeData struct {
	UserName  string
	GroupName string
	GiftName  string
	Action    string
	Deleted   bool
	GroupURL  string
}

// EventDayData fills event_day.
type EventDayData struct {
	UserName  string
	GroupName string
	GroupURL  string
}

// Fields is the flat form the outbox stores template data in.
type Fields = map[string]string

// Decode rebuilds the typed data for template name from stored fields.
// It reports false for names it does not know.
func Decode(name string, f Fields) (any, bool) {
	switch name {
	case "group_invitation":
		return GroupInvitationData{
			InviterName:  f["inviter_name"],
			InviterEmail: f["inviter_email"],
			GroupName:    f["group_name"],
			InviteURL:    f["invite_url"],
			ExpiresIn:    f["expires_in"],
		}, true
	case "secret_santa_assignment":
		return AssignmentData{
			UserName:     f["user_name"],
			GroupName:    f["group_name"],
			ReceiverName: f["receiver_name"],
			GroupURL:     f["group_url"],
		}, true
	case "gift_change":
		return GiftChangeData{
			UserName:  f["user_name"],
			GroupName: f["group_name"],
			GiftName:  f["gift_name"],
			Action:    f["action"],
			Deleted:   f["deleted"] == "true",
			GroupURL:  f["group_url"],
		}, true
	case "event_day":
		return EventDayData{
			UserName:  f["user_name"],
			GroupName: f["group_name"],
			GroupURL:  f["group_url"],
		}, true
	}
	return nil, false
}
