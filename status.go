package imap

// StatusAttr is one status data item name requested by a STATUS command.
type StatusAttr int

const (
	StatusAttrMessages StatusAttr = iota
	StatusAttrRecent
	StatusAttrUIDNext
	StatusAttrUIDValidity
	StatusAttrUnseen
)

// String returns the wire keyword for the attribute.
func (a StatusAttr) String() string {
	switch a {
	case StatusAttrMessages:
		return "MESSAGES"
	case StatusAttrRecent:
		return "RECENT"
	case StatusAttrUIDNext:
		return "UIDNEXT"
	case StatusAttrUIDValidity:
		return "UIDVALIDITY"
	case StatusAttrUnseen:
		return "UNSEEN"
	default:
		return "MESSAGES"
	}
}

func parseStatusAttr(s string) (StatusAttr, bool) {
	switch s {
	case "MESSAGES":
		return StatusAttrMessages, true
	case "RECENT":
		return StatusAttrRecent, true
	case "UIDNEXT":
		return StatusAttrUIDNext, true
	case "UIDVALIDITY":
		return StatusAttrUIDValidity, true
	case "UNSEEN":
		return StatusAttrUnseen, true
	default:
		return 0, false
	}
}
