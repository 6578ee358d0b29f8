package discord

import "strings"

const customIDPrefix = "tide"

// Menu kinds carried in a select menu's custom ID.
const (
	menuCounty = "county"
	menuRegion = "region"
)

func customID(kind, sessionID string) string {
	return customIDPrefix + ":" + kind + ":" + sessionID
}

// parseCustomID splits "tide:<kind>:<session>" and rejects anything else.
func parseCustomID(id string) (kind, sessionID string, ok bool) {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) != 3 || parts[0] != customIDPrefix || parts[2] == "" {
		return "", "", false
	}
	switch parts[1] {
	case menuCounty, menuRegion:
		return parts[1], parts[2], true
	default:
		return "", "", false
	}
}
