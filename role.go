package sitesmith

import "strings"

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// NormalizeRole maps an externally tagged role onto the internal role
// schema. Interrupt payloads may carry provider-flavored tags; anything
// that reads as machine-authored becomes RoleAssistant, everything else
// RoleUser.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "assistant", "model", "bot", "ai", "system":
		return RoleAssistant
	default:
		return RoleUser
	}
}
