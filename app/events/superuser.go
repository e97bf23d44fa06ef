package events

import (
	"strings"
)

// SuperUsers for operators, exempt from message deletion
type SuperUsers []string

// IsSuper checks if the username is in the list of super users.
// Tolerates "@" and "/" prefixes on the configured names.
func (s SuperUsers) IsSuper(userName string) bool {
	for _, super := range s {
		if strings.EqualFold(userName, strings.TrimPrefix(super, "@")) || strings.EqualFold("/"+userName, super) {
			return true
		}
	}
	return false
}
