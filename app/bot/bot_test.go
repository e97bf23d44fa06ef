package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		expected string
	}{
		{
			name:     "display name preferred",
			msg:      Message{From: User{ID: 1, Username: "mip5", DisplayName: "Mip the Fifth"}},
			expected: "Mip the Fifth",
		},
		{
			name:     "username fallback",
			msg:      Message{From: User{ID: 2, Username: "mip5"}},
			expected: "mip5",
		},
		{
			name:     "id as the last resort",
			msg:      Message{From: User{ID: 231963552}},
			expected: "231963552",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayName(tt.msg))
		})
	}
}
