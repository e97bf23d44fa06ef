package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuperUsers_IsSuper(t *testing.T) {
	tests := []struct {
		name     string
		super    SuperUsers
		userName string
		want     bool
	}{
		{
			name:     "user in the list",
			super:    SuperUsers{"mip5", "other"},
			userName: "mip5",
			want:     true,
		},
		{
			name:     "user not in the list",
			super:    SuperUsers{"mip5", "other"},
			userName: "someone",
			want:     false,
		},
		{
			name:     "case insensitive match",
			super:    SuperUsers{"Mip5"},
			userName: "mip5",
			want:     true,
		},
		{
			name:     "at-prefixed config entry",
			super:    SuperUsers{"@mip5"},
			userName: "mip5",
			want:     true,
		},
		{
			name:     "slash-prefixed config entry",
			super:    SuperUsers{"/mip5"},
			userName: "mip5",
			want:     true,
		},
		{
			name:     "empty list",
			super:    SuperUsers{},
			userName: "mip5",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.super.IsSuper(tt.userName))
		})
	}
}
