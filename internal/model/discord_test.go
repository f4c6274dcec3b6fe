package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildMembership_CanManage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		permissions string
		want        bool
		wantErr     bool
	}{
		{"manage guild only", "32", true, false},
		{"manage messages only", "16", false, false},
		{"administrator without manage guild", "8", false, false},
		{"full permission set", "2147483647", true, false},
		{"large value with bit set", "1099511627775", true, false},
		{"zero", "0", false, false},
		{"empty", "", false, true},
		{"not a number", "abc", false, true},
		{"hex is rejected", "0x20", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &GuildMembership{ID: "1", Permissions: tt.permissions}
			got, err := g.CanManage()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
