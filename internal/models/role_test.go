package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "User", want: RoleUser},
		{in: "Admin", want: RoleAdmin},
		{in: "admin", wantErr: true},
		{in: "", wantErr: true},
		{in: "Root", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRole(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_ScanRejectsUnknown(t *testing.T) {
	t.Parallel()

	var r Role
	require.NoError(t, r.Scan("Admin"))
	assert.Equal(t, RoleAdmin, r)

	require.NoError(t, r.Scan([]byte("User")))
	assert.Equal(t, RoleUser, r)

	assert.Error(t, r.Scan("superuser"))
	assert.Error(t, r.Scan(int64(1)))
}

func TestRole_ValueOfZeroRoleFails(t *testing.T) {
	t.Parallel()

	_, err := Role(0).Value()
	assert.Error(t, err)

	v, err := RoleAdmin.Value()
	require.NoError(t, err)
	assert.Equal(t, "Admin", v)
}

func TestUser_JSONHidesPassword(t *testing.T) {
	t.Parallel()

	u := User{ID: 7, Email: "a@b.c", PasswordHash: "$2a$10$secret", Role: RoleUser}
	b, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(b), "secret")
	assert.Contains(t, string(b), `"role":"User"`)
	assert.Contains(t, string(b), `"login_count":0`)
}
