package app

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer sk-plnr-abc", want: "sk-plnr-abc"},
		{name: "missing", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "empty token", header: "Bearer  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserKey(t *testing.T) {
	assert.Equal(t, "auth:ada", userKey("auth:{user}", "ada"))
	assert.Equal(t, "planner:ada:token", userKey("planner:{user}:token", "ada"))
}

func TestDisabledAuthPassesEverything(t *testing.T) {
	cfg, err := ParseConfig("planner.toml", []byte("[server]\nport = \":1\"\n"))
	require.NoError(t, err)

	auth, err := NewAuth(cfg)
	require.NoError(t, err)
	assert.False(t, auth.Enabled())
	assert.Nil(t, auth.Redis())

	req := httptest.NewRequest("GET", "/api/v1/report", nil)
	user, err := auth.Authenticate(req)
	assert.NoError(t, err)
	assert.Empty(t, user)
	assert.NoError(t, auth.Close())
}

func TestGenerateToken(t *testing.T) {
	token, err := generateToken()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, tokenPrefix))
	assert.Len(t, token, len(tokenPrefix)+24)

	other, err := generateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
