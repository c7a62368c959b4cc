package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"oauth", KindOAuthUser, false},
		{"service_account", KindServiceAccount, false},
		{"", "", true},
		{"infer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, err := ParseKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestNewCredentialMissingSecret(t *testing.T) {
	cfg := Config{
		Kind:       "oauth",
		SecretFile: filepath.Join(t.TempDir(), "missing.json"),
	}

	_, err := NewCredential(context.Background(), zap.NewNop(), cfg, "scope")
	assert.Error(t, err)
}

func TestNewCredentialBadKind(t *testing.T) {
	cfg := Config{Kind: "mystery"}
	_, err := NewCredential(context.Background(), zap.NewNop(), cfg)
	assert.Error(t, err)
}

func TestTokenCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	token := &oauth2.Token{AccessToken: "abc", RefreshToken: "def", TokenType: "Bearer"}

	require.NoError(t, saveToken(path, token))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := tokenFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, got.AccessToken)
	assert.Equal(t, token.RefreshToken, got.RefreshToken)
}

func TestTokenFromFileMissing(t *testing.T) {
	_, err := tokenFromFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
