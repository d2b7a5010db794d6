package youtube

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"channel-coach/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
}

func TestGetToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "owner_token.json")

	t.Run("LoadExistingValidToken", func(t *testing.T) {
		valid := &oauth2.Token{
			AccessToken:  "valid-access-token",
			RefreshToken: "valid-refresh-token",
			Expiry:       time.Now().Add(time.Hour),
		}
		require.NoError(t, saveToken(tokenFile, valid))

		token, err := getToken(testOAuthConfig(), tokenFile)
		require.NoError(t, err)
		assert.Equal(t, valid.AccessToken, token.AccessToken)
	})

	t.Run("LoadExpiredTokenWithRefresh", func(t *testing.T) {
		// Expired tokens are kept when they can be refreshed later.
		expired := &oauth2.Token{
			AccessToken:  "expired-access-token",
			RefreshToken: "valid-refresh-token",
			Expiry:       time.Now().Add(-time.Hour),
		}
		require.NoError(t, saveToken(tokenFile, expired))

		token, err := getToken(testOAuthConfig(), tokenFile)
		require.NoError(t, err)
		assert.Equal(t, expired.RefreshToken, token.RefreshToken)
	})

	t.Run("NoTokenFile", func(t *testing.T) {
		require.NoError(t, os.Remove(tokenFile))

		// Falls through to the device flow, which has no endpoint here.
		_, err := getToken(testOAuthConfig(), tokenFile)
		assert.Error(t, err)
	})
}

func TestNewOwnerCredentials_UsesStoredToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "owner_token.json")
	require.NoError(t, saveToken(tokenFile, &oauth2.Token{
		AccessToken:  "owner-access",
		RefreshToken: "owner-refresh",
		Expiry:       time.Now().Add(time.Hour),
	}))

	creds, err := NewOwnerCredentials(&config.YouTubeConfig{ClientID: "id", ClientSecret: "secret", TokenFile: tokenFile})
	require.NoError(t, err)

	access, err := creds.AccessToken()
	require.NoError(t, err)
	assert.Equal(t, "owner-access", access)
	assert.NotNil(t, creds.TokenSource())
}

func TestTokenFromFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("ValidTokenFile", func(t *testing.T) {
		tokenFile := filepath.Join(dir, "token.json")
		require.NoError(t, os.WriteFile(tokenFile, []byte(`{"access_token":"a","token_type":"Bearer","refresh_token":"r"}`), 0600))

		token, err := tokenFromFile(tokenFile)
		require.NoError(t, err)
		assert.Equal(t, "a", token.AccessToken)
		assert.Equal(t, "r", token.RefreshToken)
	})

	t.Run("NonExistentFile", func(t *testing.T) {
		_, err := tokenFromFile(filepath.Join(dir, "nonexistent.json"))
		assert.Error(t, err)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		tokenFile := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(tokenFile, []byte("invalid json"), 0600))

		_, err := tokenFromFile(tokenFile)
		assert.Error(t, err)
	})
}

func TestSaveToken(t *testing.T) {
	dir := t.TempDir()

	t.Run("NestedDirectoryAndPermissions", func(t *testing.T) {
		tokenFile := filepath.Join(dir, "nested", "dir", "token.json")
		require.NoError(t, saveToken(tokenFile, &oauth2.Token{AccessToken: "nested"}))

		info, err := os.Stat(tokenFile)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("OverwriteExistingFile", func(t *testing.T) {
		tokenFile := filepath.Join(dir, "overwrite.json")
		require.NoError(t, saveToken(tokenFile, &oauth2.Token{AccessToken: "first-token"}))
		require.NoError(t, saveToken(tokenFile, &oauth2.Token{AccessToken: "second-token"}))

		saved, err := tokenFromFile(tokenFile)
		require.NoError(t, err)
		assert.Equal(t, "second-token", saved.AccessToken)
	})
}

func TestTokenSaverConcurrency(t *testing.T) {
	ts := &tokenSaver{
		config: &oauth2.Config{ClientID: "test"},
		token: &oauth2.Token{
			AccessToken:  "initial",
			RefreshToken: "refresh",
		},
		tokenFile: filepath.Join(t.TempDir(), "concurrent_token.json"),
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := ts.Token()
			assert.NoError(t, err)
			assert.Equal(t, "initial", tok.AccessToken)
		}()
	}
	wg.Wait()

	// Nothing was refreshed, so nothing is written.
	_, err := os.Stat(ts.tokenFile)
	assert.True(t, os.IsNotExist(err))
}
