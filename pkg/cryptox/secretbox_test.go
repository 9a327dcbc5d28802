package cryptox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/surplus360/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func withMasterKey(t *testing.T, value string) {
	t.Helper()
	cryptox.ResetMasterKeyForTesting()
	t.Setenv(cryptox.MasterKeyEnv, value)
	t.Cleanup(cryptox.ResetMasterKeyForTesting)
}

func TestSealOpen(t *testing.T) {
	withMasterKey(t, "test-master-key-for-encryption-12345")

	secret := []byte("hs512-signing-secret")

	sealed1, err := cryptox.Seal(secret)
	require.NoError(t, err)
	sealed2, err := cryptox.Seal(secret)
	require.NoError(t, err)
	require.NotEqual(t, sealed1, sealed2, "random nonce per seal")

	opened, err := cryptox.Open(sealed1)
	require.NoError(t, err)
	require.Equal(t, secret, opened)
}

func TestOpen_Failures(t *testing.T) {
	withMasterKey(t, "test-master-key-failures")

	sealed, err := cryptox.Seal([]byte("original-data"))
	require.NoError(t, err)

	t.Run("tampered", func(t *testing.T) {
		tampered := append([]byte(nil), sealed...)
		tampered[len(tampered)-1] ^= 0xFF
		_, err := cryptox.Open(tampered)
		require.Error(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := cryptox.Open([]byte("short"))
		require.ErrorContains(t, err, "too short")
	})
}

func TestMasterKeyFromFile(t *testing.T) {
	cryptox.ResetMasterKeyForTesting()
	t.Cleanup(cryptox.ResetMasterKeyForTesting)

	path := filepath.Join(t.TempDir(), "master.key")
	require.NoError(t, os.WriteFile(path, []byte("file-based-master-key"), 0600))
	cryptox.SetMasterKeyPath(path)

	sealed, err := cryptox.Seal([]byte("data"))
	require.NoError(t, err)
	opened, err := cryptox.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, []byte("data"), opened)
}

func TestSeal_NoMasterKey(t *testing.T) {
	withMasterKey(t, "")

	_, err := cryptox.Seal([]byte("data"))
	require.Error(t, err)
}
