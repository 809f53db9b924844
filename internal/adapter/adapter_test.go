package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeTLSConfig(t *testing.T) {
	t.Run("NoFiles", func(t *testing.T) {
		cfg, err := MakeTLSConfig("", "", "")
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("MissingCA", func(t *testing.T) {
		_, err := MakeTLSConfig(filepath.Join(t.TempDir(), "ca.pem"), "", "")
		require.Error(t, err)
	})

	t.Run("InvalidCA", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(path, []byte("not a pem"), 0o600))

		_, err := MakeTLSConfig(path, "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse CA certificate")
	})

	t.Run("CertWithoutKey", func(t *testing.T) {
		_, err := MakeTLSConfig("", "client.crt", "")
		require.Error(t, err)
	})
}
