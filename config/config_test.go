package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/moatus/frost"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, frost.Ed25519SHA512ID, cfg.Ciphersuite)
	require.Equal(t, 2, cfg.Threshold)
	require.Equal(t, 3, cfg.Participants)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	path := writeConfig(t, "frost.yaml", `
ciphersuite: FROST-secp256k1-SHA256-v1
threshold: 3
participants: 5
logging:
  level: debug
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		require.Equal(t, frost.Secp256k1SHA256ID, cfg.Ciphersuite)
		require.Equal(t, 3, cfg.Threshold)
		require.Equal(t, 5, cfg.Participants)
		require.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("FROST_THRESHOLD", "4")
		cfg, err := Load(path, nil)
		require.NoError(t, err)
		require.Equal(t, 4, cfg.Threshold)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		t.Setenv("FROST_THRESHOLD", "4")
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		BindFlags(fs)
		require.NoError(t, fs.Parse([]string{"--threshold=5"}))

		cfg, err := Load(path, fs)
		require.NoError(t, err)
		require.Equal(t, 5, cfg.Threshold)
		require.Equal(t, frost.Secp256k1SHA256ID, cfg.Ciphersuite)
	})
}

func TestLoadRejectsInvalidGroups(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"threshold above participants", "threshold: 4\nparticipants: 3\n", frost.ErrInvalidThreshold},
		{"zero threshold", "threshold: 0\nparticipants: 3\n", frost.ErrInvalidThreshold},
		{"unknown ciphersuite", "ciphersuite: FROST-P256-SHA256-v1\n", frost.ErrCiphersuiteMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "frost.yaml", tt.body), nil)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(Logging{Mode: "development", Level: "debug"})
	require.NoError(t, err)
	require.NotNil(t, l)

	_, err = NewLogger(Logging{Level: "loud"})
	require.Error(t, err)
}
