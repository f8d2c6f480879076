package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDirFlagWinsOverEnv(t *testing.T) {
	t.Setenv("CRYPTORADAR_CONFIG_DIR", "/from/env")

	assert.Equal(t, "/from/flag", ConfigDir([]string{"analyze", "btc", "--config", "/from/flag"}))
	assert.Equal(t, "/from/flag", ConfigDir([]string{"--config=/from/flag", "rank"}))
}

func TestConfigDirFallsBackToEnv(t *testing.T) {
	t.Setenv("CRYPTORADAR_CONFIG_DIR", "/from/env")

	assert.Equal(t, "/from/env", ConfigDir([]string{"analyze", "btc"}))
}

func TestConfigDirEmptyWithoutFlagOrEnv(t *testing.T) {
	t.Setenv("CRYPTORADAR_CONFIG_DIR", "")

	assert.Equal(t, "", ConfigDir(nil))
	// A dangling --config with no value falls through to the env lookup
	assert.Equal(t, "", ConfigDir([]string{"--config"}))
}
