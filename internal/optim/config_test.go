package optim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
defaults:
  lr: 0.01
  weight_decay: 0.0001
methods:
  sgd:
    lr: 0.1
  momentum:
    momentum: 0.9
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"momentum", "sgd"}, cfg.Methods())

	lr, err := cfg.Defaults().GetFloat("lr")
	require.NoError(t, err)
	assert.Equal(t, 0.01, lr)

	// Method overrides shadow the defaults.
	sgd, err := cfg.Hyperparameter("sgd")
	require.NoError(t, err)
	lr, err = sgd.GetFloat("lr")
	require.NoError(t, err)
	assert.Equal(t, 0.1, lr)

	// Unset names fall back along the chain.
	momentum, err := cfg.Hyperparameter("momentum")
	require.NoError(t, err)
	lr, err = momentum.GetFloat("lr")
	require.NoError(t, err)
	assert.Equal(t, 0.01, lr)
	wd, err := momentum.GetFloat("weight_decay")
	require.NoError(t, err)
	assert.Equal(t, 0.0001, wd)

	// Every method node chains to the shared defaults node.
	assert.Same(t, cfg.Defaults(), sgd.Parent())
	assert.Same(t, cfg.Defaults(), momentum.Parent())
}

func TestParseConfig_ChangesToDefaultsPropagate(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfigYAML))
	require.NoError(t, err)

	cfg.Defaults().Set("lr", 0.5)

	momentum, err := cfg.Hyperparameter("momentum")
	require.NoError(t, err)
	lr, err := momentum.GetFloat("lr")
	require.NoError(t, err)
	assert.Equal(t, 0.5, lr)
}

func TestConfig_UnknownMethod(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfigYAML))
	require.NoError(t, err)

	_, err = cfg.Hyperparameter("adam")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "adam")
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig([]byte("defaults: [not, a, map]"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(testConfigYAML))
	require.NoError(t, err)
	assert.Len(t, cfg.Methods(), 2)
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Methods())
	assert.Empty(t, cfg.Defaults().GetDict())
}
