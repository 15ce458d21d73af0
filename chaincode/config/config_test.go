package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "multisig.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, multisig.DefaultLimits(), cfg.Limits.MultisigLimits())
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  chaincodeId: multisig:1.0
  address: 127.0.0.1:7052
limits:
  maxOwners: 10
  maxInstructions: 4
  maxAccountsPerInstruction: 16
  maxPayloadSize: 512
  depositPerByte: 3
logSpec: debug
`)
	t.Setenv("MULTISIG_MAX_OWNERS", "12")
	t.Setenv("MULTISIG_PRIVATE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "multisig:1.0", cfg.Server.ChaincodeID)
	assert.Equal(t, "127.0.0.1:7052", cfg.Server.Address)
	assert.True(t, cfg.Server.TLSDisabled)
	assert.Equal(t, "debug", cfg.LogSpec)
	assert.True(t, cfg.Private)
	assert.Equal(t, multisig.Limits{
		MaxOwners:                 12,
		MaxInstructions:           4,
		MaxAccountsPerInstruction: 16,
		MaxPayloadSize:            512,
		DepositPerByte:            3,
	}, cfg.Limits.MultisigLimits())
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "unknownField: 1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "limits:\n  maxOwners: 0\n"))
	assert.EqualError(t, err, "limits.maxOwners must be positive")

	_, err = Load(writeConfig(t, "server:\n  tlsDisabled: false\n  tlsKeyFile: key.pem\n"))
	assert.Error(t, err)

	t.Setenv("MULTISIG_MAX_INSTRUCTIONS", "many")
	_, err = Load("")
	assert.Error(t, err)
}
