// Package config loads the chaincode configuration from an optional YAML
// file and environment variables. Environment variables win.
package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

// Config is the complete chaincode configuration.
type Config struct {
	Server  Server `yaml:"server"`
	Limits  Limits `yaml:"limits"`
	LogSpec string `yaml:"logSpec" env:"MULTISIG_LOG_SPEC"`
	// Private runs the chaincode inside an FPC enclave.
	Private bool `yaml:"private" env:"MULTISIG_PRIVATE"`
}

// Server configures chaincode-as-a-service mode.
type Server struct {
	ChaincodeID   string `yaml:"chaincodeId" env:"CHAINCODE_PKG_ID"`
	Address       string `yaml:"address" env:"CHAINCODE_SERVER_ADDRESS"`
	TLSDisabled   bool   `yaml:"tlsDisabled" env:"CHAINCODE_TLS_DISABLED"`
	TLSKeyFile    string `yaml:"tlsKeyFile" env:"CHAINCODE_TLS_KEY"`
	TLSCertFile   string `yaml:"tlsCertFile" env:"CHAINCODE_TLS_CERT"`
	TLSClientCert string `yaml:"tlsClientCACertFile" env:"CHAINCODE_CLIENT_CA_CERT"`
}

// Limits bound wallets and proposals.
type Limits struct {
	MaxOwners                 int    `yaml:"maxOwners" env:"MULTISIG_MAX_OWNERS"`
	MaxInstructions           int    `yaml:"maxInstructions" env:"MULTISIG_MAX_INSTRUCTIONS"`
	MaxAccountsPerInstruction int    `yaml:"maxAccountsPerInstruction" env:"MULTISIG_MAX_ACCOUNTS"`
	MaxPayloadSize            int    `yaml:"maxPayloadSize" env:"MULTISIG_MAX_PAYLOAD_SIZE"`
	DepositPerByte            uint64 `yaml:"depositPerByte" env:"MULTISIG_DEPOSIT_PER_BYTE"`
}

// Default returns the built-in configuration.
func Default() Config {
	l := multisig.DefaultLimits()
	return Config{
		Server: Server{
			Address:     "0.0.0.0:9999",
			TLSDisabled: true,
		},
		Limits: Limits{
			MaxOwners:                 l.MaxOwners,
			MaxInstructions:           l.MaxInstructions,
			MaxAccountsPerInstruction: l.MaxAccountsPerInstruction,
			MaxPayloadSize:            l.MaxPayloadSize,
			DepositPerByte:            l.DepositPerByte,
		},
		LogSpec: "info",
	}
}

// Load starts from Default, applies the YAML file at path when path is not
// empty, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the controller cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Limits.MaxOwners <= 0:
		return errors.New("limits.maxOwners must be positive")
	case c.Limits.MaxInstructions <= 0:
		return errors.New("limits.maxInstructions must be positive")
	case c.Limits.MaxAccountsPerInstruction <= 0:
		return errors.New("limits.maxAccountsPerInstruction must be positive")
	case c.Limits.MaxPayloadSize <= 0:
		return errors.New("limits.maxPayloadSize must be positive")
	}
	if !c.Server.TLSDisabled && (c.Server.TLSKeyFile == "" || c.Server.TLSCertFile == "") {
		return errors.New("server TLS needs both a key and a certificate file")
	}
	return nil
}

// MultisigLimits converts the limits for the controller.
func (l Limits) MultisigLimits() multisig.Limits {
	return multisig.Limits{
		MaxOwners:                 l.MaxOwners,
		MaxInstructions:           l.MaxInstructions,
		MaxAccountsPerInstruction: l.MaxAccountsPerInstruction,
		MaxPayloadSize:            l.MaxPayloadSize,
		DepositPerByte:            l.DepositPerByte,
	}
}
