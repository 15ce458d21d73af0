// Command multisig runs the weighted multisig chaincode, either launched by
// the peer or as an external chaincode service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	fpc "github.com/hyperledger/fabric-private-chaincode/ecc_go/chaincode"
	"github.com/hyperledger/fabric/common/flogging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/config"
)

// Version is set at build time.
var Version = "dev"

var logger = flogging.MustGetLogger("multisig")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var cfg config.Config

	root := &cobra.Command{
		Use:          "multisig",
		Short:        "Weighted multisig chaincode",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}
			flogging.ActivateSpec(cfg.LogSpec)
			return setup(cfg)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", os.Getenv("MULTISIG_CONFIG"), "path to a YAML configuration file")

	root.AddCommand(
		&cobra.Command{
			Use:   "start",
			Short: "Start the chaincode under a peer",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				logger.Infof("starting weighted multisig chaincode %s", Version)
				return shim.Start(chaincode(cfg))
			},
		},
		newServeCmd(&cfg),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), Version)
			},
		},
	)
	return root
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	var private bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chaincode as an external service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("private") {
				cfg.Private = private
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *cfg)
		},
	}
	cmd.Flags().BoolVar(&private, "private", false, "run inside a Fabric Private Chaincode enclave")
	return cmd
}

func chaincode(cfg config.Config) shim.Chaincode {
	cc := &MultisigCC{}
	if cfg.Private {
		logger.Infof("wrapping chaincode in FPC enclave")
		return fpc.NewPrivateChaincode(cc)
	}
	return cc
}

func serve(ctx context.Context, cfg config.Config) error {
	tls, err := loadTLS(cfg.Server)
	if err != nil {
		return err
	}

	server := &shim.ChaincodeServer{
		CCID:     cfg.Server.ChaincodeID,
		Address:  cfg.Server.Address,
		CC:       chaincode(cfg),
		TLSProps: tls,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("serving chaincode %s on %s", cfg.Server.ChaincodeID, cfg.Server.Address)
		errc <- server.Start()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "chaincode server stopped")
	case <-ctx.Done():
		logger.Infof("shutting down: %s", context.Cause(ctx))
		return nil
	}
}

// loadTLS reads the server key pair and the client CA.
func loadTLS(s config.Server) (shim.TLSProperties, error) {
	props := shim.TLSProperties{Disabled: s.TLSDisabled}
	if s.TLSDisabled {
		return props, nil
	}

	var g errgroup.Group
	read := func(path string, dst *[]byte) {
		g.Go(func() error {
			if path == "" {
				return nil
			}
			b, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "failed to read %s", path)
			}
			*dst = b
			return nil
		})
	}
	read(s.TLSKeyFile, &props.Key)
	read(s.TLSCertFile, &props.Cert)
	read(s.TLSClientCert, &props.ClientCACerts)
	if err := g.Wait(); err != nil {
		return shim.TLSProperties{}, err
	}
	return props, nil
}
