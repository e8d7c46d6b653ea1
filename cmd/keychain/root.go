package main

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/zx06/keychain/internal/config"
	"github.com/zx06/keychain/internal/errors"
	"github.com/zx06/keychain/internal/keychain"
	"github.com/zx06/keychain/internal/log"
)

// Build-time variables (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Config holds the resolved configuration
type Config struct {
	FormatStr  string
	ConfigStr  string
	BackendStr string
	Verbose    bool
	Resolved   config.Resolved
	Logger     *slog.Logger

	kc *keychain.Keychain
}

// GlobalConfig holds the global configuration state
var GlobalConfig = &Config{}

// newBackend builds the backend for the resolved config; tests replace it.
var newBackend = func(r config.Resolved) keychain.Backend {
	return keychain.Resolve(keychain.ResolveOptions{
		GOOS:         runtime.GOOS,
		Backend:      r.Backend,
		SecurityPath: r.File.SecurityPath,
		HelperPath:   r.File.HelperPath,
		Ring: keychain.RingConfig{
			FileDir:  r.File.Ring.FileDir,
			Password: os.Getenv("KEYCHAIN_RING_PASSWORD"),
		},
	})
}

// Keychain returns the facade, resolving the backend on first use so that
// commands like version and spec never touch the secret store.
func (c *Config) Keychain() *keychain.Keychain {
	if c.kc == nil {
		logger := c.Logger
		if logger == nil {
			logger = log.Discard()
		}
		b := newBackend(c.Resolved)
		logger.Debug("backend resolved", "backend", b.Name(), "supported", b.IsSupported(), "os", runtime.GOOS)
		c.kc = keychain.New(b, keychain.WithLogger(logger))
	}
	return c.kc
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "keychain",
		Short:         "Read and write passwords in the platform secret store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			GlobalConfig.Logger = log.New(cmd.ErrOrStderr(), GlobalConfig.Verbose)

			// CLI > ENV > Config
			configSet := cmd.Flags().Changed("config")
			if configSet && GlobalConfig.ConfigStr == "" {
				return errors.New(errors.CodeCfgInvalid, "config path is empty", nil)
			}

			r, xe := config.Resolve(config.Options{
				ConfigPath:    GlobalConfig.ConfigStr,
				CLIBackend:    GlobalConfig.BackendStr,
				CLIBackendSet: cmd.Flags().Changed("backend"),
				CLIFormat:     GlobalConfig.FormatStr,
				CLIFormatSet:  cmd.Flags().Changed("format"),
				EnvBackend:    os.Getenv("KEYCHAIN_BACKEND"),
				EnvFormat:     os.Getenv("KEYCHAIN_FORMAT"),
			})
			if xe != nil {
				return xe
			}
			GlobalConfig.Resolved = r
			GlobalConfig.kc = nil
			GlobalConfig.FormatStr = r.Format
			GlobalConfig.BackendStr = r.Backend
			GlobalConfig.Logger.Debug("config resolved", "path", r.ConfigPath, "backend", r.Backend, "format", r.Format)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&GlobalConfig.ConfigStr, "config", "", "Config file path (YAML); default: ./keychain.yaml or $XDG_CONFIG_HOME/keychain/keychain.yaml")
	root.PersistentFlags().StringVar(&GlobalConfig.BackendStr, "backend", keychain.BackendAuto, "Secret store backend: auto|security|helper|native|ring")
	root.PersistentFlags().StringVarP(&GlobalConfig.FormatStr, "format", "f", "auto", "Output format: json|yaml|table|csv|auto")
	root.PersistentFlags().BoolVarP(&GlobalConfig.Verbose, "verbose", "v", false, "Enable debug logging on stderr")

	return root
}
