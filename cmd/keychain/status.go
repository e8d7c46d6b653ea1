package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/zx06/keychain/internal/output"
)

type statusInfo struct {
	Backend     string `json:"backend" yaml:"backend"`
	Requested   string `json:"requested" yaml:"requested"`
	Supported   bool   `json:"supported" yaml:"supported"`
	OS          string `json:"os" yaml:"os"`
	DefaultType string `json:"default_type" yaml:"default_type"`
	ConfigPath  string `json:"config_path,omitempty" yaml:"config_path,omitempty"`
}

// NewStatusCommand creates the status command
func NewStatusCommand(w *output.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the resolved backend and whether it is supported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(GlobalConfig.FormatStr)
			if err != nil {
				return err
			}
			kc := GlobalConfig.Keychain()
			return w.WriteOK(format, statusInfo{
				Backend:     kc.Name(),
				Requested:   GlobalConfig.Resolved.Backend,
				Supported:   kc.IsSupported(),
				OS:          runtime.GOOS,
				DefaultType: GlobalConfig.Resolved.DefaultType,
				ConfigPath:  GlobalConfig.Resolved.ConfigPath,
			})
		},
	}
}
