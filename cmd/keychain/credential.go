package main

import (
	"github.com/spf13/cobra"

	"github.com/zx06/keychain/internal/errors"
	"github.com/zx06/keychain/internal/keychain"
	"github.com/zx06/keychain/internal/output"
)

type credentialOptions struct {
	account string
	service string
	typ     string
	typSet  bool

	password      string
	passwordSet   bool
	passwordStdin bool
}

type credentialResult struct {
	Account  string `json:"account" yaml:"account"`
	Service  string `json:"service" yaml:"service"`
	Type     string `json:"type" yaml:"type"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Stored   bool   `json:"stored,omitempty" yaml:"stored,omitempty"`
	Deleted  bool   `json:"deleted,omitempty" yaml:"deleted,omitempty"`
}

func bindCredentialFlags(cmd *cobra.Command, opts *credentialOptions) {
	cmd.Flags().StringVarP(&opts.account, "account", "a", "", "Account name (required)")
	cmd.Flags().StringVarP(&opts.service, "service", "s", "", "Service name (required)")
	cmd.Flags().StringVarP(&opts.typ, "type", "t", string(keychain.TypeGeneric), "Credential type: generic|internet (config: default_type)")
}

// request builds the facade request; --type wins over the configured default_type.
func (o *credentialOptions) request() (keychain.Request, error) {
	raw := GlobalConfig.Resolved.DefaultType
	if o.typSet || raw == "" {
		raw = o.typ
	}
	typ, err := keychain.ParseType(raw)
	if err != nil {
		return keychain.Request{}, err
	}
	return keychain.Request{Account: o.account, Service: o.service, Type: typ}, nil
}

// NewGetCommand creates the get command
func NewGetCommand(w *output.Writer) *cobra.Command {
	opts := &credentialOptions{}
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve a stored password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.typSet = cmd.Flags().Changed("type")
			return runGet(cmd, opts, w)
		},
	}
	bindCredentialFlags(cmd, opts)
	return cmd
}

func runGet(cmd *cobra.Command, opts *credentialOptions, w *output.Writer) error {
	format, err := parseOutputFormat(GlobalConfig.FormatStr)
	if err != nil {
		return err
	}
	req, err := opts.request()
	if err != nil {
		return err
	}
	password, err := GlobalConfig.Keychain().Get(cmd.Context(), req)
	if err != nil {
		return err
	}
	return w.WriteOK(format, credentialResult{
		Account:  req.Account,
		Service:  req.Service,
		Type:     string(req.Type),
		Password: password,
	})
}

// NewSetCommand creates the set command
func NewSetCommand(w *output.Writer) *cobra.Command {
	opts := &credentialOptions{}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a password, replacing any existing item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.typSet = cmd.Flags().Changed("type")
			opts.passwordSet = cmd.Flags().Changed("password")
			return runSet(cmd, opts, w)
		},
	}
	bindCredentialFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.password, "password", "p", "", "Password value (visible in process listings; prefer --password-stdin)")
	cmd.Flags().BoolVar(&opts.passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func runSet(cmd *cobra.Command, opts *credentialOptions, w *output.Writer) error {
	format, err := parseOutputFormat(GlobalConfig.FormatStr)
	if err != nil {
		return err
	}
	req, err := opts.request()
	if err != nil {
		return err
	}

	switch {
	case opts.passwordSet && opts.passwordStdin:
		return errors.New(errors.CodeCfgInvalid, "--password and --password-stdin are mutually exclusive", nil)
	case opts.passwordStdin:
		pw, err := readSecret(cmd.InOrStdin())
		if err != nil {
			return err
		}
		req.Password = pw
	case opts.passwordSet:
		req.Password = opts.password
	default:
		// 非 TTY 时不提示，交给门面报告缺失字段
		pw, _, err := promptSecret("Password: ", cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		req.Password = pw
	}

	if _, err := GlobalConfig.Keychain().Set(cmd.Context(), req); err != nil {
		return err
	}
	return w.WriteOK(format, credentialResult{
		Account: req.Account,
		Service: req.Service,
		Type:    string(req.Type),
		Stored:  true,
	})
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand(w *output.Writer) *cobra.Command {
	opts := &credentialOptions{}
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a stored password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.typSet = cmd.Flags().Changed("type")
			return runDelete(cmd, opts, w)
		},
	}
	bindCredentialFlags(cmd, opts)
	return cmd
}

func runDelete(cmd *cobra.Command, opts *credentialOptions, w *output.Writer) error {
	format, err := parseOutputFormat(GlobalConfig.FormatStr)
	if err != nil {
		return err
	}
	req, err := opts.request()
	if err != nil {
		return err
	}
	if err := GlobalConfig.Keychain().Delete(cmd.Context(), req); err != nil {
		return err
	}
	return w.WriteOK(format, credentialResult{
		Account: req.Account,
		Service: req.Service,
		Type:    string(req.Type),
		Deleted: true,
	})
}
