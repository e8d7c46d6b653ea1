package app

import (
	"github.com/zx06/keychain/internal/errors"
	"github.com/zx06/keychain/internal/keychain"
	"github.com/zx06/keychain/internal/output"
	"github.com/zx06/keychain/internal/spec"
)

type App struct {
	Version string
	Commit  string
	Date    string
}

func New(version, commit, date string) App {
	return App{Version: version, Commit: commit, Date: date}
}

func (a App) BuildSpec() spec.Spec {
	globalFlags := []spec.FlagSpec{
		{Name: "config", Default: "", Description: "Config file path (YAML); default: ./keychain.yaml, $XDG_CONFIG_HOME/keychain/keychain.yaml or $HOME/.config/keychain/keychain.yaml"},
		{Name: "backend", Env: "KEYCHAIN_BACKEND", Default: "auto", Description: "Secret store backend: auto|security|helper|native|ring"},
		{Name: "format", Shorthand: "f", Env: "KEYCHAIN_FORMAT", Default: "auto", Description: "Output format: json|yaml|table|csv|auto"},
		{Name: "verbose", Shorthand: "v", Default: "false", Description: "Enable debug logging on stderr"},
	}
	with := func(extra ...spec.FlagSpec) []spec.FlagSpec {
		flags := make([]spec.FlagSpec, 0, len(globalFlags)+len(extra))
		flags = append(flags, globalFlags...)
		return append(flags, extra...)
	}
	credFlags := []spec.FlagSpec{
		{Name: "account", Shorthand: "a", Description: "Account name (required)"},
		{Name: "service", Shorthand: "s", Description: "Service name (required)"},
		{Name: "type", Shorthand: "t", Default: "generic", Description: "Credential type: generic|internet (config: default_type)"},
	}

	return spec.Spec{
		SchemaVersion: output.SchemaVersion,
		Commands: []spec.CommandSpec{
			{
				Name:        "get",
				Description: "Retrieve a stored password",
				Flags:       with(credFlags...),
			},
			{
				Name:        "set",
				Description: "Store a password, replacing any existing item",
				Flags: with(append(credFlags,
					spec.FlagSpec{Name: "password", Shorthand: "p", Description: "Password value (prefer --password-stdin)"},
					spec.FlagSpec{Name: "password-stdin", Default: "false", Description: "Read the password from stdin"},
				)...),
			},
			{
				Name:        "delete",
				Description: "Delete a stored password",
				Flags:       with(credFlags...),
			},
			{
				Name:        "status",
				Description: "Show the resolved backend and whether it is supported",
				Flags:       with(),
			},
			{
				Name:        "spec",
				Description: "Export tool spec for AI/agents",
				Flags:       with(),
			},
			{
				Name:        "version",
				Description: "Print version information",
				Flags:       with(),
			},
			{
				Name:        "mcp server",
				Description: "Start MCP server exposing credential tools",
				Flags: with(
					spec.FlagSpec{Name: "transport", Env: "KEYCHAIN_MCP_TRANSPORT", Default: "stdio", Description: "Transport: stdio|streamable_http"},
					spec.FlagSpec{Name: "http-addr", Env: "KEYCHAIN_MCP_HTTP_ADDR", Default: "127.0.0.1:8787", Description: "Streamable HTTP listen address"},
					spec.FlagSpec{Name: "http-auth-token", Env: "KEYCHAIN_MCP_HTTP_AUTH_TOKEN", Description: "Bearer token; supports keychain:<service>/<account>"},
					spec.FlagSpec{Name: "http-allow-plaintext-token", Default: "false", Description: "Allow a plaintext auth token"},
				),
			},
		},
		Backends:   keychain.BackendNames(),
		ErrorCodes: errors.AllCodes(),
	}
}

type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
}

func (a App) VersionInfo() VersionInfo {
	return VersionInfo{Version: a.Version, Commit: a.Commit, Date: a.Date}
}
