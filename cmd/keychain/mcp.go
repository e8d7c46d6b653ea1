package main

import (
	"context"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/zx06/keychain/internal/config"
	"github.com/zx06/keychain/internal/errors"
	"github.com/zx06/keychain/internal/keychain"
	mcp_pkg "github.com/zx06/keychain/internal/mcp"
	"github.com/zx06/keychain/internal/secret"
)

const defaultMCPHTTPAddr = "127.0.0.1:8787"

// NewMCPCommand creates the MCP command group
func NewMCPCommand() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP (Model Context Protocol) server commands",
	}

	mcpCmd.AddCommand(newMCPServerCommand())

	return mcpCmd
}

// newMCPServerCommand creates the MCP server command
func newMCPServerCommand() *cobra.Command {
	opts := &mcpServerOptions{}
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start MCP server exposing credential tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.transportSet = cmd.Flags().Changed("transport")
			opts.httpAddrSet = cmd.Flags().Changed("http-addr")
			opts.httpAuthTokenSet = cmd.Flags().Changed("http-auth-token")
			opts.allowPlaintextSet = cmd.Flags().Changed("http-allow-plaintext-token")
			return runMCPServer(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.transport, "transport", mcp_pkg.TransportStdio, "MCP transport: stdio|streamable_http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", defaultMCPHTTPAddr, "Streamable HTTP listen address")
	cmd.Flags().StringVar(&opts.httpAuthToken, "http-auth-token", "", "Streamable HTTP auth token (required for streamable_http)")
	cmd.Flags().BoolVar(&opts.allowPlaintext, "http-allow-plaintext-token", false, "Allow a plaintext auth token in config")
	return cmd
}

// runMCPServer runs the MCP server
func runMCPServer(ctx context.Context, opts *mcpServerOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// 直接调用（未经 root PersistentPreRunE）时补齐配置
	if GlobalConfig.Resolved.Backend == "" {
		r, xe := config.Resolve(config.Options{
			ConfigPath: GlobalConfig.ConfigStr,
			EnvBackend: os.Getenv("KEYCHAIN_BACKEND"),
			EnvFormat:  os.Getenv("KEYCHAIN_FORMAT"),
		})
		if xe != nil {
			return xe
		}
		GlobalConfig.Resolved = r
	}
	cfg := GlobalConfig.Resolved.File
	kc := GlobalConfig.Keychain()

	server, err := mcp_pkg.CreateServer(version, kc, keychain.Type(GlobalConfig.Resolved.DefaultType))
	if err != nil {
		// Convert SDK error to XError if needed
		if xe, ok := errors.As(err); ok {
			return xe
		}
		return errors.Wrap(errors.CodeInternal, "failed to create MCP server", nil, err)
	}

	resolved, xe := resolveMCPServerOptions(ctx, opts, cfg, kc)
	if xe != nil {
		return xe
	}

	if GlobalConfig.Logger != nil {
		GlobalConfig.Logger.Info("mcp server starting", "transport", resolved.transport, "backend", kc.Name())
	}
	switch resolved.transport {
	case mcp_pkg.TransportStdio:
		return server.Run(ctx, &mcp.StdioTransport{})
	case mcp_pkg.TransportStreamableHTTP:
		handler, err := mcp_pkg.NewStreamableHTTPHandler(server, resolved.httpAuthToken)
		if err != nil {
			if xe, ok := errors.As(err); ok {
				return xe
			}
			return errors.Wrap(errors.CodeInternal, "failed to create streamable http handler", nil, err)
		}
		httpServer := &http.Server{
			Addr:    resolved.httpAddr,
			Handler: handler,
		}
		return httpServer.ListenAndServe()
	default:
		return errors.New(errors.CodeCfgInvalid, "unsupported mcp transport", map[string]any{"transport": resolved.transport})
	}
}

type mcpServerOptions struct {
	transport         string
	transportSet      bool
	httpAddr          string
	httpAddrSet       bool
	httpAuthToken     string
	httpAuthTokenSet  bool
	allowPlaintext    bool
	allowPlaintextSet bool
}

type mcpServerResolved struct {
	transport     string
	httpAddr      string
	httpAuthToken string
}

// resolveMCPServerOptions merges flags > KEYCHAIN_MCP_* env > config.
// A config auth token may be a keychain:<service>/<account> reference read through getter.
func resolveMCPServerOptions(ctx context.Context, opts *mcpServerOptions, cfg config.File, getter secret.Getter) (mcpServerResolved, *errors.XError) {
	if opts == nil {
		opts = &mcpServerOptions{}
	}

	transport := firstNonEmpty(
		valueIfSet(opts.transportSet, opts.transport),
		os.Getenv("KEYCHAIN_MCP_TRANSPORT"),
		cfg.MCP.Transport,
	)
	if transport == "" {
		transport = mcp_pkg.TransportStdio
	}
	if transport != mcp_pkg.TransportStdio && transport != mcp_pkg.TransportStreamableHTTP {
		return mcpServerResolved{}, errors.New(errors.CodeCfgInvalid, "invalid mcp transport", map[string]any{"transport": transport})
	}

	httpAddr := firstNonEmpty(
		valueIfSet(opts.httpAddrSet, opts.httpAddr),
		os.Getenv("KEYCHAIN_MCP_HTTP_ADDR"),
		cfg.MCP.HTTP.Addr,
	)
	if httpAddr == "" {
		httpAddr = defaultMCPHTTPAddr
	}

	authToken := firstNonEmpty(
		valueIfSet(opts.httpAuthTokenSet, opts.httpAuthToken),
		os.Getenv("KEYCHAIN_MCP_HTTP_AUTH_TOKEN"),
	)
	if authToken == "" && cfg.MCP.HTTP.AuthToken != "" {
		allowPlaintext := cfg.MCP.HTTP.AllowPlaintextToken
		if opts.allowPlaintextSet {
			allowPlaintext = opts.allowPlaintext
		}
		secretValue, xe := secret.Resolve(ctx, cfg.MCP.HTTP.AuthToken, secret.Options{
			AllowPlaintext: allowPlaintext,
			Getter:         getter,
		})
		if xe != nil {
			return mcpServerResolved{}, xe
		}
		authToken = secretValue
	}

	if transport == mcp_pkg.TransportStreamableHTTP && authToken == "" {
		return mcpServerResolved{}, errors.New(errors.CodeCfgInvalid, "streamable http transport requires auth token", nil)
	}

	return mcpServerResolved{
		transport:     transport,
		httpAddr:      httpAddr,
		httpAuthToken: authToken,
	}, nil
}

func valueIfSet(set bool, value string) string {
	if !set {
		return ""
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
