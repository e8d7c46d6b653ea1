package mcp

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zx06/keychain/internal/errors"
	"github.com/zx06/keychain/internal/keychain"
	"github.com/zx06/keychain/internal/output"
)

// CredentialInput identifies a stored credential.
type CredentialInput struct {
	Account string `json:"account" jsonschema:"Account name"`
	Service string `json:"service" jsonschema:"Service name"`
	Type    string `json:"type,omitempty" jsonschema:"Credential type"`
}

// CredentialSetInput carries the password to store.
type CredentialSetInput struct {
	CredentialInput
	Password string `json:"password" jsonschema:"Password to store"`
}

// ToolHandler manages MCP tools
type ToolHandler struct {
	kc          *keychain.Keychain
	defaultType keychain.Type
}

// NewToolHandler creates a new tool handler
func NewToolHandler(kc *keychain.Keychain, defaultType keychain.Type) *ToolHandler {
	if defaultType == "" {
		defaultType = keychain.TypeGeneric
	}
	return &ToolHandler{kc: kc, defaultType: defaultType}
}

func credentialSchema(withPassword bool) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"account", "service"},
		Properties: map[string]*jsonschema.Schema{
			"account": {Type: "string", Description: "Account name"},
			"service": {Type: "string", Description: "Service name"},
			"type": {
				Type:        "string",
				Description: "Credential type (defaults to the configured default_type)",
				Enum:        []any{string(keychain.TypeGeneric), string(keychain.TypeInternet)},
			},
		},
	}
	if withPassword {
		s.Required = append(s.Required, "password")
		s.Properties["password"] = &jsonschema.Schema{Type: "string", Description: "Password to store"}
	}
	return s
}

// RegisterTools registers all tools with the MCP server
func (h *ToolHandler) RegisterTools(server *mcp.Server) {
	server.AddTool(&mcp.Tool{
		Name:        "credential_get",
		Description: "Retrieve a stored password",
		InputSchema: credentialSchema(false),
	}, h.getHandler)

	server.AddTool(&mcp.Tool{
		Name:        "credential_set",
		Description: "Store a password, replacing any existing item",
		InputSchema: credentialSchema(true),
	}, h.setHandler)

	server.AddTool(&mcp.Tool{
		Name:        "credential_delete",
		Description: "Delete a stored password",
		InputSchema: credentialSchema(false),
	}, h.deleteHandler)

	mcp.AddTool[struct{}, any](server, &mcp.Tool{
		Name:        "backend_status",
		Description: "Show the active secret store backend and whether it is supported",
	}, h.BackendStatus)
}

func (h *ToolHandler) getHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input CredentialInput
	if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
		return h.errorResult(errors.Wrap(errors.CodeCfgInvalid, "invalid input", nil, err)), nil
	}
	result, _, err := h.Get(ctx, req, input)
	return result, err
}

func (h *ToolHandler) setHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input CredentialSetInput
	if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
		return h.errorResult(errors.Wrap(errors.CodeCfgInvalid, "invalid input", nil, err)), nil
	}
	result, _, err := h.Set(ctx, req, input)
	return result, err
}

func (h *ToolHandler) deleteHandler(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input CredentialInput
	if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
		return h.errorResult(errors.Wrap(errors.CodeCfgInvalid, "invalid input", nil, err)), nil
	}
	result, _, err := h.Delete(ctx, req, input)
	return result, err
}

func (h *ToolHandler) request(input CredentialInput) (keychain.Request, error) {
	typ := h.defaultType
	if input.Type != "" {
		t, err := keychain.ParseType(input.Type)
		if err != nil {
			return keychain.Request{}, err
		}
		typ = t
	}
	return keychain.Request{Account: input.Account, Service: input.Service, Type: typ}, nil
}

// Get retrieves a password
func (h *ToolHandler) Get(ctx context.Context, req *mcp.CallToolRequest, input CredentialInput) (*mcp.CallToolResult, any, error) {
	r, err := h.request(input)
	if err != nil {
		return h.errorResult(err), nil, nil
	}
	password, err := h.kc.Get(ctx, r)
	if err != nil {
		return h.errorResult(err), nil, nil
	}
	return h.okResult(map[string]any{
		"account":  r.Account,
		"service":  r.Service,
		"type":     string(r.Type),
		"password": password,
	}), nil, nil
}

// Set stores a password; the password is never echoed back
func (h *ToolHandler) Set(ctx context.Context, req *mcp.CallToolRequest, input CredentialSetInput) (*mcp.CallToolResult, any, error) {
	r, err := h.request(input.CredentialInput)
	if err != nil {
		return h.errorResult(err), nil, nil
	}
	r.Password = input.Password
	if _, err := h.kc.Set(ctx, r); err != nil {
		return h.errorResult(err), nil, nil
	}
	return h.okResult(map[string]any{
		"account": r.Account,
		"service": r.Service,
		"type":    string(r.Type),
		"stored":  true,
	}), nil, nil
}

// Delete removes a password
func (h *ToolHandler) Delete(ctx context.Context, req *mcp.CallToolRequest, input CredentialInput) (*mcp.CallToolResult, any, error) {
	r, err := h.request(input)
	if err != nil {
		return h.errorResult(err), nil, nil
	}
	if err := h.kc.Delete(ctx, r); err != nil {
		return h.errorResult(err), nil, nil
	}
	return h.okResult(map[string]any{
		"account": r.Account,
		"service": r.Service,
		"type":    string(r.Type),
		"deleted": true,
	}), nil, nil
}

// BackendStatus reports the resolved backend
func (h *ToolHandler) BackendStatus(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	return h.okResult(map[string]any{
		"backend":      h.kc.Name(),
		"supported":    h.kc.IsSupported(),
		"default_type": string(h.defaultType),
	}), nil, nil
}

func (h *ToolHandler) okResult(data any) *mcp.CallToolResult {
	env := output.Envelope{OK: true, SchemaVersion: output.SchemaVersion, Data: data}
	jsonData, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return h.errorResult(errors.Wrap(errors.CodeInternal, "failed to marshal result", nil, err))
	}
	// Return result directly in content per RFC
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonData)},
		},
	}
}

func (h *ToolHandler) errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: h.formatError(err)},
		},
	}
}

// formatError formats an error as JSON
func (h *ToolHandler) formatError(err error) string {
	var xe *errors.XError
	if err != nil {
		xe = errors.AsOrWrap(err)
	} else {
		xe = errors.New(errors.CodeInternal, "unknown error", nil)
	}
	env := output.Envelope{
		OK:            false,
		SchemaVersion: output.SchemaVersion,
		Error:         &output.ErrorObject{Code: xe.Code, Message: xe.Message, Details: xe.Details},
	}
	jsonData, _ := json.MarshalIndent(env, "", "  ")
	return string(jsonData)
}

// CreateServer creates a new MCP server
func CreateServer(version string, kc *keychain.Keychain, defaultType keychain.Type) (*mcp.Server, error) {
	if kc == nil {
		return nil, errors.New(errors.CodeInternal, "keychain is nil", nil)
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "keychain",
		Version: version,
	}, nil)

	handler := NewToolHandler(kc, defaultType)
	handler.RegisterTools(server)

	return server, nil
}
