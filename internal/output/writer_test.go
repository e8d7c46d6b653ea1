package output

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/zx06/keychain/internal/errors"
)

type credentialResult struct {
	Account string `json:"account"`
	Service string `json:"service"`
	Type    string `json:"type"`
}

func TestWriteOK_JSONEnvelope(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	if err := w.WriteOK(FormatJSON, map[string]any{"k": "v"}); err != nil {
		t.Fatal(err)
	}
	var env Envelope
	if err := json.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if !env.OK || env.SchemaVersion != SchemaVersion {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestWriteOK_JSONNoHTMLEscape(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	if err := w.WriteOK(FormatJSON, map[string]any{"password": "<a&b>"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "<a&b>") {
		t.Fatalf("expected unescaped value, got %s", out.String())
	}
}

func TestWriteError_JSONEnvelope(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	xe := errors.New(errors.CodeMissingField, "an account is required", map[string]any{"field": "account"})
	if err := w.WriteError(FormatJSON, xe); err != nil {
		t.Fatal(err)
	}
	var env Envelope
	if err := json.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.OK || env.Error == nil || env.Error.Code != errors.CodeMissingField {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Error.Details["field"] != "account" {
		t.Fatalf("expected field detail, got %v", env.Error.Details)
	}
}

func TestWriteError_WithCause(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	cause := stderrors.New("exec: \"security\": executable file not found in $PATH")
	xe := errors.Wrap(errors.CodeLaunchFailed, "failed to start secret store tool", nil, cause)
	if err := w.WriteError(FormatJSON, xe); err != nil {
		t.Fatal(err)
	}
	var env Envelope
	if err := json.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Error.Details != nil && env.Error.Details["cause"] != nil {
		t.Errorf("error details should not expose cause, got: %v", env.Error.Details["cause"])
	}
	if env.Error.Message != "failed to start secret store tool" {
		t.Errorf("message=%q", env.Error.Message)
	}
}

func TestWriteOK_YAMLFormat(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	if err := w.WriteOK(FormatYAML, map[string]any{"version": "1.0.0"}); err != nil {
		t.Fatal(err)
	}
	result := out.String()
	if !strings.Contains(result, "ok: true") {
		t.Errorf("YAML should contain 'ok: true', got: %s", result)
	}
	if !strings.Contains(result, "version: 1.0.0") {
		t.Errorf("YAML should contain version, got: %s", result)
	}
}

func TestWriteOK_TableFormat_Struct(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	data := credentialResult{Account: "drudge", Service: "svc1", Type: "generic"}
	if err := w.WriteOK(FormatTable, data); err != nil {
		t.Fatal(err)
	}
	result := out.String()
	for _, want := range []string{"account", "drudge", "service", "svc1", "type", "generic"} {
		if !strings.Contains(result, want) {
			t.Errorf("table should contain %q, got: %s", want, result)
		}
	}
	if strings.Contains(result, "schema_version") {
		t.Errorf("table format should not contain schema_version, got: %s", result)
	}
	// keys are sorted
	if strings.Index(result, "account") > strings.Index(result, "service") {
		t.Errorf("expected sorted keys, got: %s", result)
	}
}

func TestWriteOK_TableFormat_NullValue(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	if err := w.WriteOK(FormatTable, map[string]any{"password": nil}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "<null>") {
		t.Errorf("table should render null as <null>, got: %s", out.String())
	}
}

func TestWriteOK_TableFormat_Scalar(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	if err := w.WriteOK(FormatTable, "plain"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "data") || !strings.Contains(out.String(), "plain") {
		t.Errorf("scalar data should render as data row, got: %s", out.String())
	}
}

func TestWriteError_TableFormat(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	xe := errors.New(errors.CodeExitFailed, "secret store tool failed", map[string]any{"exit_code": 51})
	if err := w.WriteError(FormatTable, xe); err != nil {
		t.Fatal(err)
	}
	result := out.String()
	if !strings.Contains(result, "KEYCHAIN_EXIT_FAILED") {
		t.Errorf("table should contain error code, got: %s", result)
	}
	if !strings.Contains(result, "error.details.exit_code") || !strings.Contains(result, "51") {
		t.Errorf("table should contain exit_code detail, got: %s", result)
	}
}

func TestWriteOK_CSVFormat(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	if err := w.WriteOK(FormatCSV, credentialResult{Account: "a", Service: "s", Type: "internet"}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != "key,value" {
		t.Fatalf("expected header row, got %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), out.String())
	}
}

func TestWriteError_CSVFormat(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	xe := errors.New(errors.CodeNotFound, "could not find password", nil)
	if err := w.WriteError(FormatCSV, xe); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "error.code,KEYCHAIN_NOT_FOUND") {
		t.Errorf("csv should contain error code, got: %s", out.String())
	}
}

func TestWrite_InvalidFormat(t *testing.T) {
	var out bytes.Buffer
	w := New(&out, &bytes.Buffer{})
	err := w.WriteOK(Format("xml"), nil)
	if !errors.Is(err, errors.CodeCfgInvalid) {
		t.Fatalf("expected KEYCHAIN_CFG_INVALID, got %v", err)
	}
}

func TestIsValid(t *testing.T) {
	for _, f := range []Format{FormatAuto, FormatJSON, FormatYAML, FormatTable, FormatCSV} {
		if !IsValid(f) {
			t.Errorf("expected %q to be valid", f)
		}
	}
	if IsValid(Format("xml")) {
		t.Error("xml should be invalid")
	}
}
