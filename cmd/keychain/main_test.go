package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// TestMain_SpecCommand 测试 spec 命令输出
func TestMain_SpecCommand(t *testing.T) {
	binary := buildTestBinary(t)

	cmd := exec.Command(binary, "spec", "--format", "json")
	cmd.Env = isolatedEnv(t)
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("spec command failed: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v\noutput: %s", err, out)
	}

	if ok, _ := resp["ok"].(bool); !ok {
		t.Errorf("expected ok=true, got %v", resp["ok"])
	}
	if v, _ := resp["schema_version"].(float64); v != 1 {
		t.Errorf("expected schema_version=1, got %v", v)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data map")
	}
	if codes, _ := data["error_codes"].([]any); len(codes) == 0 {
		t.Error("expected error codes in spec")
	}
}

// TestMain_VersionCommand 测试 version 命令
func TestMain_VersionCommand(t *testing.T) {
	binary := buildTestBinary(t)

	cmd := exec.Command(binary, "version", "--format", "json")
	cmd.Env = isolatedEnv(t)
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v\noutput: %s", err, out)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatal("expected data map")
	}
	if _, ok := data["version"]; !ok {
		t.Error("expected version in data")
	}
}

// TestMain_InvalidFormat 测试非法输出格式的退出码
func TestMain_InvalidFormat(t *testing.T) {
	binary := buildTestBinary(t)

	cmd := exec.Command(binary, "version", "--format", "xml")
	cmd.Env = isolatedEnv(t)
	out, err := cmd.Output()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected exit error, got %v", err)
	}
	if exitErr.ExitCode() != 2 {
		t.Fatalf("expected exit 2, got %d", exitErr.ExitCode())
	}
	var resp map[string]any
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v\noutput: %s", err, out)
	}
	if ok, _ := resp["ok"].(bool); ok {
		t.Error("expected ok=false")
	}
}

// TestMain_MissingAccount 测试缺少 account 时在调用外部工具前失败
func TestMain_MissingAccount(t *testing.T) {
	binary := buildTestBinary(t)

	cmd := exec.Command(binary, "get", "--service", "svc1", "--format", "json")
	cmd.Env = isolatedEnv(t)
	out, err := cmd.Output()
	exitErr, ok := err.(*exec.ExitError)
	if !ok || exitErr.ExitCode() != 2 {
		t.Fatalf("expected exit 2, got %v\noutput: %s", err, out)
	}
	var resp struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("failed to parse JSON: %v\noutput: %s", err, out)
	}
	if resp.Error.Code != "KEYCHAIN_MISSING_FIELD" || resp.Error.Details["field"] != "account" {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
}

// TestMain_SecurityBackendOffDarwin 测试非 darwin 平台显式选择 security 后端
func TestMain_SecurityBackendOffDarwin(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("security backend is available on darwin")
	}
	binary := buildTestBinary(t)

	cmd := exec.Command(binary, "get", "-a", "drudge", "-s", "svc1", "--backend", "security", "--format", "json")
	cmd.Env = isolatedEnv(t)
	out, err := cmd.Output()
	exitErr, ok := err.(*exec.ExitError)
	if !ok || exitErr.ExitCode() != 4 {
		t.Fatalf("expected exit 4, got %v\noutput: %s", err, out)
	}
}

// TestMain_Help 测试帮助输出
func TestMain_Help(t *testing.T) {
	binary := buildTestBinary(t)

	cmd := exec.Command(binary, "--help")
	cmd.Env = isolatedEnv(t)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	if len(out) == 0 {
		t.Error("expected help output")
	}
}

func isolatedEnv(t *testing.T) []string {
	t.Helper()
	tmp := t.TempDir()
	return append(os.Environ(),
		"HOME="+tmp,
		"USERPROFILE="+tmp,
		"XDG_CONFIG_HOME="+filepath.Join(tmp, "xdg"),
		"KEYCHAIN_BACKEND=",
		"KEYCHAIN_FORMAT=",
	)
}

func buildTestBinary(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "keychain_test_binary")
	if isWindows() {
		tmpFile += ".exe"
	}

	cmd := exec.Command("go", "build", "-o", tmpFile, ".")
	cmd.Dir = "."
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build test binary: %v\n%s", err, out)
	}

	return tmpFile
}

func isWindows() bool {
	return os.PathSeparator == '\\'
}
