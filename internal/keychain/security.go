package keychain

import (
	"context"
	"os"

	"github.com/zx06/keychain/internal/errors"
)

const (
	DefaultSecurityPath = "/usr/bin/security"

	// security 的退出码：errSecItemNotFound / errSecDuplicateItem。
	securityExitNotFound  = 44
	securityExitDuplicate = 45
)

// SecurityBackend 通过 security 命令行工具访问 POSIX 安全存储。
type SecurityBackend struct {
	path   string
	runner Runner
}

func NewSecurityBackend(path string, runner Runner) *SecurityBackend {
	if path == "" {
		path = DefaultSecurityPath
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &SecurityBackend{path: path, runner: runner}
}

func (b *SecurityBackend) Name() string { return BackendSecurity }

// Path 返回工具路径（初始化后只读）。
func (b *SecurityBackend) Path() string { return b.path }

func (b *SecurityBackend) IsSupported() bool {
	fi, err := os.Stat(b.path)
	return err == nil && !fi.IsDir()
}

func (b *SecurityBackend) Get(ctx context.Context, req Request) (string, error) {
	res, err := b.runner.Run(ctx, b.path, BuildArgs(OpFind, req), nil)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", notFound(req, map[string]any{"exit_code": res.ExitCode})
	}
	// password: 行写在 stderr，放在前面保证先被找到。
	combined := make([]byte, 0, len(res.Stderr)+len(res.Stdout)+1)
	combined = append(combined, res.Stderr...)
	combined = append(combined, '\n')
	combined = append(combined, res.Stdout...)
	secret, err := ParseSecret(combined)
	if err != nil {
		return "", notFound(req, nil)
	}
	return secret, nil
}

func (b *SecurityBackend) Set(ctx context.Context, req Request) error {
	res, err := b.runner.Run(ctx, b.path, BuildArgs(OpAdd, req), nil)
	if err != nil {
		return err
	}
	switch res.ExitCode {
	case 0:
		return nil
	case securityExitDuplicate:
		return errors.New(errors.CodeDuplicateItem, "the specified item already exists in the keychain", map[string]any{"exit_code": res.ExitCode})
	default:
		return exitFailed(res)
	}
}

func (b *SecurityBackend) Delete(ctx context.Context, req Request) error {
	res, err := b.runner.Run(ctx, b.path, BuildArgs(OpDelete, req), nil)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return notFound(req, map[string]any{"exit_code": res.ExitCode})
	}
	return nil
}

func exitFailed(res Result) *errors.XError {
	return errors.New(errors.CodeExitFailed, "secret store returned a non-successful exit code", map[string]any{"exit_code": res.ExitCode})
}
