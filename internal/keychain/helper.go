package keychain

import (
	"context"
	"os/exec"
	"strings"
)

const DefaultHelperPath = "secret-tool"

// HelperBackend 通过 secret-tool（libsecret-tools）访问 Secret Service。
// 该工具覆盖写入，不存在 duplicate item；删除前先 lookup，以保持"删除不存在条目报 NotFound"。
type HelperBackend struct {
	path     string
	runner   Runner
	lookPath func(string) (string, error)
}

func NewHelperBackend(path string, runner Runner) *HelperBackend {
	if path == "" {
		path = DefaultHelperPath
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &HelperBackend{path: path, runner: runner, lookPath: exec.LookPath}
}

func (b *HelperBackend) Name() string { return BackendHelper }

func (b *HelperBackend) IsSupported() bool {
	_, err := b.lookPath(b.path)
	return err == nil
}

func (b *HelperBackend) Get(ctx context.Context, req Request) (string, error) {
	res, err := b.runner.Run(ctx, b.path, helperLookupArgs(req), nil)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 || len(res.Stdout) == 0 {
		return "", notFound(req, map[string]any{"exit_code": res.ExitCode})
	}
	return strings.TrimSuffix(string(res.Stdout), "\n"), nil
}

func (b *HelperBackend) Set(ctx context.Context, req Request) error {
	res, err := b.runner.Run(ctx, b.path, helperStoreArgs(req), []byte(req.Password))
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return exitFailed(res)
	}
	return nil
}

func (b *HelperBackend) Delete(ctx context.Context, req Request) error {
	if _, err := b.Get(ctx, req); err != nil {
		return err
	}
	res, err := b.runner.Run(ctx, b.path, helperClearArgs(req), nil)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return exitFailed(res)
	}
	return nil
}
