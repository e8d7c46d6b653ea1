package keychain

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"

	"github.com/zx06/keychain/internal/errors"
)

// Result 是一次子进程调用的结果。非零退出码不是 error。
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner 抽象外部工具调用，便于测试注入。
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdin []byte) (Result, error)
}

// ExecRunner 使用 os/exec 启动子进程。
// ctx 只在启动前检查：进程一旦启动即运行至退出。
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args []string, stdin []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, errors.Wrap(errors.CodeLaunchFailed, "secret store tool not started", map[string]any{"tool": name}, err)
	}

	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, errors.Wrap(errors.CodeLaunchFailed, "failed to start secret store tool", map[string]any{"tool": name}, err)
}
