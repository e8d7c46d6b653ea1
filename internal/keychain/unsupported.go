package keychain

import (
	"context"

	"github.com/zx06/keychain/internal/errors"
)

// Unsupported 是无法识别平台时的占位实现：所有操作返回 UnsupportedPlatform。
type Unsupported struct {
	GOOS   string
	Reason string
}

func (u Unsupported) Name() string { return BackendUnsupported }

func (u Unsupported) IsSupported() bool { return false }

func (u Unsupported) err() error {
	details := map[string]any{"os": u.GOOS}
	if u.Reason != "" {
		details["reason"] = u.Reason
	}
	return errors.New(errors.CodeUnsupportedPlatform, "no secret store available on this platform", details)
}

func (u Unsupported) Get(ctx context.Context, req Request) (string, error) { return "", u.err() }

func (u Unsupported) Set(ctx context.Context, req Request) error { return u.err() }

func (u Unsupported) Delete(ctx context.Context, req Request) error { return u.err() }
