package keychain

import (
	"context"
	stderrors "errors"

	"github.com/zalando/go-keyring"

	"github.com/zx06/keychain/internal/errors"
)

// NativeBackend 通过 zalando/go-keyring 调用平台原生接口
// （Windows Credential Manager / Secret Service / macOS Keychain）。
// internet 类型条目的 service 加 "internet:" 前缀，与 generic 分开存放。
type NativeBackend struct{}

func NewNativeBackend() *NativeBackend { return &NativeBackend{} }

func (b *NativeBackend) Name() string { return BackendNative }

func (b *NativeBackend) IsSupported() bool { return nativeSupported }

func nativeService(req Request) string {
	if req.Type.orDefault() == TypeInternet {
		return "internet:" + req.Service
	}
	return req.Service
}

func (b *NativeBackend) Get(ctx context.Context, req Request) (string, error) {
	val, err := keyring.Get(nativeService(req), req.Account)
	if err != nil {
		return "", mapNativeErr(req, err)
	}
	return cleanSecret(val), nil
}

func (b *NativeBackend) Set(ctx context.Context, req Request) error {
	if err := keyring.Set(nativeService(req), req.Account, req.Password); err != nil {
		return mapNativeErr(req, err)
	}
	return nil
}

func (b *NativeBackend) Delete(ctx context.Context, req Request) error {
	if err := keyring.Delete(nativeService(req), req.Account); err != nil {
		return mapNativeErr(req, err)
	}
	return nil
}

func mapNativeErr(req Request, err error) error {
	switch {
	case stderrors.Is(err, keyring.ErrNotFound):
		return notFound(req, nil)
	case stderrors.Is(err, keyring.ErrUnsupportedPlatform):
		return errors.Wrap(errors.CodeUnsupportedPlatform, "native secret store is not available on this platform", nil, err)
	default:
		return errors.Wrap(errors.CodeBackendFailed, "native secret store call failed", map[string]any{"backend": BackendNative}, err)
	}
}
