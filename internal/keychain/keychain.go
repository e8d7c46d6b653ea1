// Package keychain 以统一接口（get/set/delete）访问平台原生密码存储。
package keychain

import (
	"context"
	"log/slog"

	"github.com/zx06/keychain/internal/errors"
	"github.com/zx06/keychain/internal/log"
)

// Keychain 是对外门面：校验 → 调用后端 → 映射结果。
// 不缓存、不加锁；并发调用在外部工具层面可能相互竞争。
type Keychain struct {
	backend Backend
	logger  *slog.Logger
}

type Option func(*Keychain)

func WithLogger(l *slog.Logger) Option {
	return func(k *Keychain) {
		if l != nil {
			k.logger = l
		}
	}
}

func New(b Backend, opts ...Option) *Keychain {
	k := &Keychain{backend: b, logger: log.Discard()}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

func (k *Keychain) Name() string { return k.backend.Name() }

func (k *Keychain) IsSupported() bool { return k.backend.IsSupported() }

// Get 返回密码；条目不存在时返回 NotFound。
func (k *Keychain) Get(ctx context.Context, req Request) (string, error) {
	if xe := validate(req, false); xe != nil {
		return "", xe
	}
	k.debug("get", req)
	secret, err := k.backend.Get(ctx, req)
	if err != nil {
		return "", err
	}
	return secret, nil
}

// Set 写入密码并返回写入的值。
// 后端报告 duplicate item 时先删除再重试一次，最多一次。
func (k *Keychain) Set(ctx context.Context, req Request) (string, error) {
	if xe := validate(req, true); xe != nil {
		return "", xe
	}
	k.debug("set", req)
	err := k.backend.Set(ctx, req)
	if err == nil {
		return req.Password, nil
	}
	if !errors.Is(err, errors.CodeDuplicateItem) {
		return "", err
	}

	k.logger.Debug("duplicate item, replacing", "backend", k.backend.Name(), "account", req.Account, "service", req.Service)
	if derr := k.backend.Delete(ctx, req); derr != nil {
		xe := errors.AsOrWrap(derr)
		details := map[string]any{"recovering": "duplicate_item"}
		for key, v := range xe.Details {
			details[key] = v
		}
		return "", errors.Wrap(xe.Code, "failed to remove existing item before overwrite", details, derr)
	}

	if err := k.backend.Set(ctx, req); err != nil {
		if xe, ok := errors.As(err); ok && xe.Code == errors.CodeDuplicateItem {
			return "", errors.Wrap(errors.CodeExitFailed, "secret store still reports a duplicate item after removal", xe.Details, err)
		}
		return "", err
	}
	return req.Password, nil
}

// Delete 删除条目。不幂等：第二次删除返回 NotFound。
func (k *Keychain) Delete(ctx context.Context, req Request) error {
	if xe := validate(req, false); xe != nil {
		return xe
	}
	k.debug("delete", req)
	return k.backend.Delete(ctx, req)
}

func (k *Keychain) debug(op string, req Request) {
	k.logger.Debug("keychain call",
		"op", op,
		"backend", k.backend.Name(),
		"account", req.Account,
		"service", req.Service,
		"type", string(req.Type.orDefault()),
	)
}
