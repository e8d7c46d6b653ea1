package keychain

import (
	"context"
	stderrors "errors"
	"path/filepath"

	"github.com/99designs/keyring"
	"github.com/adrg/xdg"

	"github.com/zx06/keychain/internal/errors"
)

const ringServiceName = "keychain"

// RingConfig 控制 99designs/keyring 的打开方式。
type RingConfig struct {
	// FileDir 为加密文件后端目录；空则使用 $XDG_DATA_HOME/keychain/ring。
	FileDir string
	// Password 为文件后端口令；空则在终端提示输入。
	Password string
}

// RingBackend 通过 99designs/keyring 访问系统钥匙串，
// 无可用系统后端时退化为加密文件。
type RingBackend struct {
	ring keyring.Keyring
}

func NewRingBackend(ring keyring.Keyring) *RingBackend {
	return &RingBackend{ring: ring}
}

// OpenRing 按 RingConfig 打开 keyring。
func OpenRing(cfg RingConfig) (keyring.Keyring, error) {
	dir := cfg.FileDir
	if dir == "" {
		dir = filepath.Join(xdg.DataHome, "keychain", "ring")
	}
	var prompt keyring.PromptFunc = keyring.TerminalPrompt
	if cfg.Password != "" {
		prompt = keyring.FixedStringPrompt(cfg.Password)
	}
	return keyring.Open(keyring.Config{
		ServiceName:              ringServiceName,
		KeychainTrustApplication: true,
		FileDir:                  dir,
		FilePasswordFunc:         prompt,
	})
}

func (b *RingBackend) Name() string { return BackendRing }

func (b *RingBackend) IsSupported() bool { return b.ring != nil }

func ringKey(req Request) string {
	return string(req.Type.orDefault()) + "/" + req.Service + "/" + req.Account
}

func (b *RingBackend) Get(ctx context.Context, req Request) (string, error) {
	item, err := b.ring.Get(ringKey(req))
	if err != nil {
		return "", mapRingErr(req, err)
	}
	return string(item.Data), nil
}

func (b *RingBackend) Set(ctx context.Context, req Request) error {
	err := b.ring.Set(keyring.Item{
		Key:         ringKey(req),
		Data:        []byte(req.Password),
		Label:       req.Service,
		Description: req.Account,
	})
	if err != nil {
		return mapRingErr(req, err)
	}
	return nil
}

func (b *RingBackend) Delete(ctx context.Context, req Request) error {
	// 部分后端删除不存在的 key 不报错，先 Get 保证 NotFound。
	if _, err := b.ring.Get(ringKey(req)); err != nil {
		return mapRingErr(req, err)
	}
	if err := b.ring.Remove(ringKey(req)); err != nil {
		return mapRingErr(req, err)
	}
	return nil
}

func mapRingErr(req Request, err error) error {
	if stderrors.Is(err, keyring.ErrKeyNotFound) {
		return notFound(req, nil)
	}
	return errors.Wrap(errors.CodeBackendFailed, "keyring call failed", map[string]any{"backend": BackendRing}, err)
}
