package secret

import (
	"context"
	"strings"

	"github.com/zx06/keychain/internal/errors"
	"github.com/zx06/keychain/internal/keychain"
)

const refPrefix = "keychain:"

// Getter 是读取凭据的最小能力；*keychain.Keychain 满足该接口。
type Getter interface {
	Get(ctx context.Context, req keychain.Request) (string, error)
}

// Options 控制 secret 解析行为。
type Options struct {
	AllowPlaintext bool   // 是否允许明文（默认 false）
	Getter         Getter // 解析 keychain: 引用所用的后端
	Type           keychain.Type
}

// Resolve 解析配置中的 secret 值：
//  1. keychain:<service>/<account> → 从凭据存储读取
//  2. 否则若为明文且允许明文 → 直接返回
//  3. 否则报错
func Resolve(ctx context.Context, raw string, opts Options) (string, *errors.XError) {
	if IsRef(raw) {
		service, account, xe := parseRef(strings.TrimPrefix(raw, refPrefix))
		if xe != nil {
			return "", xe
		}
		if opts.Getter == nil {
			return "", errors.New(errors.CodeInternal, "no credential store configured for secret reference", map[string]any{"ref": raw})
		}
		val, err := opts.Getter.Get(ctx, keychain.Request{Account: account, Service: service, Type: opts.Type})
		if err != nil {
			return "", errors.AsOrWrap(err)
		}
		return val, nil
	}
	if opts.AllowPlaintext {
		return raw, nil
	}
	return "", errors.New(errors.CodeCfgInvalid, "plaintext secret not allowed; use a keychain: reference or enable allow_plaintext_token", nil)
}

// IsRef 判断值是否为 keychain 引用。
func IsRef(s string) bool {
	return strings.HasPrefix(s, refPrefix)
}

// parseRef 以第一个 / 切分 service 与 account；account 可包含 /。
func parseRef(ref string) (service, account string, xe *errors.XError) {
	service, account, ok := strings.Cut(ref, "/")
	if !ok || service == "" || account == "" {
		return "", "", errors.New(errors.CodeCfgInvalid, "invalid secret reference; expected keychain:<service>/<account>", map[string]any{"ref": refPrefix + ref})
	}
	return service, account, nil
}
