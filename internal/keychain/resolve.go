package keychain

import (
	"os/exec"

	"github.com/99designs/keyring"

	"github.com/zx06/keychain/internal/errors"
)

const (
	BackendAuto        = "auto"
	BackendSecurity    = "security"
	BackendHelper      = "helper"
	BackendNative      = "native"
	BackendRing        = "ring"
	BackendUnsupported = "unsupported"
)

// BackendNames 返回可配置的后端名。
func BackendNames() []string {
	return []string{BackendAuto, BackendSecurity, BackendHelper, BackendNative, BackendRing}
}

// ValidateBackend 检查后端名；空串视为 auto。
func ValidateBackend(name string) *errors.XError {
	if name == "" {
		return nil
	}
	for _, n := range BackendNames() {
		if n == name {
			return nil
		}
	}
	return errors.New(errors.CodeCfgInvalid, "unknown backend", map[string]any{"backend": name, "allowed": BackendNames()})
}

// ResolveOptions 是平台解析的输入；所有外部依赖均可注入。
type ResolveOptions struct {
	GOOS         string
	Backend      string
	SecurityPath string
	HelperPath   string
	Ring         RingConfig

	Runner   Runner
	LookPath func(string) (string, error)
	OpenRing func(RingConfig) (keyring.Keyring, error)
}

// Resolve 在进程启动时调用一次，返回唯一的 Backend。
// 显式指定的后端优先于 OS 探测；security 仅在 darwin 上可用。
func Resolve(opts ResolveOptions) Backend {
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.OpenRing == nil {
		opts.OpenRing = OpenRing
	}

	switch opts.Backend {
	case BackendSecurity:
		if opts.GOOS != "darwin" {
			return Unsupported{GOOS: opts.GOOS, Reason: "security backend requires darwin"}
		}
		return NewSecurityBackend(opts.SecurityPath, opts.Runner)
	case BackendHelper:
		return newHelper(opts)
	case BackendNative:
		return NewNativeBackend()
	case BackendRing:
		ring, err := opts.OpenRing(opts.Ring)
		if err != nil {
			return Unsupported{GOOS: opts.GOOS, Reason: err.Error()}
		}
		return NewRingBackend(ring)
	}

	switch opts.GOOS {
	case "darwin":
		return NewSecurityBackend(opts.SecurityPath, opts.Runner)
	case "linux", "freebsd", "openbsd", "netbsd":
		h := newHelper(opts)
		if h.IsSupported() {
			return h
		}
		return NewNativeBackend()
	case "windows":
		return NewNativeBackend()
	default:
		return Unsupported{GOOS: opts.GOOS}
	}
}

func newHelper(opts ResolveOptions) *HelperBackend {
	h := NewHelperBackend(opts.HelperPath, opts.Runner)
	h.lookPath = opts.LookPath
	return h
}
