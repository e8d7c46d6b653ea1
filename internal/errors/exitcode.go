package errors

// ExitCode 是进程退出码（稳定契约）。
type ExitCode int

const (
	ExitOK ExitCode = 0

	// 2: 参数/配置错误
	ExitConfig ExitCode = 2

	// 3: 条目不存在
	ExitNotFound ExitCode = 3

	// 4: 当前平台不支持
	ExitUnsupported ExitCode = 4

	// 5: 外部工具 / 后端失败
	ExitBackend ExitCode = 5

	// 10: 内部错误
	ExitInternal ExitCode = 10
)

func ExitCodeFor(code Code) ExitCode {
	switch code {
	case CodeCfgNotFound, CodeCfgInvalid, CodeMissingField:
		return ExitConfig
	case CodeNotFound:
		return ExitNotFound
	case CodeUnsupportedPlatform:
		return ExitUnsupported
	case CodeLaunchFailed, CodeExitFailed, CodeDuplicateItem, CodeBackendFailed:
		return ExitBackend
	case CodeInternal:
		fallthrough
	default:
		return ExitInternal
	}
}
