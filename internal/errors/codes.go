package errors

// Code 是稳定错误码（字符串），供 AI/agent 与程序判断。
// 只增不改、不复用旧含义。
type Code string

const (
	// Config / args
	CodeCfgNotFound  Code = "KEYCHAIN_CFG_NOT_FOUND"
	CodeCfgInvalid   Code = "KEYCHAIN_CFG_INVALID"
	CodeMissingField Code = "KEYCHAIN_MISSING_FIELD"

	// Secret store
	CodeNotFound            Code = "KEYCHAIN_NOT_FOUND"
	CodeUnsupportedPlatform Code = "KEYCHAIN_UNSUPPORTED_PLATFORM"
	CodeDuplicateItem       Code = "KEYCHAIN_DUPLICATE_ITEM"
	CodeBackendFailed       Code = "KEYCHAIN_BACKEND_FAILED"

	// Subprocess
	CodeLaunchFailed Code = "KEYCHAIN_LAUNCH_FAILED"
	CodeExitFailed   Code = "KEYCHAIN_EXIT_FAILED"

	// Internal
	CodeInternal Code = "KEYCHAIN_INTERNAL"
)

func AllCodes() []Code {
	return []Code{
		CodeCfgNotFound,
		CodeCfgInvalid,
		CodeMissingField,
		CodeNotFound,
		CodeUnsupportedPlatform,
		CodeDuplicateItem,
		CodeBackendFailed,
		CodeLaunchFailed,
		CodeExitFailed,
		CodeInternal,
	}
}
