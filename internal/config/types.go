package config

// File 表示 keychain.yaml 的配置结构。
// 约束：配置优先级为 CLI > ENV > Config > 默认值。
type File struct {
	Backend     string `yaml:"backend"`      // auto|security|helper|native|ring
	Format      string `yaml:"format"`       // json|yaml|table|csv|auto
	DefaultType string `yaml:"default_type"` // generic|internet

	// 外部工具路径（空则使用默认值）
	SecurityPath string `yaml:"security_path"`
	HelperPath   string `yaml:"helper_path"`

	Ring RingConfig `yaml:"ring"`
	MCP  MCPConfig  `yaml:"mcp"`
}

type RingConfig struct {
	FileDir string `yaml:"file_dir"`
}

type MCPConfig struct {
	Transport string        `yaml:"transport"` // stdio|streamable_http
	HTTP      MCPHTTPConfig `yaml:"http"`
}

type MCPHTTPConfig struct {
	Addr                string `yaml:"addr"`
	AuthToken           string `yaml:"auth_token"` // 支持 keychain:<service>/<account> 引用
	AllowPlaintextToken bool   `yaml:"allow_plaintext_token"`
}

type Resolved struct {
	ConfigPath  string
	Backend     string
	Format      string
	DefaultType string
	File        File // 完整配置供 mcp 等子命令使用
}

type Options struct {
	// ConfigPath: 若非空，则只读取该文件（不存在报错）。
	ConfigPath string

	// CLI
	CLIBackend    string
	CLIBackendSet bool
	CLIFormat     string
	CLIFormatSet  bool

	// ENV（由调用方注入，便于测试）
	EnvBackend string
	EnvFormat  string

	// HomeDir 用于默认路径计算（为空则自动探测）。
	HomeDir string

	// XDGConfigHome 为空则使用 xdg.ConfigHome。
	XDGConfigHome string

	// WorkDir 用于默认路径（为空则使用进程当前工作目录）。
	WorkDir string
}
