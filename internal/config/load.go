package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/zx06/keychain/internal/errors"
)

const fileName = "keychain.yaml"

func defaultConfigPaths(workDir, xdgConfigHome, homeDir string) []string {
	paths := make([]string, 0, 3)
	add := func(p string) {
		for _, existing := range paths {
			if existing == p {
				return
			}
		}
		paths = append(paths, p)
	}
	if workDir != "" {
		add(filepath.Join(workDir, fileName))
	}
	if xdgConfigHome != "" {
		add(filepath.Join(xdgConfigHome, "keychain", fileName))
	}
	if homeDir != "" {
		add(filepath.Join(homeDir, ".config", "keychain", fileName))
	}
	return paths
}

func readFile(path string) (File, *errors.XError) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, errors.New(errors.CodeCfgNotFound, "config file not found", map[string]any{"path": path})
		}
		return File{}, errors.Wrap(errors.CodeCfgInvalid, "failed to read config file", map[string]any{"path": path}, err)
	}
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !stderrors.Is(err, io.EOF) {
		return File{}, errors.Wrap(errors.CodeCfgInvalid, "invalid config file", map[string]any{"path": path}, err)
	}
	return f, nil
}

func (o *Options) fill() {
	if o.WorkDir == "" {
		wd, _ := os.Getwd()
		o.WorkDir = wd
	}
	if o.HomeDir == "" {
		if hd, err := os.UserHomeDir(); err == nil {
			o.HomeDir = hd
		}
	}
	if o.XDGConfigHome == "" {
		o.XDGConfigHome = xdg.ConfigHome
	}
}

// LoadConfig 加载配置文件，返回完整配置和配置文件路径。
// 未找到任何默认路径下的配置时返回零值配置与空路径。
func LoadConfig(opts Options) (File, string, *errors.XError) {
	opts.fill()

	if opts.ConfigPath != "" {
		abs := opts.ConfigPath
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(opts.WorkDir, abs)
		}
		f, xe := readFile(abs)
		if xe != nil {
			return File{}, "", xe
		}
		return f, abs, nil
	}

	for _, p := range defaultConfigPaths(opts.WorkDir, opts.XDGConfigHome, opts.HomeDir) {
		f, xe := readFile(p)
		if xe != nil {
			if xe.Code == errors.CodeCfgNotFound {
				continue
			}
			return File{}, "", xe
		}
		return f, p, nil
	}
	return File{}, "", nil
}
