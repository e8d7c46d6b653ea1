package config

import (
	"github.com/zx06/keychain/internal/errors"
	"github.com/zx06/keychain/internal/keychain"
)

// Resolve 合并 config/backend/format：CLI > ENV > Config > 默认值。
func Resolve(opts Options) (Resolved, *errors.XError) {
	cfg, cfgPath, xe := LoadConfig(opts)
	if xe != nil {
		return Resolved{}, xe
	}

	// backend：--backend > KEYCHAIN_BACKEND > backend > auto
	backend := keychain.BackendAuto
	if cfg.Backend != "" {
		backend = cfg.Backend
	}
	if opts.EnvBackend != "" {
		backend = opts.EnvBackend
	}
	if opts.CLIBackendSet {
		backend = opts.CLIBackend
	}
	if xe := keychain.ValidateBackend(backend); xe != nil {
		return Resolved{}, xe
	}

	// format：--format > KEYCHAIN_FORMAT > format > auto
	format := "auto"
	if cfg.Format != "" {
		format = cfg.Format
	}
	if opts.EnvFormat != "" {
		format = opts.EnvFormat
	}
	if opts.CLIFormatSet {
		format = opts.CLIFormat
	}

	typ, err := keychain.ParseType(cfg.DefaultType)
	if err != nil {
		xe := errors.AsOrWrap(err)
		xe.Details["path"] = cfgPath
		return Resolved{}, xe
	}

	return Resolved{
		ConfigPath:  cfgPath,
		Backend:     backend,
		Format:      format,
		DefaultType: string(typ),
		File:        cfg,
	}, nil
}
