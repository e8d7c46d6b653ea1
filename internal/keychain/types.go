package keychain

import (
	"context"

	"github.com/zx06/keychain/internal/errors"
)

// Type 区分 generic 与 internet 两类条目；零值视为 generic。
type Type string

const (
	TypeGeneric  Type = "generic"
	TypeInternet Type = "internet"
)

// ParseType 解析用户输入的类型；空串返回 generic。
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case "", TypeGeneric:
		return TypeGeneric, nil
	case TypeInternet:
		return TypeInternet, nil
	default:
		return "", errors.New(errors.CodeCfgInvalid, "unknown credential type", map[string]any{"type": s, "allowed": []string{string(TypeGeneric), string(TypeInternet)}})
	}
}

func (t Type) orDefault() Type {
	if t == "" {
		return TypeGeneric
	}
	return t
}

// Op 是外部工具的操作名。
type Op string

const (
	OpFind   Op = "find"
	OpAdd    Op = "add"
	OpDelete Op = "delete"
)

// Request 以 account + service 作为条目主键；Password 仅 Set 使用。
type Request struct {
	Account  string
	Service  string
	Password string
	Type     Type
}

// Backend 是平台适配器的能力集合。实现方可假设 Request 已通过校验。
type Backend interface {
	Name() string
	IsSupported() bool
	Get(ctx context.Context, req Request) (string, error)
	Set(ctx context.Context, req Request) error
	Delete(ctx context.Context, req Request) error
}

// validate 按 account → service → password 顺序检查，第一个缺失字段胜出。
func validate(req Request, needPassword bool) *errors.XError {
	if req.Account == "" {
		return errors.New(errors.CodeMissingField, "an account is required", map[string]any{"field": "account"})
	}
	if req.Service == "" {
		return errors.New(errors.CodeMissingField, "a service is required", map[string]any{"field": "service"})
	}
	if needPassword && req.Password == "" {
		return errors.New(errors.CodeMissingField, "a password is required", map[string]any{"field": "password"})
	}
	if _, err := ParseType(string(req.Type)); err != nil {
		return errors.AsOrWrap(err)
	}
	return nil
}

func notFound(req Request, details map[string]any) *errors.XError {
	d := map[string]any{"account": req.Account, "service": req.Service, "type": string(req.Type.orDefault())}
	for k, v := range details {
		d[k] = v
	}
	return errors.New(errors.CodeNotFound, "could not find password", d)
}
