package keychain

import (
	"encoding/hex"
	"regexp"

	"github.com/zx06/keychain/internal/errors"
)

var (
	passwordLineRe = regexp.MustCompile(`(?m)^password:.*$`)
	// 0x 之前同一行不得出现双引号：引号内的 "0x..." 是字面量。
	hexTokenRe = regexp.MustCompile(`(?m)^[^"\n]*?\b0x([0-9A-Fa-f]+)`)
	quotedRe   = regexp.MustCompile(`"(.*?)"`)
)

// ParseSecret 从 find 调用的输出中提取密码：
//  1. 若存在 "password:" 行，只在该行内查找；
//  2. 未加引号的 0x<hex> 优先，按十六进制解码（覆盖非 ASCII 及被转义的字符）；
//  3. 否则取第一个双引号内的内容（非贪婪）；
//  4. 都没有则 NotFound。
func ParseSecret(out []byte) (string, error) {
	text := out
	if line := passwordLineRe.Find(out); line != nil {
		text = line
	}

	if m := hexTokenRe.FindSubmatch(text); m != nil {
		if b, err := hex.DecodeString(string(m[1])); err == nil {
			return string(b), nil
		}
	}

	if m := quotedRe.FindSubmatch(text); m != nil {
		return string(m[1]), nil
	}

	return "", errors.New(errors.CodeNotFound, "no password in secret store output", nil)
}
