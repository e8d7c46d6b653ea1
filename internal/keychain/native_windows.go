//go:build windows

package keychain

import "strings"

const nativeSupported = true

// Windows 凭据以 UTF-16 存储，部分写入方会在字符间留下 null 字节。
func cleanSecret(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
