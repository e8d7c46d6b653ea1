//go:build !windows

package keychain

import "runtime"

var nativeSupported = runtime.GOOS != "plan9" && runtime.GOOS != "js" && runtime.GOOS != "wasip1"

func cleanSecret(s string) string { return s }
