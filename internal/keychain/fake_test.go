package keychain

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
)

// fakeSecurity 模拟 security 命令行工具的行为：
// find 成功时 stdout 打印属性、stderr 打印 password 行；add 已存在返回 45；不存在返回 44。
type fakeSecurity struct {
	mu    sync.Mutex
	items map[string]string
	calls [][]string

	// failDelete 非零时 delete 返回该退出码。
	failDelete int
	// alwaysDuplicate 使 add 始终返回 45。
	alwaysDuplicate bool
	// addExit 非零时 add 返回该退出码。
	addExit int
	launchErr error
}

func newFakeSecurity() *fakeSecurity {
	return &fakeSecurity{items: map[string]string{}}
}

func (f *fakeSecurity) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSecurity) subcommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	subs := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		subs = append(subs, c[0])
	}
	return subs
}

func flagValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func (f *fakeSecurity) Run(ctx context.Context, name string, args []string, stdin []byte) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), args...))
	if f.launchErr != nil {
		return Result{}, f.launchErr
	}

	sub := args[0]
	kind := "generic"
	if strings.Contains(sub, "internet") {
		kind = "internet"
	}
	account, service := flagValue(args, "-a"), flagValue(args, "-s")
	key := kind + "|" + service + "|" + account

	switch {
	case strings.HasPrefix(sub, "find-"):
		pw, ok := f.items[key]
		if !ok {
			return Result{ExitCode: 44, Stderr: []byte("security: SecKeychainSearchCopyNext: The specified item could not be found in the keychain.\n")}, nil
		}
		stdout := fmt.Sprintf("keychain: \"/Users/test/Library/Keychains/login.keychain-db\"\nclass: \"genp\"\nattributes:\n    0x00000007 <blob>=\"%s\"\n    \"acct\"<blob>=\"%s\"\n    \"svce\"<blob>=\"%s\"\n", service, account, service)
		return Result{Stdout: []byte(stdout), Stderr: []byte(passwordLine(pw))}, nil
	case strings.HasPrefix(sub, "add-"):
		if f.addExit != 0 {
			return Result{ExitCode: f.addExit}, nil
		}
		if _, ok := f.items[key]; ok || f.alwaysDuplicate {
			return Result{ExitCode: 45, Stderr: []byte("security: SecKeychainItemCreateFromContent (<default>): The specified item already exists in the keychain.\n")}, nil
		}
		f.items[key] = flagValue(args, "-w")
		return Result{}, nil
	case strings.HasPrefix(sub, "delete-"):
		if f.failDelete != 0 {
			return Result{ExitCode: f.failDelete}, nil
		}
		if _, ok := f.items[key]; !ok {
			return Result{ExitCode: 44}, nil
		}
		delete(f.items, key)
		return Result{Stdout: []byte("password has been deleted.\n")}, nil
	}
	return Result{ExitCode: 1}, nil
}

// passwordLine 模拟 security -g 的输出：可打印 ASCII 直接加引号，否则输出 0x 十六进制加八进制转义。
func passwordLine(pw string) string {
	printable := true
	for i := 0; i < len(pw); i++ {
		c := pw[i]
		if c < 0x20 || c > 0x7e || c == '"' || c == '\\' {
			printable = false
			break
		}
	}
	if printable {
		return fmt.Sprintf("password: \"%s\"\n", pw)
	}
	var esc strings.Builder
	for i := 0; i < len(pw); i++ {
		c := pw[i]
		if c < 0x20 || c > 0x7e || c == '"' || c == '\\' {
			fmt.Fprintf(&esc, "\\%03o", c)
			continue
		}
		esc.WriteByte(c)
	}
	return fmt.Sprintf("password: 0x%s  \"%s\"\n", strings.ToUpper(hex.EncodeToString([]byte(pw))), esc.String())
}

// fakeRunner 按顺序返回预设结果并记录调用。
type fakeRunner struct {
	results []Result
	errs    []error
	calls   []fakeCall
}

type fakeCall struct {
	name  string
	args  []string
	stdin []byte
}

func (r *fakeRunner) Run(ctx context.Context, name string, args []string, stdin []byte) (Result, error) {
	i := len(r.calls)
	r.calls = append(r.calls, fakeCall{name: name, args: args, stdin: stdin})
	var res Result
	var err error
	if i < len(r.results) {
		res = r.results[i]
	}
	if i < len(r.errs) {
		err = r.errs[i]
	}
	return res, err
}
