package keychain

// BuildArgs 生成 security 工具的位置参数：
//
//	find-<type>-password   -a <account> -s <service> -g
//	add-<type>-password    -a <account> -s <service> -w <password>
//	delete-<type>-password -a <account> -s <service>
func BuildArgs(op Op, req Request) []string {
	sub := string(op) + "-" + string(req.Type.orDefault()) + "-password"
	args := []string{sub, "-a", req.Account, "-s", req.Service}
	switch op {
	case OpFind:
		args = append(args, "-g")
	case OpAdd:
		args = append(args, "-w", req.Password)
	}
	return args
}

// helperAttrs 是 secret-tool 用于定位条目的属性对。
func helperAttrs(req Request) []string {
	return []string{"service", req.Service, "account", req.Account, "type", string(req.Type.orDefault())}
}

func helperLookupArgs(req Request) []string {
	return append([]string{"lookup"}, helperAttrs(req)...)
}

func helperStoreArgs(req Request) []string {
	return append([]string{"store", "--label=" + req.Service}, helperAttrs(req)...)
}

func helperClearArgs(req Request) []string {
	return append([]string{"clear"}, helperAttrs(req)...)
}
