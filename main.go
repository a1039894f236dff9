package main

import (
	_ "embed"
	"strings"

	"github.com/suisrc/zcas/app/kwcas"
	_ "github.com/suisrc/zcas/cmd"
	"github.com/suisrc/zcas/z"
	_ "github.com/suisrc/zcas/z/ze/log/syslog"
)

//go:embed vname
var app_ []byte

//go:embed version
var ver_ []byte

func main() {
	_app := strings.TrimSpace(string(app_))
	_ver := strings.TrimSpace(string(ver_))
	// zc.C.Syslog, zc.C.LogTty = "udp://klog.default.svc:5141", true
	// zc.LogTrackFile = true // 启动日志追踪， 显示打印日志的位置

	kwcas.Init() // CAS 登录网关， 通过 Sidecar 模式保护内部服务

	z.Execute(_app, _ver, "(https://github.com/suisrc/zcas.git)")
}
