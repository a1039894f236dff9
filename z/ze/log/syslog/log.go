// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

// 默认系统只提供向 tty 发送日志 和 syslog 发送日志
// 对于想使用文件保存日志的，可以重置 Log 完成

package logsyslog

import (
	"strings"
	"sync"

	"github.com/racksec/srslog"
	"github.com/suisrc/zcas/z"
	"github.com/suisrc/zcas/z/zc"
)

// 日志 通过 syslog 发送

func init() {
	// 注册初始化Logger方法
	zc.InitLoggerFn = InitLoggerBySysLog
}

// 配置格式 [network://]host:port, network 支持 udp, tcp, tcp+tls
func InitLoggerBySysLog() {
	if zc.C.Syslog == "" {
		return // 不进行初始化
	}
	net, addr, found := strings.Cut(zc.C.Syslog, "://")
	if !found {
		net, addr = "udp", zc.C.Syslog
	}
	zc.Log = NewLoggerSyslog(addr, net, 0, zc.C.LogTty)
}

func NewLoggerSyslog(addr, net string, pir srslog.Priority, tty bool) zc.Logger {
	logger := &lSyslog{
		Network:  net,
		Address:  addr,
		Priority: pir,
		PrintTty: tty,
	}
	logger._pool.New = func() any { return new([]byte) }
	return logger.Init()
}

type lSyslog struct {
	Network  string          // udp/tcp/tcp+tls
	Address  string          // 127.0.0.1:5141
	Priority srslog.Priority // local0.info
	TagInfo  string          // app.ns， 应用.空间
	PrintTty bool            // 同步终端输出

	// srslog.Writer 写失败时会自动重连, 本身有锁
	_klog *srslog.Writer
	_pool sync.Pool
}

func (r *lSyslog) Init() *lSyslog {
	if r.Network == "" {
		r.Network = "udp"
	}
	if r.Address == "" {
		return r // 忽略日志远程输出
	}
	if r.Priority <= 0 {
		r.Priority = srslog.LOG_LOCAL0 | srslog.LOG_INFO
	}
	if r.TagInfo == "" {
		r.TagInfo = z.AppName
		if ns := zc.GetNamespace(); ns != "-" {
			r.TagInfo += "." + ns
		}
	}
	klog, err := srslog.Dial(r.Network, r.Address, r.Priority, r.TagInfo)
	if err != nil {
		zc.Printl0("[_lsyslog]:", "unable to connect to syslog:", err.Error())
		return r
	}
	klog.SetFormatter(srslog.RFC5424Formatter)
	r._klog = klog
	zc.Printl0("[_lsyslog]:", "connect to syslog:", r.Network, r.Address)
	return r
}

func (r *lSyslog) Output(depth int, appbuf func([]byte) []byte) error {
	buf := zc.GetBuffer(&r._pool)
	if zc.LogTrackFile && depth > 0 {
		*buf = zc.AppendCaller(*buf, depth+1)
		*buf = append(*buf, ']', ' ')
	}
	*buf = appbuf(*buf) // 在当前 goroutine 中格式化, 防止参数在发送前被修改
	go r._output(buf)
	return nil
}

func (r *lSyslog) _output(buf *[]byte) {
	defer zc.PutBuffer(&r._pool, buf)
	for len(*buf) > 0 && (*buf)[len(*buf)-1] == '\n' {
		*buf = (*buf)[:len(*buf)-1]
	}
	if r._klog == nil {
		zc.Printl0(string(*buf))
		return // 降级到终端输出
	}
	if r.PrintTty {
		zc.Printl0(string(*buf)) // 同步在终端输出
	}
	if err := r._klog.Info(string(*buf)); err != nil {
		zc.Printl0("[_lsyslog]:", "unable to write to syslog:", err.Error())
	}
}
