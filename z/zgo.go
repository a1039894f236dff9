// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package z

import (
	"cmp"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

var (
	AppName = "zcas"
	Version = "v0.0.0"
	AppInfo = "(https://github.com/suisrc/zcas)"

	HttpServeDef = true // 启动默认 http 服务?
)

func PrintVersion() {
	println(AppName, Version, AppInfo)
}

func RegisterDefaultHttpServe(zgg *Zgg) Closed {
	if !HttpServeDef {
		return nil // 不启动默认服务
	}
	if C.Server.Local {
		C.Server.Addr = "127.0.0.1"
	}
	if C.Server.Ptls > 0 && zgg.TLSConf != nil {
		addr := fmt.Sprintf("%s:%d", C.Server.Addr, C.Server.Ptls)
		zgg.Servers["(HTTPS)"] = &http.Server{Handler: zgg, Addr: addr, TLSConfig: zgg.TLSConf}
	}
	if C.Server.Port > 0 && (zgg.TLSConf == nil || C.Server.Dual) {
		addr := fmt.Sprintf("%s:%d", C.Server.Addr, C.Server.Port)
		zgg.Servers["(HTTP1)"] = &http.Server{Handler: zgg, Addr: addr}
	}
	zgg.AddRouter("healthz", Healthz) // 默认注册健康检查
	return nil
}

// -----------------------------------------------------------------------------------

// 健康检查接口
func Healthz(ctx *Ctx) {
	ctx.JSON(&Result{Success: true, Data: time.Now().Format("2006-01-02 15:04:05")})
}

// -----------------------------------------------------------------------------------

func GetRemoteIP(req *http.Request) string {
	if ip := req.Header.Get("X-Forwarded-For"); ip != "" {
		ip = strings.TrimSpace(strings.Split(ip, ",")[0])
		if ip == "" {
			ip = strings.TrimSpace(req.Header.Get("X-Real-Ip"))
		}
		if ip != "" {
			return ip
		}
	}
	if ip, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr)); err == nil {
		return ip
	}
	return ""
}

// request token auth
func TokenAuth(token *string, handle HandleFunc) HandleFunc {
	// 需要验证令牌
	return func(ctx *Ctx) {
		if token == nil || *token == "" {
			handle(ctx) // auth pass
		} else if ktn := ctx.Request.Header.Get("Authorization"); ktn == "Token "+*token {
			handle(ctx) // auth succ
		} else {
			ctx.JERR(&Result{ErrCode: "invalid-token", Message: "无效的令牌"}, http.StatusUnauthorized)
		}
	}
}

// -----------------------------------------------------------------------------------
// -----------------------------------------------------------------------------------

// 创建指针
func Ptr[T any](v T) *T {
	return &v
}

// 键值对
type Ref[K cmp.Ordered, T any] struct {
	Key K
	Val T
}

type BufferPool interface {
	Get() []byte
	Put([]byte)
}

// NewBufferPool 初始化缓冲池
// defCap: 新缓冲区的默认容量（如32KB）
// maxCap: 允许归还的最大容量（如1MB）
func NewBufferPool(defCap, maxCap int) BufferPool {
	if defCap <= 0 {
		defCap = 32 * 1024
	}
	if maxCap <= 0 {
		maxCap = 1024 * 1024
	}
	return &BufferPool0{
		defCap: defCap,
		maxCap: maxCap,
		pool: &sync.Pool{
			New: func() any { return make([]byte, defCap) },
		},
	}
}

// BufferPool0 字节缓冲池, httputil.BufferPool 的实现
type BufferPool0 struct {
	pool   *sync.Pool
	maxCap int // 允许归还的最大缓冲区容量
	defCap int // 新创建缓冲区的默认容量
}

func (p *BufferPool0) Get() []byte {
	return p.pool.Get().([]byte)
}

// 容量超过 maxCap 或者小于 defCap 的缓冲区直接丢弃
func (p *BufferPool0) Put(buf []byte) {
	if cap(buf) > p.maxCap || cap(buf) < p.defCap {
		return
	}
	p.pool.Put(buf[:p.defCap])
}
