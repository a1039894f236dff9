// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

// 反向代理网关, 在转发之前执行鉴权, 并记录访问日志

package gtw

import (
	"context"
	"net/http"
	"net/http/httptrace"
	"net/http/httputil"

	"github.com/felixge/httpsnoop"
	"github.com/suisrc/zcas/z"
)

type IGateway interface {
	GetProxyName() string
	Logf(format string, args ...any)
}

// 鉴权接口, 返回 false 时, 响应已经由 Authorizer 写出, 请求不再转发
type Authorizer interface {
	Authz(gw IGateway, rw http.ResponseWriter, rr *http.Request, rt IRecord) bool
}

type AuthorizerFunc func(gw IGateway, rw http.ResponseWriter, rr *http.Request, rt IRecord) bool

func (fn AuthorizerFunc) Authz(gw IGateway, rw http.ResponseWriter, rr *http.Request, rt IRecord) bool {
	return fn(gw, rw, rr, rt)
}

var _ IGateway = (*GatewayProxy)(nil)

type GatewayProxy struct {
	httputil.ReverseProxy
	ProxyName  string
	RecordPool RecordPool // 请求追踪
	Authorizer Authorizer // 权限认证
}

type recordKey struct{}

// 获取请求上下文中的访问记录
func RecordFrom(ctx context.Context) IRecord {
	if rt, ok := ctx.Value(recordKey{}).(IRecord); ok {
		return rt
	}
	return nil
}

func (p *GatewayProxy) GetProxyName() string {
	if p.ProxyName == "" {
		return "gateway-proxy"
	}
	return p.ProxyName
}

func (p *GatewayProxy) Logf(format string, args ...any) {
	if p.ErrorLog != nil {
		p.ErrorLog.Printf(format, args...)
	} else {
		z.Printf("[_gateway]: "+format+"\n", args...)
	}
}

func (p *GatewayProxy) NewRecord() IRecord {
	if p.RecordPool == nil {
		return nil
	}
	return p.RecordPool.Get()
}

func (p *GatewayProxy) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	record := p.NewRecord()
	if record == nil {
		p.serve(rw, req, nil)
		return
	}
	defer record.Recycle()
	record.LogRequest(req)
	record.SetRule(p.GetProxyName())
	// 记录鉴权和代理写出的状态码和长度
	mt := httpsnoop.CaptureMetricsFn(rw, func(ww http.ResponseWriter) {
		p.serve(ww, req, record)
	})
	record.LogResult(mt.Code, mt.Written)
}

func (p *GatewayProxy) serve(rw http.ResponseWriter, req *http.Request, record IRecord) {
	// ==== authentication ====>>>
	if p.Authorizer != nil && !p.Authorizer.Authz(p, rw, req, record) {
		return // failed
	}
	// ==== authentication ====<<<
	if record != nil {
		ctx := context.WithValue(req.Context(), recordKey{}, record)
		ctx = httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
			ConnectStart: func(network, addr string) {
				record.SetUpstream(addr) // record upstream address
			},
		})
		req = req.WithContext(ctx)
	}
	p.ReverseProxy.ServeHTTP(rw, req)
}

// 默认的错误处理, 记录错误并响应 502
func (p *GatewayProxy) ErrorHandler0(rw http.ResponseWriter, req *http.Request, err error) {
	p.Logf("%s %s, %v", req.Method, req.URL.String(), err)
	if rt := RecordFrom(req.Context()); rt != nil {
		rt.SetRespBody("###error gateway, " + err.Error())
	}
	rw.WriteHeader(http.StatusBadGateway)
}
