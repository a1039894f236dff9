// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package gte

import (
	"context"
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/suisrc/zcas/z/zc"
	"github.com/suisrc/zcas/z/ze/gtw"
)

// 鉴权器, 转发到远程鉴权服务器验证
// 远程服务返回 2xx 时放行, X-Auth- 开头的响应头传递给上游, 否则将远程响应返回给客户端
func NewAuthzForward(authz string) (*AuthzForward, error) {
	if _, err := url.Parse(authz); err != nil {
		return nil, err
	}
	return &AuthzForward{
		AuthzServe: authz,
		Timeout:    3 * time.Second,
		client: &http.Client{
			Timeout:   5 * time.Second,
			Transport: gtw.TransportGtw0,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

var _ gtw.Authorizer = (*AuthzForward)(nil)

type AuthzForward struct {
	AuthzServe string        // 验证服务器
	Timeout    time.Duration // 验证超时
	client     *http.Client  // 请求客户端
}

func (aa *AuthzForward) Authz(gw gtw.IGateway, rw http.ResponseWriter, rr *http.Request, rt gtw.IRecord) bool {
	ctx, cancel := context.WithTimeout(rr.Context(), aa.Timeout)
	defer cancel() // 验证需要在限定时间内完成，以防止后面业务阻塞
	// -------- 处理远程验证 --------
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, aa.AuthzServe, nil)
	if err != nil {
		aa.fail(gw, rw, rt, http.StatusInternalServerError, "new request, "+err.Error())
		return false
	}
	for kk, vv := range rr.Header {
		req.Header[kk] = vv
	}
	req.Header.Set("X-Forwarded-Host", rr.Host)
	req.Header.Set("X-Forwarded-Uri", rr.URL.RequestURI())
	req.Header.Set("X-Forwarded-Method", rr.Method)
	resp, err := aa.client.Do(req)
	if err != nil {
		aa.fail(gw, rw, rt, http.StatusBadGateway, "request authz serve, "+err.Error())
		return false
	}
	defer resp.Body.Close()
	// -------- 处理验证结果 --------
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		for kk, vv := range resp.Header {
			if zc.HasPrefixFold(kk, "X-Auth-") {
				rr.Header[kk] = vv
			}
		}
		return true
	}
	// 验证失败，返回结果
	dst := rw.Header()
	hop := hopHeaders(resp.Header)
	for kk, vv := range resp.Header {
		if zc.EqualFold(kk, "Content-Length") || hop[http.CanonicalHeaderKey(kk)] {
			continue
		}
		for _, v := range vv {
			dst.Add(kk, v)
		}
	}
	rw.WriteHeader(resp.StatusCode)
	io.Copy(rw, resp.Body)
	return false
}

func (aa *AuthzForward) fail(gw gtw.IGateway, rw http.ResponseWriter, rt gtw.IRecord, code int, msg string) {
	msg = "error in authzforward, " + msg
	gw.Logf("%s", msg)
	if rt != nil {
		rt.SetRespBody("###" + msg)
	}
	rw.WriteHeader(code)
}

// 逐跳头, 不能转发给客户端
var hopByHopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// 包含 Connection 中声明的头
func hopHeaders(hh http.Header) map[string]bool {
	hop := make(map[string]bool, len(hopByHopHeaders))
	for _, kk := range hopByHopHeaders {
		hop[kk] = true
	}
	for _, vv := range hh["Connection"] {
		for kk := range strings.SplitSeq(vv, ",") {
			if kk = textproto.TrimString(kk); kk != "" {
				hop[http.CanonicalHeaderKey(kk)] = true
			}
		}
	}
	return hop
}
