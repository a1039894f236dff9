// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package gtw

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/suisrc/zcas/z"
)

/*

// 代理规则：
// /~/ 开头的，使用 a 地址完全取代; /xx/zz -> /~/vv = /vv
// /-/ 开头的，使用 a 地址截取 b 地址; /xx/zz -> /-/xx = /zz
// 其他形式，使用 a 地址合并 b 地址; /xx/zz -> /vv = /vv/xx/zz

*/

var (
	GetRemoteIP   = z.GetRemoteIP
	NewBufferPool = z.NewBufferPool

	// default's transport for gtw
	TransportGtw0 = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

)

// 创建转发到 target 的网关, pool 为 nil 时使用默认的缓冲池
func NewTargetGateway(target_ string, pool z.BufferPool) (*GatewayProxy, error) {
	target, err := url.Parse(target_)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		pool = NewBufferPool(0, 0)
	}
	gw := &GatewayProxy{}
	gw.Director = func(req *http.Request) {
		RewriteRequestURL2(req, target)
		if rt := RecordFrom(req.Context()); rt != nil {
			rt.LogOutRequest(req)
		}
	}
	gw.BufferPool = pool
	gw.Transport = TransportGtw0
	gw.ErrorHandler = gw.ErrorHandler0
	return gw, nil
}

func RewriteRequestURL2(req *http.Request, target *url.URL) {
	targetQuery := target.RawQuery
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	req.URL.Path, req.URL.RawPath = JoinURLPath2(target, req.URL)
	if targetQuery == "" || req.URL.RawQuery == "" {
		req.URL.RawQuery = targetQuery + req.URL.RawQuery
	} else {
		req.URL.RawQuery = targetQuery + "&" + req.URL.RawQuery
	}
	if z.IsDebug() {
		z.Println("[_gateway]: rewrite request url,", req.URL.String())
	}
}

// /~/ 开头的，使用 a 地址完全取代; /xx/zz -> /~/vv = /vv
// /-/ 开头的，使用 a 地址截取 b 地址; /xx/zz -> /-/xx = /zz
// 其他形式合并; /xx/zz -> /vv = /vv/xx/zz
func JoinURLPath2(a, b *url.URL) (path, rawpath string) {
	if strings.HasPrefix(a.Path, "/~/") {
		if a.RawPath == "" {
			return a.Path[2:], ""
		}
		return a.Path[2:], a.RawPath[2:]
	}
	if strings.HasPrefix(a.Path, "/-/") {
		if a.RawPath == "" {
			return strings.TrimPrefix(b.Path, a.Path[2:]), ""
		}
		return strings.TrimPrefix(b.Path, a.Path[2:]), //
			strings.TrimPrefix(b.RawPath, a.RawPath[2:])
	}
	// 当 URL 路径仅包含合法字符时，RawPath 会为空
	if a.RawPath == "" && b.RawPath == "" {
		aslash := strings.HasSuffix(a.Path, "/")
		bslash := strings.HasPrefix(b.Path, "/")
		switch {
		case aslash && bslash:
			return a.Path + b.Path[1:], ""
		case !aslash && !bslash:
			return a.Path + "/" + b.Path, ""
		}
		return a.Path + b.Path, ""
	}
	apath := a.EscapedPath()
	bpath := b.EscapedPath()

	aslash := strings.HasSuffix(apath, "/")
	bslash := strings.HasPrefix(bpath, "/")

	switch {
	case aslash && bslash:
		return a.Path + b.Path[1:], apath + bpath[1:]
	case !aslash && !bslash:
		return a.Path + "/" + b.Path, apath + "/" + bpath
	}
	return a.Path + b.Path, apath + bpath
}
