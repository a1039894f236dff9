// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package gte

import (
	"net/http"

	"github.com/suisrc/zcas/z/ze/cas"
	"github.com/suisrc/zcas/z/ze/gtw"
)

// 鉴权器, CAS 登录网关
// 没有票据 cookie 时重定向到 CAS 登录页面, 存在票据时交给 next 处理, next 为 nil 时响应 401
func NewAuthzCas(gate *cas.Gate, next gtw.Authorizer) *AuthzCas {
	return &AuthzCas{Gate: gate, Next: next}
}

var _ gtw.Authorizer = (*AuthzCas)(nil)

type AuthzCas struct {
	Gate *cas.Gate
	Next gtw.Authorizer
	// 决策观察者, 用于统计
	Observe func(out *cas.Outcome)
}

func (aa *AuthzCas) Authz(gw gtw.IGateway, rw http.ResponseWriter, rr *http.Request, rt gtw.IRecord) bool {
	out := aa.Gate.DecideRequest(rr)
	if rt != nil {
		rt.SetAuthz("cas:" + out.Decision.String())
	}
	if aa.Observe != nil {
		aa.Observe(&out)
	}
	switch out.Decision {
	case cas.Pass:
		return true
	case cas.Challenge:
		rw.Header().Set("Location", out.Location)
		rw.WriteHeader(out.Status)
		return false
	case cas.Ticketed:
		if aa.Next != nil {
			return aa.Next.Authz(gw, rw, rr, rt)
		}
		rw.WriteHeader(out.Status)
		return false
	}
	msg := "error in authzcas, build login url, "
	if out.Err != nil {
		msg += out.Err.Error()
	}
	gw.Logf("%s", msg)
	if rt != nil {
		rt.SetRespBody("###" + msg)
	}
	rw.WriteHeader(http.StatusInternalServerError)
	return false
}
