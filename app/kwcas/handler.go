// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

// CAS 登录网关, 以 Sidecar 模式保护内部服务

package kwcas

import (
	"flag"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/suisrc/zcas/z"
	"github.com/suisrc/zcas/z/zc"
	"github.com/suisrc/zcas/z/ze/cas"
	"github.com/suisrc/zcas/z/ze/gte"
	"github.com/suisrc/zcas/z/ze/gtw"
)

// 初始化方法， 处理 api 的额外配置
type InitializFunc func(api *KwcasApi, zgg *z.Zgg)

func Init() {
	Init3(nil)
}

func Init3(ifn InitializFunc) {
	zc.Register(C)

	flag.Var(zc.NewBoolPtr(&C.Kwcas.Cas.Enable), "cas", "enable cas login gate")
	flag.StringVar(&C.Kwcas.Cas.Cookie, "cascookie", cas.DefaultCookie, "cas ticket cookie name")
	flag.StringVar(&C.Kwcas.Cas.LoginURL, "caslogin", "", "cas login url")
	flag.StringVar(&C.Kwcas.Cas.ServiceURL, "casservice", "", "cas service url")
	flag.StringVar(&C.Kwcas.Upstream, "upstream", "", "default upstream addr")
	flag.StringVar(&C.Kwcas.Authz, "authz", "", "authz serve addr for ticketed request")
	flag.StringVar(&C.Kwcas.Record, "record", "", "access record, tty, file:<path>, mysql")
	flag.StringVar(&C.Kwcas.Metrics, "metrics", "metrics", "prometheus metrics path")
	flag.StringVar(&C.Kwcas.Token, "token", "", "metrics api token")

	z.Register("01-kwcas", func(zgg *z.Zgg) z.Closed {
		api, closed, err := NewKwcasApi(&C.Kwcas)
		if err != nil {
			z.Printf("[_kwcas__]: register kwcas error, %v\n", err)
			zgg.ServeStop()
			return nil
		}
		zgg.SvcKit.Set("kwcas", api)
		for _, rule := range api.Rules() {
			z.Printf("[_kwcas__]: %s\n", rule.String())
		}
		if C.Kwcas.Metrics != "" {
			z.GET(C.Kwcas.Metrics, z.TokenAuth(&C.Kwcas.Token, api.Metrics.Handle), zgg)
		}
		zgg.AddRouter("", api.ServeHTTP)
		if ifn != nil {
			ifn(api, zgg) // 初始化方法
		}
		return closed
	})
}

// ----------------------------------------------------------------------------

// 路由规则和对应的网关
type RuleGateway struct {
	*Rule
	Gateway *gtw.GatewayProxy
}

type KwcasApi struct {
	Default    *RuleGateway   // 默认网关, 可能为 nil
	RuleList   []*RuleGateway // 按照 prefix 长度倒序
	Metrics    *Metrics
	RecordPool gtw.RecordPool
	BufferPool z.BufferPool
}

// 创建网关, 返回的 Closed 用于关闭访问记录, 出错时访问记录已经关闭
func NewKwcasApi(cfg *Config) (*KwcasApi, z.Closed, error) {
	def, rules, err := BuildRules(cfg)
	if err != nil {
		return nil, nil, err
	}
	var next gtw.Authorizer
	if cfg.Authz != "" {
		if next, err = gte.NewAuthzForward(cfg.Authz); err != nil {
			return nil, nil, err
		}
	}
	api := &KwcasApi{
		Metrics:    NewMetrics(),
		BufferPool: gtw.NewBufferPool(0, 0),
	}
	pool, closed, err := gte.NewRecordPool(cfg.Record, &cfg.Mysql)
	if err != nil {
		return nil, nil, err
	}
	api.RecordPool = pool
	if err := api.newGateways(def, rules, next); err != nil {
		if closed != nil {
			closed()
		}
		return nil, nil, err
	}
	return api, closed, nil
}

func (aa *KwcasApi) newGateways(def *Rule, rules []*Rule, next gtw.Authorizer) (err error) {
	if def != nil {
		if aa.Default, err = aa.NewGateway(def, next); err != nil {
			return err
		}
	}
	for _, rule := range rules {
		rgw, err := aa.NewGateway(rule, next)
		if err != nil {
			return err
		}
		aa.RuleList = append(aa.RuleList, rgw)
	}
	return nil
}

func (aa *KwcasApi) NewGateway(rule *Rule, next gtw.Authorizer) (*RuleGateway, error) {
	gw, err := gtw.NewTargetGateway(rule.Target, aa.BufferPool)
	if err != nil {
		return nil, err
	}
	authz := gte.NewAuthzCas(cas.NewGate(rule.Config), next)
	authz.Observe = func(out *cas.Outcome) {
		aa.Metrics.ObserveDecision(rule.Name, out)
	}
	gw.ProxyName = rule.Name
	gw.Authorizer = authz
	gw.RecordPool = aa.RecordPool
	return &RuleGateway{Rule: rule, Gateway: gw}, nil
}

// 所有规则, 默认规则在最后
func (aa *KwcasApi) Rules() []*Rule {
	rules := make([]*Rule, 0, len(aa.RuleList)+1)
	for _, rgw := range aa.RuleList {
		rules = append(rules, rgw.Rule)
	}
	if aa.Default != nil {
		rules = append(rules, aa.Default.Rule)
	}
	return rules
}

// 最长前缀匹配, 没有匹配时使用默认规则
func (aa *KwcasApi) Resolve(path string) *RuleGateway {
	for _, rgw := range aa.RuleList {
		if rgw.Match(path) {
			return rgw
		}
	}
	return aa.Default
}

// ServeHTTP
func (aa *KwcasApi) ServeHTTP(zrc *z.Ctx) {
	rw := zrc.Writer
	rr := zrc.Request
	if !CanonicalPath(rr) {
		zrc.JERR(&z.Result{ErrCode: "bad-path", Message: "非法路径: " + rr.URL.RawPath}, http.StatusBadRequest)
		return
	}
	rgw := aa.Resolve(rr.URL.Path)
	if rgw == nil {
		zrc.JERR(&z.Result{ErrCode: "route-not-found", Message: "未找到路由: " + rr.URL.Path}, http.StatusNotFound)
		return
	}
	if z.IsDebug() {
		z.Printf("[_routing]: %s %s[%s] -> %s\n", zrc.Router, rgw.Name, rr.URL.Path, rgw.Target)
	}
	mt := httpsnoop.CaptureMetrics(rgw.Gateway, rw, rr)
	aa.Metrics.ObserveServe(rgw.Name, mt)
}
