// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package kwcas

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/suisrc/zcas/z/ze/cas"
	"github.com/suisrc/zcas/z/ze/gte"
)

var (
	C = new(struct {
		Kwcas Config `json:"kwcas" envPrefix:"KWCAS_"`
	})

	ErrRoute = errors.New("kwcas route error")
)

type Config struct {
	Cas      cas.Options     `json:"cas" envPrefix:"CAS_"` // 服务级 CAS 配置, 路由未设置时继承
	Upstream string          `json:"upstream" env:"UPSTREAM"`
	Routes   []Route         `json:"routes" envPrefix:"ROUTES_"`
	Authz    string          `json:"authz" env:"AUTHZ"`   // 存在票据时的远程鉴权地址
	Record   string          `json:"record" env:"RECORD"` // tty, file:<path>, mysql
	Mysql    gte.MysqlConfig `json:"mysql" envPrefix:"MYSQL_"`
	Metrics  string          `json:"metrics" env:"METRICS"` // 指标接口地址
	Token    string          `json:"token" env:"TOKEN"`     // 指标接口令牌
}

// 路由规则, 按照 prefix 匹配请求路径
type Route struct {
	Name   string      `json:"name" env:"NAME"`
	Prefix string      `json:"prefix" env:"PREFIX"`
	Target string      `json:"target" env:"TARGET"` // 为空时使用 upstream
	Cas    cas.Options `json:"cas" envPrefix:"CAS_"`
}

// 生效的路由规则
type Rule struct {
	Name   string
	Prefix string
	Target string
	Config *cas.Config
}

func (rr *Rule) String() string {
	cc := rr.Config
	return fmt.Sprintf("%s: %s -> %s, cas=%v cookie=%s login=%s service=%s",
		rr.Name, rr.Prefix, rr.Target, cc.Enabled, cc.CookieName, cc.LoginURL, cc.ServiceURL)
}

// 匹配路径, 前缀需要在路径分隔符处结束, /api 匹配 /api 和 /api/x, 不匹配 /apix
func (rr *Rule) Match(path string) bool {
	if !strings.HasPrefix(path, rr.Prefix) {
		return false
	}
	return len(path) == len(rr.Prefix) || strings.HasSuffix(rr.Prefix, "/") || path[len(rr.Prefix)] == '/'
}

// 规范化路径, 合并重复的 '/', 处理 '.' 和 '..', 保留结尾的 '/'
func CleanPath(pp string) string {
	if pp == "" {
		return "/"
	}
	if pp[0] != '/' {
		pp = "/" + pp
	}
	np := path.Clean(pp)
	if pp[len(pp)-1] == '/' && np != "/" {
		np += "/"
	}
	return np
}

// 在路由前规范化请求路径, 路由, 登录回调和上游使用同一路径
// 路径中包含编码的 '/' 时无法确定分段, 返回 false
func CanonicalPath(rr *http.Request) bool {
	if strings.Contains(strings.ToLower(rr.URL.RawPath), "%2f") {
		return false
	}
	if np := CleanPath(rr.URL.Path); np != rr.URL.Path {
		rr.URL.Path, rr.URL.RawPath = np, ""
	}
	return true
}

// 构建所有规则, 第一个返回值为默认规则, upstream 为空时没有默认规则
// 其余规则按照 prefix 长度倒序排列, 最长匹配优先
func BuildRules(cfg *Config) (*Rule, []*Rule, error) {
	if cfg.Upstream == "" && len(cfg.Routes) == 0 {
		return nil, nil, fmt.Errorf("%w: upstream and routes are empty", ErrRoute)
	}
	var def *Rule
	if cfg.Upstream != "" {
		rule, err := NewRule(Route{Name: "default", Prefix: "/", Target: cfg.Upstream}, cfg)
		if err != nil {
			return nil, nil, err
		}
		def = rule
	}
	rules := make([]*Rule, 0, len(cfg.Routes))
	for idx, route := range cfg.Routes {
		if route.Name == "" {
			route.Name = fmt.Sprintf("route%d", idx)
		}
		rule, err := NewRule(route, cfg)
		if err != nil {
			return nil, nil, err
		}
		if slices.ContainsFunc(rules, func(r *Rule) bool { return r.Prefix == rule.Prefix }) {
			return nil, nil, fmt.Errorf("%w: %s, duplicate prefix %s", ErrRoute, rule.Name, rule.Prefix)
		}
		rules = append(rules, rule)
	}
	slices.SortStableFunc(rules, func(a, b *Rule) int { return len(b.Prefix) - len(a.Prefix) })
	return def, rules, nil
}

// 构建单个规则, 路由的 CAS 配置继承服务配置
func NewRule(route Route, cfg *Config) (*Rule, error) {
	if route.Prefix == "" || route.Prefix[0] != '/' {
		return nil, fmt.Errorf("%w: %s, prefix must start with '/'", ErrRoute, route.Name)
	}
	if CleanPath(route.Prefix) != route.Prefix {
		return nil, fmt.Errorf("%w: %s, prefix %s is not clean", ErrRoute, route.Name, route.Prefix)
	}
	if route.Target == "" {
		route.Target = cfg.Upstream
	}
	if route.Target == "" {
		return nil, fmt.Errorf("%w: %s, target is empty", ErrRoute, route.Name)
	}
	if _, err := url.Parse(route.Target); err != nil {
		return nil, fmt.Errorf("%w: %s, target %v", ErrRoute, route.Name, err)
	}
	conf, err := cas.NewConfig(route.Cas.Merge(cfg.Cas))
	if err != nil {
		return nil, fmt.Errorf("%w: %s, %w", ErrRoute, route.Name, err)
	}
	return &Rule{Name: route.Name, Prefix: route.Prefix, Target: route.Target, Config: conf}, nil
}
