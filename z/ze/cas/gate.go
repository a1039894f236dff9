// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package cas

import (
	"net/http"
)

type Decision int

const (
	Pass      Decision = iota // 未启用, 直接放行
	Ticketed                  // 存在票据 cookie, 等待后续验证, 不等于已登录
	Challenge                 // 没有票据, 重定向到 CAS 登录
	Failure                   // 内部错误
)

func (d Decision) String() string {
	switch d {
	case Pass:
		return "pass"
	case Ticketed:
		return "ticketed"
	case Challenge:
		return "challenge"
	case Failure:
		return "failure"
	}
	return "unknown"
}

// 判定结果
type Outcome struct {
	Decision Decision
	Status   int    // 建议的 http 状态码, Pass 时为 0
	Location string // Challenge 时的重定向地址
	Ticket   string // Ticketed 时的 cookie 值
	Err      error  // Failure 时的错误
}

type FindFunc func(headers []string, name string) (string, bool)

type BuildFunc func(cfg *Config, path, query string) (string, error)

// Gate 无状态, 可以被多个请求并发使用
type Gate struct {
	Config *Config
	Find   FindFunc  // 默认 FindCookie
	Build  BuildFunc // 默认 BuildLoginURL
}

func NewGate(cfg *Config) *Gate {
	return &Gate{Config: cfg, Find: FindCookie, Build: BuildLoginURL}
}

func (aa *Gate) Enabled() bool {
	return aa.Config != nil && aa.Config.Enabled
}

// Decide 对一个请求进行判定
func (aa *Gate) Decide(headers []string, path, query string) Outcome {
	if !aa.Enabled() {
		return Outcome{Decision: Pass}
	}
	find := aa.Find
	if find == nil {
		find = FindCookie
	}
	if ticket, ok := find(headers, aa.Config.CookieName); ok {
		// 只检查存在性, 票据的有效性由后续组件验证
		return Outcome{Decision: Ticketed, Status: http.StatusUnauthorized, Ticket: ticket}
	}
	build := aa.Build
	if build == nil {
		build = BuildLoginURL
	}
	location, err := build(aa.Config, path, query)
	if err != nil {
		return Outcome{Decision: Failure, Status: http.StatusInternalServerError, Err: err}
	}
	return Outcome{Decision: Challenge, Status: http.StatusFound, Location: location}
}

// DecideRequest 使用请求中的 Cookie 头, 路径和原始查询参数进行判定
func (aa *Gate) DecideRequest(rr *http.Request) Outcome {
	if !aa.Enabled() {
		return Outcome{Decision: Pass}
	}
	return aa.Decide(rr.Header.Values("Cookie"), rr.URL.Path, rr.URL.RawQuery)
}
