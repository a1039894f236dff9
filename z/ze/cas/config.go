// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

// CAS 登录网关配置, 一次构建, 多请求只读共享

package cas

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	DefaultCookie = "CASC"
	ServiceParam  = "?service="
)

var (
	ErrConfig     = errors.New("cas config error")
	ErrIncomplete = errors.New("cas config incomplete, login_url or service_url is empty")
)

// Options 原始配置, 字段为空表示未设置, 未设置时继承上级配置
type Options struct {
	Enable     *bool  `json:"enable" env:"ENABLE"`
	Cookie     string `json:"cookie" env:"COOKIE"`
	LoginURL   string `json:"login_url" env:"LOGIN_URL"`
	ServiceURL string `json:"service_url" env:"SERVICE_URL"` // 未转义
}

// Merge 合并上级配置, 当前配置优先
func (aa Options) Merge(parent Options) Options {
	if aa.Enable == nil && parent.Enable != nil {
		enable := *parent.Enable
		aa.Enable = &enable
	}
	if aa.Cookie == "" {
		aa.Cookie = parent.Cookie
	}
	if aa.LoginURL == "" {
		aa.LoginURL = parent.LoginURL
	}
	if aa.ServiceURL == "" {
		aa.ServiceURL = parent.ServiceURL
	}
	return aa
}

// Config 生效的配置, 构建后只读
type Config struct {
	Enabled    bool
	CookieName string
	LoginURL   string
	ServiceURL string // 已转义, 可直接拼接在 ?service= 之后
}

// NewConfig 补全默认值, 转义 service url, 并校验
func NewConfig(opts Options) (*Config, error) {
	cfg := &Config{
		Enabled:    opts.Enable != nil && *opts.Enable,
		CookieName: opts.Cookie,
		LoginURL:   opts.LoginURL,
		ServiceURL: EscapeArgs(opts.ServiceURL),
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookie
	}
	if !cfg.Enabled {
		return cfg, nil
	}
	if cfg.LoginURL == "" {
		return nil, fmt.Errorf("%w: login_url is required when enabled", ErrConfig)
	}
	if cfg.ServiceURL == "" {
		return nil, fmt.Errorf("%w: service_url is required when enabled", ErrConfig)
	}
	if uri, err := url.Parse(cfg.LoginURL); err != nil {
		return nil, fmt.Errorf("%w: login_url, %s", ErrConfig, err.Error())
	} else if !uri.IsAbs() || uri.Host == "" {
		return nil, fmt.Errorf("%w: login_url must be absolute, %q", ErrConfig, cfg.LoginURL)
	}
	return cfg, nil
}

// 不会失败的构建, 用于测试或者已经校验过的配置
func MustConfig(opts Options) *Config {
	cfg, err := NewConfig(opts)
	if err != nil {
		panic(err)
	}
	return cfg
}
