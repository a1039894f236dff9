// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package cas

// 最坏情况下的长度, 每个字节都转义为 %XX
func LoginURLCap(cfg *Config, path, query string) int {
	return len(cfg.LoginURL) + len(ServiceParam) + len(cfg.ServiceURL) +
		3*len(path) + 3 + 3*len(query)
}

// BuildLoginURL 构建 CAS 登录地址:
// login_url?service=<service_url><escape(path)>[%3F<escape(query)>]
// path 与 query 作为 service 参数值的一部分, 按参数规则转义
func BuildLoginURL(cfg *Config, path, query string) (string, error) {
	if cfg == nil || cfg.LoginURL == "" || cfg.ServiceURL == "" {
		return "", ErrIncomplete
	}
	buf := make([]byte, 0, LoginURLCap(cfg, path, query))
	buf = append(buf, cfg.LoginURL...)
	buf = append(buf, ServiceParam...)
	buf = append(buf, cfg.ServiceURL...)
	buf = AppendEscapeArgs(buf, path)
	if query != "" {
		buf = append(buf, "%3F"...) // '?'
		buf = AppendEscapeArgs(buf, query)
	}
	return string(buf), nil
}
