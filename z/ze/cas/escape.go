// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package cas

import (
	"errors"
	"strings"
)

const upperhex = "0123456789ABCDEF"

var ErrEscape = errors.New("invalid escape sequence")

// 参数值中可以原样保留的字符: 字母、数字、-_.~
func isUnreservedArg(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

// 统计需要转义的字节数
func countEscapeArgs(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if !isUnreservedArg(s[i]) {
			n++
		}
	}
	return n
}

// 将 s 作为 URL 参数值进行转义, 追加到 buf 中
// 与 url.QueryEscape 不同, 空格转为 %20, '/' '?' '&' '=' 等全部转义
func AppendEscapeArgs(buf []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedArg(c) {
			buf = append(buf, c)
		} else {
			buf = append(buf, '%', upperhex[c>>4], upperhex[c&15])
		}
	}
	return buf
}

// 转义 URL 参数值
func EscapeArgs(s string) string {
	n := countEscapeArgs(s)
	if n == 0 {
		return s
	}
	return string(AppendEscapeArgs(make([]byte, 0, len(s)+2*n), s))
}

// EscapeArgs 的逆操作, '+' 不做特殊处理
func UnescapeArgs(s string) (string, error) {
	if strings.IndexByte(s, '%') < 0 {
		return s, nil
	}
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			buf = append(buf, s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", ErrEscape
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", ErrEscape
		}
		buf = append(buf, hi<<4|lo)
		i += 2
	}
	return string(buf), nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
