// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package cas

import (
	"strings"
)

// ASCII 空白字符: ' ' \t \n \v \f \r
func isSpace(c byte) bool {
	return c == ' ' || ('\t' <= c && c <= '\r')
}

// FindCookie 在多个 Cookie 头中查找 name 对应的值, 第一个匹配的生效
// headers 中每一项是一个完整的 Cookie 头, 形如 "a=1; b=2"
// 不做 unquote/unescape, 名称区分大小写, 返回值总是独立的副本
func FindCookie(headers []string, name string) (string, bool) {
	for _, line := range headers {
		if val, ok := findCookie(line, name); ok {
			return val, true
		}
	}
	return "", false
}

func findCookie(line, name string) (string, bool) {
	start, end := 0, len(line)
	for start < end {
		for start < end && isSpace(line[start]) {
			start++ // 跳过前导空白
		}
		eq := strings.IndexByte(line[start:], '=')
		if eq < 0 {
			return "", false // 放弃该行
		}
		eq += start
		val := eq + 1
		semi := strings.IndexByte(line[val:], ';')
		if semi >= 0 {
			semi += val
		}
		if line[start:eq] == name {
			if semi < 0 {
				return strings.Clone(line[val:]), true
			}
			return strings.Clone(line[val:semi]), true
		}
		if semi < 0 {
			return "", false
		}
		start = semi + 1
	}
	return "", false
}
