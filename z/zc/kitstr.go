// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

// 字符/字符串操作

package zc

import (
	"encoding/json"
	mrand "math/rand"
	"reflect"
	"runtime"
	"strings"
)

func EqualFold(s, t string) bool {
	if len(s) != len(t) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if ToLowerB(s[i]) != ToLowerB(t[i]) {
			return false
		}
	}
	return true
}

func HasPrefixFold(s, t string) bool {
	if len(s) < len(t) {
		return false
	}
	return EqualFold(s[:len(t)], t)
}

func ToLowerB(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// ToStr2 ...
func ToStr2(aa any) string {
	if bts, err := json.MarshalIndent(aa, "", "  "); err != nil {
		return "<json marshal error>: " + err.Error()
	} else {
		return string(bts)
	}
}

// 随机生成字符串， 0~f, 前缀为 bb
func GenStr(bb string, ll int) string {
	str := []byte("0123456789abcdef")
	buf := make([]byte, ll-len(bb))
	for i := range buf {
		buf[i] = str[mrand.Intn(len(str))]
	}
	return bb + string(buf)
}

// 函数名称, pkg.Func
func GetFuncInfo(obj any) string {
	if obj == nil {
		return "<nil>"
	}
	fn := runtime.FuncForPC(reflect.ValueOf(obj).Pointer())
	if fn == nil {
		return "<nfn>"
	}
	name := fn.Name()
	if idx := strings.LastIndexByte(name, '/'); idx > 0 {
		name = name[idx+1:]
	}
	return name
}
