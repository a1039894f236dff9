// Copyright 2025 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package zc

import (
	"flag"
	"strconv"
	"strings"
)

var _ flag.Value = (*BoolVal)(nil)

type BoolVal bool

func (aa *BoolVal) Set(value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*aa = BoolVal(v)
	return nil
}

func (aa *BoolVal) String() string {
	if aa == nil {
		return "false"
	}
	return strconv.FormatBool(bool(*aa))
}

func (aa *BoolVal) IsBoolFlag() bool {
	return true
}

func NewBoolVal(p *bool) *BoolVal {
	return (*BoolVal)(p)
}

// -----------------------------------------------------

var _ flag.Value = (*BoolPtr)(nil)

// 三态 bool, 未设置时为 nil, 用于区分 "未配置" 与 "false"
type BoolPtr struct {
	p **bool
}

func (aa *BoolPtr) Set(value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*aa.p = &v
	return nil
}

func (aa *BoolPtr) String() string {
	if aa == nil || aa.p == nil || *aa.p == nil {
		return ""
	}
	return strconv.FormatBool(**aa.p)
}

func (aa *BoolPtr) IsBoolFlag() bool {
	return true
}

func NewBoolPtr(p **bool) *BoolPtr {
	return &BoolPtr{p: p}
}

// -----------------------------------------------------

var _ flag.Value = (*StrVal)(nil)

type StrVal string

func (aa *StrVal) Set(value string) error {
	*aa = StrVal(value)
	return nil
}

func (aa *StrVal) String() string {
	if aa == nil {
		return ""
	}
	return string(*aa)
}

func NewStrVal(p *string, val string) *StrVal {
	*p = val
	return (*StrVal)(p)
}

// -----------------------------------------------------

var _ flag.Value = (*StrArr)(nil)

type StrArr []string

func (aa *StrArr) Set(value string) error {
	if value != "" {
		*aa = strings.Split(value, ",")
	}
	return nil
}

func (aa *StrArr) String() string {
	if aa == nil {
		return ""
	}
	return strings.Join(*aa, ",")
}

func NewStrArr(p *[]string, val []string) *StrArr {
	*p = val
	return (*StrArr)(p)
}

// -----------------------------------------------------

var _ flag.Value = (*StrMap)(nil)

type StrMap map[string]string

func (aa *StrMap) Set(value string) error {
	if *aa == nil {
		*aa = map[string]string{}
	}
	for vv := range strings.SplitSeq(value, ",") {
		if vv == "" {
			continue
		}
		kk, vv, _ := strings.Cut(vv, "=")
		(*aa)[kk] = vv
	}
	return nil
}

func (aa *StrMap) String() string {
	if aa == nil {
		return ""
	}
	var str string
	for k, v := range *aa {
		str += "," + k + "=" + v
	}
	if str != "" {
		str = str[1:]
	}
	return str
}

func NewStrMap(p *map[string]string, val map[string]string) *StrMap {
	*p = val
	return (*StrMap)(p)
}
