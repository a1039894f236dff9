// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package zc

import (
	"os"
	"strings"
	"sync"
)

var (
	host_name_ = sync.OnceValue(func() string {
		name, _ := os.Hostname()
		if name == "" {
			name = "localhost"
		}
		return name
	})
	namespace_ = sync.OnceValue(func() string {
		ns, err := os.ReadFile("/var/run/secrets/kubernetes.io/serviceaccount/namespace")
		if err != nil {
			return "-" // 不是 k8s
		}
		return strings.TrimSpace(string(ns))
	})
)

// 获取主机名
func GetHostname() string {
	return host_name_()
}

// 获取 k8s 命名空间, 非 k8s 环境返回 "-"
func GetNamespace() string {
	return namespace_()
}
