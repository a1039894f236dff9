// Copyright 2025 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package zc

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"sigs.k8s.io/yaml"
)

func init() {
	Register(C)
}

var (
	// C 全局配置(需要先执行 LoadConfig，否则拿不到配置)
	C = new(Config)
	// cs 配置对象集合
	cs = map[string]any{}
	// ks 注册顺序
	ks = []string{}
)

// Config 配置参数
type Config struct {
	Debug  bool   `json:"debug" env:"DEBUG"`
	Print  bool   `json:"printconfig" env:"PRINTCONFIG"`
	Syslog string `json:"syslog" env:"SYSLOG"` // udp://127.0.0.1:5141
	LogTty bool   `json:"logtty" env:"LOGTTY"` // 使用 syslog 时同步输出到终端
}

var (
	CFG_ENV = "zcas" // 自定义环境变量前缀, ZCAS_XXX
	load    sync.Once
)

// --------------------------------------------------------------------------------

// Register 注册配置对象, c 必须是指针, 通过 json 标签绑定文件配置, env 标签绑定环境变量
func Register(c any) {
	ctype := reflect.TypeOf(c)
	if ctype.Kind() != reflect.Pointer {
		panic("z/zc: Register c(arg) must be pointer")
	}
	key := fmt.Sprintf("%v.%p", ctype.Elem(), c)
	if _, ok := cs[key]; !ok {
		ks = append(ks, key)
	}
	cs[key] = c
}

// LoadConfig 加载配置, 优先级: 环境变量 > 配置文件(按顺序覆盖) > 命令行默认值
// cfs 多个文件使用 ',' 分割, 支持 yaml 和 json
func LoadConfig(cfs string) {
	load.Do(func() {
		if err := LoadConfigTo(cfs, cs, ks); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	})
	InitLoggerFn()
	if C.Print {
		for _, name := range ks {
			println("--------" + name)
			println(ToStr2(cs[name]))
		}
		println("----------------------------------------------")
	}
}

// LoadConfigTo 加载配置到指定的配置集合中
func LoadConfigTo(cfs string, confs map[string]any, keys []string) error {
	datas := [][]byte{}
	for fpath := range strings.SplitSeq(cfs, ",") {
		fpath = strings.TrimSpace(fpath)
		if fpath == "" {
			continue
		}
		data, err := os.ReadFile(fpath)
		if err != nil {
			return fmt.Errorf("z/zc: read config file, %w", err)
		}
		datas = append(datas, data)
	}
	opts := env.Options{Prefix: strings.ToUpper(CFG_ENV) + "_"}
	for _, key := range keys {
		conf := confs[key]
		for _, data := range datas {
			if err := yaml.Unmarshal(data, conf); err != nil {
				return fmt.Errorf("z/zc: decode config file, %s, %w", key, err)
			}
		}
		if err := env.ParseWithOptions(conf, opts); err != nil {
			return fmt.Errorf("z/zc: decode environment, %s, %w", key, err)
		}
	}
	return nil
}

// LoadFile 加载单个配置对象, 用于命令行工具
func LoadFile(conf any, cfs string) error {
	return LoadConfigTo(cfs, map[string]any{"": conf}, []string{""})
}
