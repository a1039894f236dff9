// Copyright 2025 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

// zgg(z? golang google) 核心内容，为简约而生

package z

import (
	"context"
	"crypto/tls"
	"errors"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"
)

var (
	C = new(struct {
		Server ServerConfig `json:"server" envPrefix:"SERVER_"`
	})

	// 路由构建器
	Engines = map[string]EngineBuilder{
		"map": NewMapRouter,
		"mux": NewMuxRouter,
	}
)

// 默认服务配置
type ServerConfig struct {
	Fxser   bool   `json:"xser" env:"XSER"` // 响应头中增加 Xser-*
	Local   bool   `json:"local" env:"LOCAL"`
	Addr    string `json:"addr" env:"ADDR"`
	Port    int    `json:"port" env:"PORT"`
	Ptls    int    `json:"ptls" env:"PTLS"`
	Dual    bool   `json:"dual" env:"DUAL"` // 同时启动 http 和 https
	CrtFile string `json:"crtfile" env:"CRTFILE"`
	KeyFile string `json:"keyfile" env:"KEYFILE"`
	ApiPath string `json:"api" env:"API"`       // root api path
	Engine  string `json:"engine" env:"ENGINE"` // router engine
}

// ----------------------------------------------------------------------------
// ----------------------------------------------------------------------------

var _ http.Handler = (*Zgg)(nil)

// 默认服务实体
type Zgg struct {
	Servers map[string]*http.Server // HTTP服务实例
	TLSConf *tls.Config             // HTTPS配置
	Closeds []Closed                // 模块关闭函数列表
	Engine  Engine                  // 路由引擎
	SvcKit  SvcKit                  // 服务工具
	// 终止标记
	FlagStop bool
}

// 服务初始化
func (aa *Zgg) ServeInit() bool {
	if aa.SvcKit == nil {
		aa.SvcKit = NewSvcKit(aa, IsDebug())
	}
	if aa.Engine == nil {
		builder, ok := Engines[C.Server.Engine]
		if !ok {
			Printf("[_router_]: router not found by [-eng %s]\n", C.Server.Engine)
			return false
		}
		aa.Engine = builder(aa.SvcKit)
		Printf("[_router_]: build %s.router by [-eng %s]\n", aa.Engine.Name(), C.Server.Engine)
	}
	if aa.Servers == nil {
		aa.Servers = map[string]*http.Server{}
	}
	if C.Server.CrtFile != "" && C.Server.KeyFile != "" && aa.TLSConf == nil {
		cert, err := tls.LoadX509KeyPair(C.Server.CrtFile, C.Server.KeyFile)
		if err != nil {
			Printf("[_server_]: load tls cert error, %v\n", err)
			return false
		}
		aa.TLSConf = &tls.Config{Certificates: []tls.Certificate{cert}}
	}
	aa.Closeds = []Closed{}
	// -----------------------------------------------
	Println("[register]: register options...")
	for _, opt := range options {
		if opt.Val == nil {
			continue
		}
		if IsDebug() {
			Println("[register]:", opt.Key)
		}
		if cls := opt.Val(aa); cls != nil {
			aa.Closeds = append(aa.Closeds, cls)
		}
		if aa.FlagStop {
			Println("[register]: serve already stop! exit...")
			return false
		}
	}
	slices.Reverse(aa.Closeds) // 倒序, 后进先出
	return true
}

// 服务终止，这里只会终止模块，不会终止 http 服务
func (aa *Zgg) ServeStop() {
	if aa.FlagStop {
		return
	}
	aa.FlagStop = true
	for _, cls := range aa.Closeds {
		cls() // 模块关闭
	}
}

// 启动 HTTP 服务, 等待终止信号后优雅的关闭
func (aa *Zgg) RunServe() {
	if len(aa.Servers) == 0 {
		Println("http server not found, exit...")
		aa.ServeStop()
		return
	}
	for key, srv := range aa.Servers {
		go func() {
			Printf("http server started, linsten: %s %s\n", srv.Addr, key)
			var err error
			if srv.TLSConfig != nil {
				err = srv.ListenAndServeTLS("", "")
			} else {
				err = srv.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				Fatalf("http server linsten: %s\n", err)
			}
		}()
	}
	ssc := make(chan os.Signal, 1)
	signal.Notify(ssc, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	<-ssc
	Println("http server stoping...")
	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for key, srv := range aa.Servers {
		if err := srv.Shutdown(ctx); err != nil {
			Println("http server shutdown:", key, err)
		}
	}
	aa.ServeStop() // 先停服务，后停模块
	Println("http server shutdown")
}

// 默认响应函数 http.HandlerFunc
func (aa *Zgg) ServeHTTP(rw http.ResponseWriter, rr *http.Request) {
	if IsDebug() {
		Printf("[_request]: [%s] %s %s\n", aa.Engine.Name(), rr.Method, rr.URL.String())
	}
	if C.Server.Fxser {
		rw.Header().Set("Xser-Routerz", aa.Engine.Name())
		rw.Header().Set("Xser-Version", AppName+":"+Version)
	}
	aa.Engine.ServeHTTP(rw, rr)
}

/**
 * 增加处理函数
 * @param key: [method ]action, 如果 method 为空，则默认为 所有请求; key 为空是默认处理函数
 */
func (aa *Zgg) AddRouter(key string, handle HandleFunc) {
	if key == "" {
		if IsDebug() {
			Printf("[_handle_]: %36s    %s\n", "/*", GetFuncInfo(handle))
		}
		aa.Engine.Handle("", "", handle)
		return
	}
	method, action, found := strings.Cut(key, " ")
	if !found {
		method, action = "", key
	}
	action = strings.TrimLeft(action, " \t")
	if len(action) > 0 && action[0] == '/' {
		action = action[1:]
	}
	if C.Server.ApiPath != "" { // 补充 api path
		action = strings.TrimPrefix(C.Server.ApiPath+"/"+action, "/")
	}
	method = strings.ToUpper(method)
	if IsDebug() {
		Printf("[_handle_]: %36s    %s\n", strings.TrimSpace(method+" /"+action), GetFuncInfo(handle))
	}
	aa.Engine.Handle(method, action, handle)
}

// ----------------------------------------------------------------------------
// ----------------------------------------------------------------------------
// service 管理工具

var _ SvcKit = (*SvcKit0)(nil)

type SvcKit0 struct {
	debug  bool
	zgg    *Zgg
	svcmap map[string]any
	svclck sync.RWMutex
}

func NewSvcKit(zgg *Zgg, debug bool) SvcKit {
	svckit := &SvcKit0{
		debug:  debug,
		zgg:    zgg,
		svcmap: make(map[string]any),
	}
	svckit.svcmap["svckit"] = svckit
	svckit.svcmap["server"] = zgg
	return svckit
}

func (aa *SvcKit0) Zgg() *Zgg {
	return aa.zgg
}

func (aa *SvcKit0) Get(key string) any {
	aa.svclck.RLock()
	defer aa.svclck.RUnlock()
	return aa.svcmap[key]
}

func (aa *SvcKit0) Set(key string, val any) SvcKit {
	aa.svclck.Lock()
	defer aa.svclck.Unlock()
	if val == nil {
		delete(aa.svcmap, key)
	} else {
		aa.svcmap[key] = val
	}
	if aa.debug {
		Printf("[_svckit_]: [set] %s <- %v\n", key, reflect.TypeOf(val))
	}
	return aa
}

func (aa *SvcKit0) Map() map[string]any {
	aa.svclck.RLock()
	defer aa.svclck.RUnlock()
	return maps.Clone(aa.svcmap)
}

// -----------------------------------------------------------------------------------
// -----------------------------------------------------------------------------------

// 基于 map 路由，为更高的性能，单接口而生，是默认的路由
var _ Engine = (*MapRouter)(nil)

type MapRouter struct {
	name    string
	svckit  SvcKit
	Handle_ HandleFunc            // 默认函数，没有找到Action触发
	Handles map[string]HandleFunc // 接口集合
}

func NewMapRouter(svckit SvcKit) Engine {
	return &MapRouter{
		name:    "zgg-map",
		svckit:  svckit,
		Handles: make(map[string]HandleFunc),
	}
}

func (aa *MapRouter) Name() string {
	return aa.name
}

func (aa *MapRouter) Handle(method, action string, handle HandleFunc) {
	if method == "" && action == "" {
		aa.Handle_ = handle
		return
	}
	pattern := "/" + action
	if method != "" {
		pattern = method + " " + pattern
	}
	aa.Handles[pattern] = handle
}

func (aa *MapRouter) GetHandle(method, action string) (HandleFunc, bool) {
	if method != "" {
		if handle, exist := aa.Handles[method+" /"+action]; exist {
			return handle, true
		}
	}
	handle, exist := aa.Handles["/"+action]
	return handle, exist
}

func (aa *MapRouter) ServeHTTP(rw http.ResponseWriter, rr *http.Request) {
	ctx := NewCtx(aa.svckit, rr, rw, aa.name)
	defer ctx.Cancel()
	if handle, exist := aa.GetHandle(rr.Method, ctx.Action); exist {
		handle(ctx)
	} else if aa.Handle_ != nil {
		aa.Handle_(ctx)
	} else {
		res := &Result{ErrCode: "action-unknow", Message: "未指定操作: " + ctx.Action, Status: http.StatusNotFound}
		JSON(ctx, res)
	}
}

// -----------------------------------------------------------------------------------

// 基于 http.ServeMux 的路由
var _ Engine = (*MuxRouter)(nil)

type MuxRouter struct {
	name   string
	svckit SvcKit
	Router *http.ServeMux
}

func NewMuxRouter(svckit SvcKit) Engine {
	return &MuxRouter{
		name:   "zgg-mux",
		svckit: svckit,
		Router: http.NewServeMux(),
	}
}

func (aa *MuxRouter) Name() string {
	return aa.name
}

func (aa *MuxRouter) Handle(method, action string, handle HandleFunc) {
	pattern := "/" + action
	if method != "" {
		pattern = method + " " + pattern
	}
	aa.Router.HandleFunc(pattern, func(rw http.ResponseWriter, rr *http.Request) {
		ctx := NewCtx(aa.svckit, rr, rw, aa.name)
		defer ctx.Cancel()
		handle(ctx)
	})
}

func (aa *MuxRouter) ServeHTTP(rw http.ResponseWriter, rr *http.Request) {
	aa.Router.ServeHTTP(rw, rr)
}
