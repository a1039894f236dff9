// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

// zgc: z? golang context

package z

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sync"
)

// 定义处理函数
type HandleFunc func(rc *Ctx)

// map any
type HA map[string]any

// map str
type HM map[string]string

// 请求上下文内容
type Ctx struct {
	Ctx context.Context
	// Cancel func
	Cancel context.CancelFunc
	// All Module
	SvcKit SvcKit
	// Request action
	Action string
	// Request Cache
	Caches HA
	// Request
	Request *http.Request
	// Response
	Writer http.ResponseWriter
	// Trace ID
	TraceID string
	// Router name
	Router string
}

// 已 JSON 格式写出响应
func (ctx *Ctx) JSON(err error) {
	switch err := err.(type) {
	case *Result:
		JSON(ctx, err)
	default:
		JSON(ctx, &Result{ErrCode: "unknow-error", Message: err.Error()})
	}
}

// 已 TEXT 格式写出响应
func (ctx *Ctx) TEXT(txt string, hss int) {
	if ctx.TraceID != "" {
		ctx.Writer.Header().Set("X-Request-Id", ctx.TraceID)
	}
	ctx.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if hss > 0 {
		ctx.Writer.WriteHeader(hss) // 最后写状态码头
	}
	ctx.Writer.Write([]byte(txt))
}

// 已 JSON 错误格式写出响应
func (ctx *Ctx) JERR(err error, hss int) {
	var res *Result
	switch err := err.(type) {
	case *Result:
		res = err
	default:
		res = &Result{ErrCode: "unknow-error", Message: err.Error()}
	}
	if hss > 0 {
		res.Status = hss
	}
	JSON(ctx, res)
}

// 创建上下文函数
func NewCtx(svckit SvcKit, request *http.Request, writer http.ResponseWriter, router string) *Ctx {
	action := GetAction(request.URL)
	ctx := &Ctx{SvcKit: svckit, Action: action, Caches: HA{}, Request: request, Writer: writer, Router: router}
	ctx.Ctx, ctx.Cancel = context.WithCancel(request.Context())
	ctx.TraceID = GetTraceID(request)
	return ctx
}

// 获取请求 action, 使用 path[1:] 作为 action
func GetAction(uu *url.URL) string {
	rpath := uu.Path
	if len(rpath) > 0 {
		rpath = rpath[1:] // 删除前缀 '/'
	}
	return rpath
}

// ----------------------------------------------------------------------------
// ----------------------------------------------------------------------------

// 定义响应结构体
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	ErrCode string `json:"errcode,omitempty"`
	Message string `json:"message,omitempty"`
	ErrShow int    `json:"errshow,omitempty"`
	TraceID string `json:"traceid,omitempty"`

	Status int `json:"-"`
	Header HM  `json:"-"`
}

func (aa *Result) Error() string {
	return fmt.Sprintf("[%v], %s, %s", aa.Success, aa.ErrCode, aa.Message)
}

// 响应 JSON 结果
func JSON(ctx *Ctx, res *Result) {
	if res.TraceID == "" {
		res.TraceID = ctx.TraceID
	}
	if res.TraceID != "" {
		ctx.Writer.Header().Set("X-Request-Id", res.TraceID)
	}
	if !res.Success && res.ErrShow <= 0 {
		res.ErrShow = 1
	}
	for k, v := range res.Header {
		ctx.Writer.Header().Set(k, v)
	}
	JSON0(ctx.Request, ctx.Writer, res)
}

// 响应 JSON 结果: content-type http-status json-data
func JSON0(rr *http.Request, rw http.ResponseWriter, rs *Result) {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	if rs.Status > 0 {
		rw.WriteHeader(rs.Status)
	}
	json.NewEncoder(rw).Encode(rs)
}

// ----------------------------------------------------------------------------
// ----------------------------------------------------------------------------

// 在 init 注册模块, 按照 key 排序初始化
func Register(key string, opt OptionFunc) {
	optlock.Lock()
	defer optlock.Unlock()
	idx := slices.IndexFunc(options, func(opt Ref[string, OptionFunc]) bool {
		return opt.Key > key
	})
	ref := Ref[string, OptionFunc]{Key: key, Val: opt}
	if idx < 0 {
		options = append(options, ref)
	} else {
		options = slices.Insert(options, idx, ref)
	}
}

// GET http method
func GET(action string, hdl HandleFunc, zgg *Zgg) {
	zgg.AddRouter(http.MethodGet+" "+action, hdl)
}

// ----------------------------------------------------------------------------
// ----------------------------------------------------------------------------

// close function
type Closed func()

// 定义配置函数
type OptionFunc func(*Zgg) Closed

var (
	// 应用配置列表，依据 key 排序，初始化顺序
	options = []Ref[string, OptionFunc]{}
	optlock = sync.Mutex{}
)

// 服务工具接口
type SvcKit interface {
	Zgg() *Zgg                      // 获取模块管理器
	Get(key string) any             // 获取服务
	Set(key string, val any) SvcKit // 增加服务 val = nil 是卸载服务
	Map() map[string]any            // 服务列表, 注意，是副本
}

// 引擎接口, 不使用 Router 是为了和其他 Router 名字上区分开
type Engine interface {
	Name() string                                       // router engine name
	Handle(method, action string, handle HandleFunc)    // register router handle, [method]可能为"", [action]开头无"/"
	ServeHTTP(rw http.ResponseWriter, rr *http.Request) // http.HandlerFunc
}

type EngineBuilder func(SvcKit) Engine
