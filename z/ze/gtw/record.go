// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package gtw

import (
	"net/http"
	"sync"
	"time"
)

type IRecord interface {
	LogRequest(req *http.Request)
	LogOutRequest(out *http.Request)
	LogResult(code int, size int64)
	SetRule(rule string)
	SetAuthz(result string)
	SetUpstream(addr string)
	SetRespBody(str string)
	Recycle()
	Cleanup() IRecord
}

// 日志处理句柄
type RecordFunc func(rt *Record0)

// 记录内容追踪
type RecordPool interface {
	Get() IRecord
	Put(IRecord)
}

// --------------------------------------------------------------------

var _ IRecord = (*Record0)(nil)

// 访问记录
type Record0 struct {
	Pool RecordPool `json:"-"` // 缓冲池
	Save RecordFunc `json:"-"` // 处理者

	TraceID   string `json:"traceid"`
	RemoteIP  string `json:"remoteip"`
	UserAgent string `json:"useragent,omitempty"`
	Referer   string `json:"referer,omitempty"`

	Method  string `json:"method"`
	ReqHost string `json:"host"`
	ReqURL  string `json:"url"`

	Rule         string `json:"rule,omitempty"`     // 路由规则
	Authz        string `json:"authz,omitempty"`    // 鉴权结果
	OutReqURL    string `json:"outurl,omitempty"`   // 代理地址
	UpstreamAddr string `json:"upstream,omitempty"` // 上游地址

	StatusCode int    `json:"status"`
	RespSize   int64  `json:"size"`
	RespBody   string `json:"error,omitempty"` // 错误信息

	StartTime int64 `json:"start"` // 开始时间, 毫秒
	ServeTime int64 `json:"serve"` // 服务时间, 毫秒
}

func (rt *Record0) Cleanup() IRecord {
	*rt = Record0{Pool: rt.Pool, Save: rt.Save}
	return rt
}

// 记录原始请求内容
func (rt *Record0) LogRequest(req *http.Request) {
	rt.StartTime = time.Now().UnixMilli()
	rt.TraceID = req.Header.Get("X-Request-Id")
	rt.RemoteIP = GetRemoteIP(req)
	rt.UserAgent = req.UserAgent()
	rt.Referer = req.Referer()
	rt.Method = req.Method
	rt.ReqHost = req.Host
	rt.ReqURL = req.URL.RequestURI()
}

// 记录代理请求内容
func (rt *Record0) LogOutRequest(out *http.Request) {
	rt.OutReqURL = out.URL.String()
}

// 记录响应结果
func (rt *Record0) LogResult(code int, size int64) {
	rt.StatusCode = code
	rt.RespSize = size
	rt.ServeTime = time.Now().UnixMilli() - rt.StartTime
}

func (rt *Record0) SetRule(rule string) {
	rt.Rule = rule
}

func (rt *Record0) SetAuthz(result string) {
	rt.Authz = result
}

func (rt *Record0) SetUpstream(addr string) {
	rt.UpstreamAddr = addr
}

func (rt *Record0) SetRespBody(str string) {
	rt.RespBody = str
}

// 保存记录后放回缓冲池
func (rt *Record0) Recycle() {
	if rt.Save != nil {
		rt.Save(rt)
	}
	if rt.Pool != nil {
		rt.Pool.Put(rt)
	}
}

// ----------------------------------------------------------------------------

// NewRecordPool 初始化缓冲池, save 为 nil 时, 不记录
func NewRecordPool(save RecordFunc) RecordPool {
	pool := &RecordPool0{save: save}
	pool.pool.New = func() any {
		return &Record0{Pool: pool, Save: save}
	}
	return pool
}

// RecordPool0 记录内容复用池
type RecordPool0 struct {
	pool sync.Pool
	save RecordFunc
}

func (p *RecordPool0) Get() IRecord {
	return p.pool.Get().(IRecord)
}

func (p *RecordPool0) Put(rt IRecord) {
	p.pool.Put(rt.Cleanup())
}
