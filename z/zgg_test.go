// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package z_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suisrc/zcas/z"
)

// go test -v z/zgg_test.go -run Test_serve_init

func Test_serve_init(t *testing.T) {
	z.C.Server.Engine = "map"
	order := []string{}
	z.Register("02-b", func(zgg *z.Zgg) z.Closed {
		order = append(order, "b")
		z.GET("hello", func(ctx *z.Ctx) { ctx.TEXT("hello:"+ctx.Router, 0) }, zgg)
		return func() { order = append(order, "~b") }
	})
	z.Register("01-a", func(zgg *z.Zgg) z.Closed {
		order = append(order, "a")
		zgg.AddRouter("", func(ctx *z.Ctx) { ctx.TEXT("default:"+ctx.Action, http.StatusTeapot) })
		return func() { order = append(order, "~a") }
	})

	zgg := &z.Zgg{}
	require.True(t, zgg.ServeInit())
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, "zgg-map", zgg.Engine.Name())
	assert.Equal(t, zgg, zgg.SvcKit.Get("server"))

	rw := httptest.NewRecorder()
	zgg.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/hello", nil))
	assert.Equal(t, "hello:zgg-map", rw.Body.String())
	assert.NotEmpty(t, rw.Header().Get("X-Request-Id"))

	rw = httptest.NewRecorder()
	zgg.ServeHTTP(rw, httptest.NewRequest(http.MethodPost, "/hello", nil))
	assert.Equal(t, http.StatusTeapot, rw.Code)
	assert.Equal(t, "default:hello", rw.Body.String())

	rw = httptest.NewRecorder()
	zgg.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/x/y", nil))
	assert.Equal(t, "default:x/y", rw.Body.String())

	zgg.ServeStop()
	zgg.ServeStop()
	assert.Equal(t, []string{"a", "b", "~b", "~a"}, order)
}

// go test -v z/zgg_test.go -run Test_mux_router

func Test_mux_router(t *testing.T) {
	engine := z.NewMuxRouter(z.NewSvcKit(&z.Zgg{}, false))
	engine.Handle("GET", "healthz", z.Healthz)

	rw := httptest.NewRecorder()
	engine.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rw.Code)

	res := &z.Result{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), res))
	assert.True(t, res.Success)
	assert.NotEmpty(t, res.TraceID)

	rw = httptest.NewRecorder()
	engine.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/none", nil))
	assert.Equal(t, http.StatusNotFound, rw.Code)
}

// go test -v z/zgg_test.go -run Test_token_auth

func Test_token_auth(t *testing.T) {
	token := "abc"
	handle := z.TokenAuth(&token, func(ctx *z.Ctx) { ctx.TEXT("ok", 0) })

	rw := httptest.NewRecorder()
	rr := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	handle(z.NewCtx(nil, rr, rw, "test"))
	assert.Equal(t, http.StatusUnauthorized, rw.Code)
	assert.Contains(t, rw.Body.String(), "invalid-token")

	rw = httptest.NewRecorder()
	rr = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr.Header.Set("Authorization", "Token abc")
	handle(z.NewCtx(nil, rr, rw, "test"))
	assert.Equal(t, "ok", rw.Body.String())
}

// go test -v z/zgg_test.go -run Test_buffer_pool

func Test_buffer_pool(t *testing.T) {
	pool := z.NewBufferPool(1024, 4096)
	buf := pool.Get()
	assert.Len(t, buf, 1024)
	pool.Put(buf[:10])
	assert.Len(t, pool.Get(), 1024)
	pool.Put(make([]byte, 8192)) // 超过最大容量, 丢弃
}

// go test -v z/zgg_test.go -run Test_remote_ip

func Test_remote_ip(t *testing.T) {
	rr := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "192.0.2.1", z.GetRemoteIP(rr))
	rr.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	assert.Equal(t, "10.0.0.1", z.GetRemoteIP(rr))
}
