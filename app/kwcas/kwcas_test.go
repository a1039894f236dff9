// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package kwcas_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suisrc/zcas/app/kwcas"
	"github.com/suisrc/zcas/z"
	"github.com/suisrc/zcas/z/zc"
	"github.com/suisrc/zcas/z/ze/cas"
)

func enable(v bool) *bool { return &v }

func newUpstream(t *testing.T, name string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, rr *http.Request) {
		io.WriteString(rw, name+":"+rr.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newConfig(t *testing.T) *kwcas.Config {
	def := newUpstream(t, "def")
	api := newUpstream(t, "api")
	return &kwcas.Config{
		Cas: cas.Options{
			Enable:     enable(true),
			LoginURL:   "https://cas.example.com/cas/login",
			ServiceURL: "https://app.example.com",
		},
		Upstream: def.URL,
		Routes: []kwcas.Route{
			{Name: "api", Prefix: "/api", Target: api.URL},
			{Name: "public", Prefix: "/api/public", Cas: cas.Options{Enable: enable(false)}},
			{Name: "other", Prefix: "/other", Cas: cas.Options{Cookie: "SSO", ServiceURL: "https://other.example.com"}},
		},
	}
}

func serve(api *kwcas.KwcasApi, rr *http.Request) *httptest.ResponseRecorder {
	rw := httptest.NewRecorder()
	ctx := z.NewCtx(nil, rr, rw, "test")
	defer ctx.Cancel()
	api.ServeHTTP(ctx)
	return rw
}

// go test -v app/kwcas/kwcas_test.go -run Test_build_rules

func Test_build_rules(t *testing.T) {
	cfg := newConfig(t)
	def, rules, err := kwcas.BuildRules(cfg)
	require.NoError(t, err)
	require.NotNil(t, def)
	require.Len(t, rules, 3)
	// 最长前缀优先
	assert.Equal(t, "public", rules[0].Name)
	assert.False(t, rules[0].Config.Enabled)
	assert.Equal(t, cfg.Upstream, rules[0].Target)

	var other *kwcas.Rule
	for _, rule := range rules {
		if rule.Name == "other" {
			other = rule
		}
	}
	require.NotNil(t, other)
	assert.True(t, other.Config.Enabled)
	assert.Equal(t, "SSO", other.Config.CookieName)
	assert.Equal(t, "https://cas.example.com/cas/login", other.Config.LoginURL)
	assert.Equal(t, "https%3A%2F%2Fother.example.com", other.Config.ServiceURL)
	assert.Equal(t, cas.DefaultCookie, def.Config.CookieName)
}

// go test -v app/kwcas/kwcas_test.go -run Test_build_rules_error

func Test_build_rules_error(t *testing.T) {
	_, _, err := kwcas.BuildRules(&kwcas.Config{})
	assert.ErrorIs(t, err, kwcas.ErrRoute)

	cfg := &kwcas.Config{Upstream: "http://127.0.0.1:8080", Cas: cas.Options{Enable: enable(true)}}
	_, _, err = kwcas.BuildRules(cfg)
	assert.ErrorIs(t, err, cas.ErrConfig)

	cfg = &kwcas.Config{Routes: []kwcas.Route{{Prefix: "/a"}}}
	_, _, err = kwcas.BuildRules(cfg)
	assert.ErrorIs(t, err, kwcas.ErrRoute)

	cfg = &kwcas.Config{Upstream: "http://127.0.0.1:8080", Routes: []kwcas.Route{{Prefix: "a"}}}
	_, _, err = kwcas.BuildRules(cfg)
	assert.ErrorIs(t, err, kwcas.ErrRoute)

	cfg = &kwcas.Config{Upstream: "http://127.0.0.1:8080", Routes: []kwcas.Route{{Prefix: "/a"}, {Prefix: "/a"}}}
	_, _, err = kwcas.BuildRules(cfg)
	assert.ErrorIs(t, err, kwcas.ErrRoute)

	cfg = &kwcas.Config{Upstream: "http://127.0.0.1:8080", Routes: []kwcas.Route{{Prefix: "/a/../b"}}}
	_, _, err = kwcas.BuildRules(cfg)
	assert.ErrorIs(t, err, kwcas.ErrRoute)
}

// go test -v app/kwcas/kwcas_test.go -run Test_rule_match

func Test_rule_match(t *testing.T) {
	rule := &kwcas.Rule{Prefix: "/api"}
	assert.True(t, rule.Match("/api"))
	assert.True(t, rule.Match("/api/x"))
	assert.False(t, rule.Match("/apix"))
	assert.False(t, rule.Match("/ap"))

	rule = &kwcas.Rule{Prefix: "/api/"}
	assert.True(t, rule.Match("/api/x"))
	assert.False(t, rule.Match("/api"))
}

// go test -v app/kwcas/kwcas_test.go -run Test_clean_path

func Test_clean_path(t *testing.T) {
	for _, tc := range [][2]string{
		{"", "/"},
		{"/", "/"},
		{"api", "/api"},
		{"/api/x", "/api/x"},
		{"/api/x/", "/api/x/"},
		{"//api//x", "/api/x"},
		{"/api/public/../x", "/api/x"},
		{"/api/./x/.", "/api/x"},
		{"/api/..", "/"},
		{"/../../x", "/x"},
		{"/api/public/../", "/api/"},
	} {
		assert.Equal(t, tc[1], kwcas.CleanPath(tc[0]), tc[0])
	}
}

// go test -v app/kwcas/kwcas_test.go -run Test_kwcas_path_bypass

func Test_kwcas_path_bypass(t *testing.T) {
	api, _, err := kwcas.NewKwcasApi(newConfig(t))
	require.NoError(t, err)

	login := "https://cas.example.com/cas/login?service=https%3A%2F%2Fapp.example.com"
	for _, tc := range []struct {
		target   string
		code     int
		location string
		body     string
	}{
		// 跳出免登录路由后需要重新鉴权
		{"/api/public/../x", http.StatusFound, login + "%2Fapi%2Fx", ""},
		{"/api/public/%2e%2e/x", http.StatusFound, login + "%2Fapi%2Fx", ""},
		{"/api/public/..", http.StatusFound, login + "%2Fapi", ""},
		{"/api/public/../../other/x", http.StatusFound, "", ""},
		{"/api/%2e%2e/y", http.StatusFound, login + "%2Fy", ""},
		// 规范化后进入免登录路由, 上游收到规范路径
		{"//api//public/x", http.StatusOK, "", "def:/api/public/x"},
		{"/api/./public/y/", http.StatusOK, "", "def:/api/public/y/"},
		{"/x/../api/public/z", http.StatusOK, "", "def:/api/public/z"},
		// 编码的 '/' 无法确定分段
		{"/api%2Fpublic/x", http.StatusBadRequest, "", ""},
		{"/api/public%2f..%2fx", http.StatusBadRequest, "", ""},
	} {
		rw := serve(api, httptest.NewRequest(http.MethodGet, tc.target, nil))
		assert.Equal(t, tc.code, rw.Code, tc.target)
		if tc.location != "" {
			assert.Equal(t, tc.location, rw.Header().Get("Location"), tc.target)
		}
		if tc.body != "" {
			assert.Equal(t, tc.body, rw.Body.String(), tc.target)
		}
	}
	// "other" 路由使用自己的 cookie 和 service
	rw := serve(api, httptest.NewRequest(http.MethodGet, "/api/public/../../other/x", nil))
	assert.Equal(t, "https://cas.example.com/cas/login?service=https%3A%2F%2Fother.example.com%2Fother%2Fx",
		rw.Header().Get("Location"))
}

// go test -v app/kwcas/kwcas_test.go -run Test_kwcas_serve

func Test_kwcas_serve(t *testing.T) {
	api, _, err := kwcas.NewKwcasApi(newConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "api", api.Resolve("/api/x").Name)
	assert.Equal(t, "public", api.Resolve("/api/public/x").Name)
	assert.Equal(t, "default", api.Resolve("/apix").Name)

	// 没有票据, 重定向到登录页
	rw := serve(api, httptest.NewRequest(http.MethodGet, "/api/list?page=2", nil))
	assert.Equal(t, http.StatusFound, rw.Code)
	assert.Equal(t, "https://cas.example.com/cas/login?service=https%3A%2F%2Fapp.example.com%2Fapi%2Flist%3Fpage%3D2",
		rw.Header().Get("Location"))
	assert.Empty(t, rw.Body.String())

	// 存在票据, 没有后续鉴权, 401
	rr := httptest.NewRequest(http.MethodGet, "/api/list", nil)
	rr.Header.Add("Cookie", "CASC=ST-1")
	rw = serve(api, rr)
	assert.Equal(t, http.StatusUnauthorized, rw.Code)

	// 未启用, 直接转发
	rw = serve(api, httptest.NewRequest(http.MethodGet, "/api/public/x", nil))
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "def:/api/public/x", rw.Body.String())

	// 自定义 cookie 名称, CASC 不生效
	rr = httptest.NewRequest(http.MethodGet, "/other", nil)
	rr.Header.Add("Cookie", "CASC=ST-1")
	rw = serve(api, rr)
	assert.Equal(t, http.StatusFound, rw.Code)
	assert.Equal(t, "https://cas.example.com/cas/login?service=https%3A%2F%2Fother.example.com%2Fother",
		rw.Header().Get("Location"))

	assert.Equal(t, 2.0, testutil.ToFloat64(api.Metrics.Decisions.WithLabelValues("api", "challenge"))+
		testutil.ToFloat64(api.Metrics.Decisions.WithLabelValues("other", "challenge")))
	assert.Equal(t, 1.0, testutil.ToFloat64(api.Metrics.Decisions.WithLabelValues("api", "ticketed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(api.Metrics.Decisions.WithLabelValues("public", "pass")))
}

// go test -v app/kwcas/kwcas_test.go -run Test_kwcas_forward_authz

func Test_kwcas_forward_authz(t *testing.T) {
	authz := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, rr *http.Request) {
		if rr.Header.Get("Cookie") == "CASC=ST-good" {
			rw.WriteHeader(http.StatusOK)
		} else {
			rw.WriteHeader(http.StatusForbidden)
		}
	}))
	defer authz.Close()

	cfg := newConfig(t)
	cfg.Authz = authz.URL
	api, _, err := kwcas.NewKwcasApi(cfg)
	require.NoError(t, err)

	rr := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	rr.Header.Add("Cookie", "CASC=ST-good")
	rw := serve(api, rr)
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "api:/api/x", rw.Body.String())

	rr = httptest.NewRequest(http.MethodGet, "/api/x", nil)
	rr.Header.Add("Cookie", "CASC=ST-bad")
	rw = serve(api, rr)
	assert.Equal(t, http.StatusForbidden, rw.Code)
}

// go test -v app/kwcas/kwcas_test.go -run Test_kwcas_no_default

func Test_kwcas_no_default(t *testing.T) {
	cfg := newConfig(t)
	cfg.Upstream = ""
	cfg.Routes = cfg.Routes[:1]
	api, _, err := kwcas.NewKwcasApi(cfg)
	require.NoError(t, err)

	rw := serve(api, httptest.NewRequest(http.MethodGet, "/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rw.Code)
	assert.Contains(t, rw.Body.String(), "route-not-found")
}

// go test -v app/kwcas/kwcas_test.go -run Test_kwcas_metrics

func Test_kwcas_metrics(t *testing.T) {
	api, _, err := kwcas.NewKwcasApi(newConfig(t))
	require.NoError(t, err)
	serve(api, httptest.NewRequest(http.MethodGet, "/api/x", nil))

	rw := httptest.NewRecorder()
	ctx := z.NewCtx(nil, httptest.NewRequest(http.MethodGet, "/metrics", nil), rw, "test")
	api.Metrics.Handle(ctx)
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, rw.Body.String(), `zcas_gate_decisions_total{decision="challenge",rule="api"} 1`)
	assert.Contains(t, rw.Body.String(), `zcas_gateway_response_duration_seconds_count{code="302",rule="api"} 1`)
}

// go test -v app/kwcas/kwcas_test.go -run Test_kwcas_load_config

func Test_kwcas_load_config(t *testing.T) {
	file := filepath.Join(t.TempDir(), "kwcas.yaml")
	data := `
kwcas:
  upstream: http://127.0.0.1:8080
  cas:
    enable: true
    login_url: https://cas.example.com/cas/login
    service_url: https://app.example.com
  routes:
    - name: api
      prefix: /api
      target: http://127.0.0.1:8081
      cas:
        enable: false
`
	require.NoError(t, os.WriteFile(file, []byte(data), 0644))
	t.Setenv("ZCAS_KWCAS_CAS_COOKIE", "TGC")

	conf := new(struct {
		Kwcas kwcas.Config `json:"kwcas" envPrefix:"KWCAS_"`
	})
	require.NoError(t, zc.LoadFile(conf, file))
	assert.Equal(t, "TGC", conf.Kwcas.Cas.Cookie)
	require.Len(t, conf.Kwcas.Routes, 1)

	def, rules, err := kwcas.BuildRules(&conf.Kwcas)
	require.NoError(t, err)
	assert.True(t, def.Config.Enabled)
	assert.Equal(t, "TGC", def.Config.CookieName)
	assert.False(t, rules[0].Config.Enabled)
	assert.Equal(t, "TGC", rules[0].Config.CookieName)
}
