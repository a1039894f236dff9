// Copyright 2026 suisrc. All rights reserved.
// Based on the path package, Copyright 2009 The Go Authors.
// Use of this source code is governed by a BSD-style license that can be found
// at https://github.com/suisrc/zgg/blob/main/LICENSE.

package kwcas

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/suisrc/zcas/z"
	"github.com/suisrc/zcas/z/ze/cas"
)

// 网关指标, 使用独立的 Registry
type Metrics struct {
	Registry  *prometheus.Registry
	Decisions *prometheus.CounterVec
	Durations *prometheus.HistogramVec
	handler   http.Handler
}

func NewMetrics() *Metrics {
	mtc := &Metrics{
		Registry: prometheus.NewRegistry(),
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zcas",
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Number of CAS gate decisions.",
		}, []string{"rule", "decision"}),
		Durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zcas",
			Subsystem: "gateway",
			Name:      "response_duration_seconds",
			Help:      "Response time of the gateway.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"rule", "code"}),
	}
	mtc.Registry.MustRegister(
		mtc.Decisions,
		mtc.Durations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mtc.handler = promhttp.HandlerFor(mtc.Registry, promhttp.HandlerOpts{})
	return mtc
}

func (aa *Metrics) ObserveDecision(rule string, out *cas.Outcome) {
	aa.Decisions.WithLabelValues(rule, out.Decision.String()).Inc()
}

func (aa *Metrics) ObserveServe(rule string, mt httpsnoop.Metrics) {
	aa.Durations.WithLabelValues(rule, strconv.Itoa(mt.Code)).Observe(mt.Duration.Seconds())
}

// GET /metrics
func (aa *Metrics) Handle(zrc *z.Ctx) {
	aa.handler.ServeHTTP(zrc.Writer, zrc.Request)
}
