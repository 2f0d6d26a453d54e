// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics 提供 staging 與本地遊戲 server 的 Prometheus 指標。
//
// 每個 Metrics 各自持有一個 registry，同一個 process 內可以有多個 launcher 並存。
// nil *Metrics 可以直接使用，只是什麼都不記錄。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zintix-labs/gamedock/errs"
)

const namespace = "gamedock"

// Metrics 同時實作 staging.Observer 與 middleware 的請求觀察介面。
type Metrics struct {
	reg *prometheus.Registry

	// staging
	filesCopied     prometheus.Counter
	copyFailures    *prometheus.CounterVec
	bytesStaged     prometheus.Counter
	dirsCreated     prometheus.Counter
	stagingDuration prometheus.Histogram

	// HTTP 請求
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// server 生命週期
	serverUp prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		filesCopied: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staging_files_copied_total",
			Help:      "Total number of bundled files copied into writable storage",
		}),
		copyFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staging_failures_total",
			Help:      "Total number of swallowed staging failures",
		}, []string{"code"}),
		bytesStaged: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staging_bytes_total",
			Help:      "Total bytes written while staging",
		}),
		dirsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staging_dirs_created_total",
			Help:      "Total number of staging directories ensured",
		}),
		stagingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "staging_duration_seconds",
			Help:      "Time to stage the bundled asset tree",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		}, []string{"method", "status"}),
		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		serverUp: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "server_up",
			Help:      "1 while the local game server is serving",
		}),
	}
}

// Registry 回傳底層 registry（測試或自訂 exporter 用）。
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler 回傳這個 registry 的 Prometheus exposition handler；nil 時一律 404。
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) DirCreated(string) {
	if m == nil {
		return
	}
	m.dirsCreated.Inc()
}

func (m *Metrics) FileCopied(_ string, _ string, bytes int64, _ time.Duration) {
	if m == nil {
		return
	}
	m.filesCopied.Inc()
	m.bytesStaged.Add(float64(bytes))
}

// FileFailed 依錯誤碼分類；沒有錯誤碼的記成 unknown。
func (m *Metrics) FileFailed(_ string, err error) {
	if m == nil {
		return
	}
	code := errs.CodeOf(err).String()
	if code == "" {
		code = "unknown"
	}
	m.copyFailures.WithLabelValues(code).Inc()
}

// ObserveStaging 記錄一次完整 staging 的耗時。
func (m *Metrics) ObserveStaging(d time.Duration) {
	if m == nil {
		return
	}
	m.stagingDuration.Observe(d.Seconds())
}

// ObserveRequest 記錄一筆已回應的 HTTP 請求。
func (m *Metrics) ObserveRequest(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// SetServerUp 切換 server_up gauge。
func (m *Metrics) SetServerUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.serverUp.Set(1)
		return
	}
	m.serverUp.Set(0)
}
