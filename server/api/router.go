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

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/gamedock/server/httperr"
	"github.com/zintix-labs/gamedock/server/netsvr"
	"github.com/zintix-labs/gamedock/server/netsvr/middleware"
	"github.com/zintix-labs/gamedock/server/svrcfg"
)

// RegisterRoutes 註冊本機遊戲 server 的全部路由。
//
// Routes：
//   - GET /-/healthz ：存活檢查
//   - GET /-/staging ：本次 staging 結果（JSON）
//   - GET /-/metrics ：Prometheus exposition
//   - /*             ：staging 目的地的靜態檔案
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	registerMiddleware(svr, sCfg) // 1. 註冊 middleware
	registerOps(svr, sCfg)        // 2. 維運端點
	registerStatic(svr, sCfg)     // 3. 遊戲資產
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover(sCfg.Log))
	if sCfg.Metrics != nil {
		svr.Use(middleware.Metrics(sCfg.Metrics))
	}
	svr.Use(middleware.Compression)
}

func registerOps(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	svr.Group("/-", func(ops netsvr.NetRouter) {
		ops.Get("/healthz", healthz)
		if sCfg.Report != nil {
			ops.Get("/staging", stagingReport(sCfg.Report, sCfg.Log))
		}
		if sCfg.Metrics != nil {
			ops.Handle("/metrics", sCfg.Metrics.Handler())
		}
	})
}

func registerStatic(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	svr.Handle("/*", Static(sCfg.RootDir))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func stagingReport(report svrcfg.ReportFunc, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := report()
		if err != nil {
			httperr.Log(log, "staging report", err)
			httperr.Errs(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res.Snapshot()); err != nil {
			log.Error("encode staging report", slog.Any("err", err))
		}
	}
}
