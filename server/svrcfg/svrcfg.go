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

package svrcfg

import (
	"log/slog"
	"path/filepath"

	"github.com/zintix-labs/gamedock/errs"
	"github.com/zintix-labs/gamedock/metrics"
	"github.com/zintix-labs/gamedock/server/logger"
	"github.com/zintix-labs/gamedock/staging"
)

// ReportFunc 回傳目前的 staging 結果；staging 尚未結束時回傳 errs.CodeNotReady。
type ReportFunc func() (*staging.Result, error)

// SvrCfg 是本機遊戲 server 的組裝參數。
type SvrCfg struct {
	Log *slog.Logger
	// RootDir 是要服務的目錄（staging 目的地）。
	RootDir string
	// LocalOnly 讓 listener 只綁 loopback。
	LocalOnly bool
	// Metrics 為 nil 時不掛 /-/metrics。
	Metrics *metrics.Metrics
	// Report 為 nil 時不掛 /-/staging。
	Report ReportFunc
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log = logger.NewDefaultLogger(logger.ModeSilence)
	}
	if sc.RootDir == "" {
		return errs.Config("root dir is required")
	}
	abs, err := filepath.Abs(sc.RootDir)
	if err != nil {
		e := errs.Config("resolve root dir %s", sc.RootDir)
		e.Cause = err
		return e
	}
	sc.RootDir = abs
	return nil
}
