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

// Package gamedock 把一個 HTML5 遊戲從 bundle 搬到可寫入的儲存空間、用本機 HTTP server 服務，並交給 view 顯示。
//
// 啟動流程（每次 Activate 一次）：
//  1. Staging：把 bundle 內的 RootDirectoryName 遞迴複製到 DocumentDir（best-effort，單檔失敗不中止）。
//  2. Starting：以 DocumentDir/RootDirectoryName 為根目錄啟動 localsvr，取得 origin。
//  3. Serving：origin 發布給訂閱者（view.Screen），畫面載入 origin + "/" + IndexFileName。
//
// 任何步驟的錯誤都只會被記錄；呈現層只看得到「origin 是否為空」。
//
//	l := gamedock.FromConfig(cfg, bundle.FS(), gamedock.Options{Log: log})
//	l.OnOrigin(func(origin string) { ... })
//	l.Activate(ctx)
//	defer l.Teardown(ctx)
package gamedock

import (
	"context"
	"io/fs"

	"github.com/zintix-labs/gamedock/config"
	"github.com/zintix-labs/gamedock/server/localsvr"
	"github.com/zintix-labs/gamedock/staging"
)

// FromConfig 依設定組裝 Launcher：staging 走 staging.Run，server 走 localsvr。
//
// bundle 只有在 packaged scheme 時會被讀取；observers 會收到每一筆 staging 事件（例如 progress bar）。
// cfg 應該已經通過 Valid。
func FromConfig(cfg *config.Config, bundle fs.FS, opts Options, observers ...staging.Observer) *Launcher {
	layout := cfg.Layout()
	l := New(nil, nil, opts)

	obs := append([]staging.Observer(nil), observers...)
	if opts.Metrics != nil {
		obs = append(obs, opts.Metrics)
	}
	sOpts := staging.Options{
		Concurrency: cfg.Concurrency,
		Log:         l.log,
		Observers:   obs,
	}
	l.stage = func(ctx context.Context) (*staging.Result, error) {
		return staging.Run(ctx, layout, bundle, sOpts)
	}
	l.svr = localsvr.New(cfg.Port, layout.Target, localsvr.Options{
		LocalOnly: cfg.LocalOnly,
		Log:       l.log,
		Metrics:   opts.Metrics,
		Report:    l.Report,
	})
	if cfg.StartTimeout > 0 && l.startTimeout == 0 {
		l.startTimeout = cfg.StartTimeout
	}
	return l
}
