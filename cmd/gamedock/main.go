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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/zintix-labs/gamedock"
	"github.com/zintix-labs/gamedock/demo"
	"github.com/zintix-labs/gamedock/metrics"
	"github.com/zintix-labs/gamedock/server/app"
	"github.com/zintix-labs/gamedock/server/logger"
	"github.com/zintix-labs/gamedock/view"
)

// gamedock：staging 內嵌（或 -bundle-dir 指定）的遊戲，啟動本機 server，並以系統瀏覽器開啟。
//
//	go run ./cmd/gamedock
//	go run ./cmd/gamedock -config gamedock.yaml -port 8080 -open=false
func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfigFromFlags(args)
	if err != nil {
		return err
	}
	log, ah := logger.NewAsync(4096, cfg.Mode())
	defer ah.Close()

	var met *metrics.Metrics
	if cfg.Metrics {
		met = metrics.New()
	}

	// splash 在程序一開始就留住，遊戲頁面載入後才隱藏
	splash := view.NewSplash(view.DefaultSplashDelay, func() { log.Debug("[view] splash hidden") })
	splash.PreventAutoHide()

	l := demo.NewLauncher(cfg, gamedock.Options{Log: log, Metrics: met})

	var presenter view.Presenter = &view.LogPresenter{Log: log}
	if cfg.OpenBrowser {
		presenter = &view.BrowserPresenter{Log: log, Wait: 5 * time.Second}
	}
	view.NewScreen(cfg.IndexFileName, presenter, splash, log).Mount(l)

	log.Info("[gamedock] launch",
		"id", l.ID(),
		"scheme", cfg.Layout().Scheme.String(),
		"target", cfg.Layout().Target,
	)
	return app.NewWith(l).WithLog(log).Run()
}
