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
	"flag"
	"time"

	"github.com/zintix-labs/gamedock/config"
)

// flags 是命令列旗標；只有明確設定過的旗標會覆寫設定檔。
type flags struct {
	configPath   string
	port         int
	root         string
	index        string
	localOnly    bool
	platform     string
	bundleDir    string
	documentDir  string
	concurrency  int
	startTimeout time.Duration
	logMode      string
	open         bool
	metrics      bool
}

func loadConfigFromFlags(args []string) (*config.Config, error) {
	def := config.Default()
	f := new(flags)
	fs := flag.NewFlagSet("gamedock", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "yaml config file")
	fs.IntVar(&f.port, "port", def.Port, "server port (0 = auto)")
	fs.StringVar(&f.root, "root", def.RootDirectoryName, "game directory inside the bundle")
	fs.StringVar(&f.index, "index", def.IndexFileName, "index file to open")
	fs.BoolVar(&f.localOnly, "local-only", def.LocalOnly, "bind loopback only")
	fs.StringVar(&f.platform, "platform", "", "platform override: ios|android|<goos>")
	fs.StringVar(&f.bundleDir, "bundle-dir", "", "mounted bundle directory (empty = embedded demo game)")
	fs.StringVar(&f.documentDir, "document-dir", def.Dirs.DocumentDir, "writable storage directory")
	fs.IntVar(&f.concurrency, "concurrency", def.Concurrency, "concurrent file copies")
	fs.DurationVar(&f.startTimeout, "start-timeout", 0, "server start timeout (0 = none)")
	fs.StringVar(&f.logMode, "log-mode", def.LogMode, "log mode: dev|prod|silence")
	fs.BoolVar(&f.open, "open", def.OpenBrowser, "open the system browser")
	fs.BoolVar(&f.metrics, "metrics", def.Metrics, "expose /-/metrics")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "port":
			cfg.Port = f.port
		case "root":
			cfg.RootDirectoryName = f.root
		case "index":
			cfg.IndexFileName = f.index
		case "local-only":
			cfg.LocalOnly = f.localOnly
		case "platform":
			cfg.Platform = f.platform
		case "bundle-dir":
			cfg.Dirs.MainBundleDir = f.bundleDir
		case "document-dir":
			cfg.Dirs.DocumentDir = f.documentDir
		case "concurrency":
			cfg.Concurrency = f.concurrency
		case "start-timeout":
			cfg.StartTimeout = f.startTimeout
		case "log-mode":
			cfg.LogMode = f.logMode
		case "open":
			cfg.OpenBrowser = f.open
		case "metrics":
			cfg.Metrics = f.metrics
		}
	})
	if err := cfg.Valid(); err != nil {
		return nil, err
	}
	return cfg, nil
}
