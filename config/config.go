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

// Package config 定義 gamedock 的啟動設定。
//
// 來源優先順序（後者覆寫前者）：
//  1. Default()
//  2. YAML 設定檔（可選，未知欄位直接報錯）
//  3. cmd 的命令列旗標
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/gamedock/errs"
	"github.com/zintix-labs/gamedock/server/logger"
	"github.com/zintix-labs/gamedock/staging"
)

const (
	DefaultRootDirectoryName = "game/"
	DefaultIndexFileName     = "index.html"

	maxConcurrency = 64
)

// Config 是一次啟動所需的全部設定。
type Config struct {
	// 呈現層設定：{port, rootDirectoryName, indexFileName}
	Port              int    `yaml:"port"`
	RootDirectoryName string `yaml:"root_directory_name"`
	IndexFileName     string `yaml:"index_file_name"`

	// LocalOnly 讓 server 只綁 loopback。
	LocalOnly bool `yaml:"local_only"`

	// Platform 覆寫平台識別（GOOS）；空字串使用 runtime.GOOS。
	Platform string       `yaml:"platform"`
	Dirs     staging.Dirs `yaml:"dirs"`

	Concurrency int `yaml:"concurrency"`
	// StartTimeout 限制 server 啟動時間；0 代表不設限。
	StartTimeout time.Duration `yaml:"start_timeout"`

	LogMode     string `yaml:"log_mode"`
	OpenBrowser bool   `yaml:"open_browser"`
	Metrics     bool   `yaml:"metrics"`
}

// Default 回傳預設設定。
func Default() *Config {
	return &Config{
		Port:              0,
		RootDirectoryName: DefaultRootDirectoryName,
		IndexFileName:     DefaultIndexFileName,
		LocalOnly:         true,
		Dirs:              staging.Dirs{DocumentDir: defaultDocumentDir()},
		Concurrency:       8,
		LogMode:           logger.ModeDev.String(),
		OpenBrowser:       true,
		Metrics:           true,
	}
}

func defaultDocumentDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "gamedock")
	}
	return filepath.Join(os.TempDir(), "gamedock")
}

// Load 讀取 YAML 設定檔並覆寫在 Default() 之上。path 為空時只回傳預設值。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		e := errs.Config("read config %s", path)
		e.Cause = err
		return nil, e
	}
	if err := cfg.Decode(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode 把 YAML 內容覆寫到 cfg 上；未出現的欄位保持原值。
func (c *Config) Decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		e := errs.Config("decode config")
		e.Cause = err
		return e
	}
	return nil
}

// Valid 檢查並正規化設定。
//   - port 不可為負、不可超過 65535
//   - index 檔名不可為空
//   - concurrency 夾在 [1, 64]
//   - log mode 必須可辨識
func (c *Config) Valid() error {
	if c.Port < 0 || c.Port > 65535 {
		return errs.Config("port out of range: %d", c.Port)
	}
	c.IndexFileName = strings.TrimLeft(strings.TrimSpace(c.IndexFileName), "/")
	if c.IndexFileName == "" {
		return errs.Config("index file name is required")
	}
	if strings.Trim(c.RootDirectoryName, "/ ") == "" {
		c.RootDirectoryName = DefaultRootDirectoryName
	}
	if c.Dirs.DocumentDir == "" {
		c.Dirs.DocumentDir = defaultDocumentDir()
	}
	if c.StartTimeout < 0 {
		return errs.Config("start timeout must be >= 0")
	}
	c.Concurrency = max(1, c.Concurrency)
	c.Concurrency = min(maxConcurrency, c.Concurrency)
	if _, ok := logger.ParseMode(c.LogMode); !ok {
		return errs.Config("unknown log mode: %s", c.LogMode)
	}
	return nil
}

// GOOS 回傳用於選擇定址方式的平台識別。
func (c *Config) GOOS() string {
	if c.Platform != "" {
		return c.Platform
	}
	return runtime.GOOS
}

// Layout 依設定解出 staging 的來源與目的地。
func (c *Config) Layout() staging.Layout {
	return staging.Resolve(c.GOOS(), c.Dirs, c.RootDirectoryName)
}

// Mode 回傳 log mode（Valid 之後呼叫）。
func (c *Config) Mode() logger.LogMode {
	m, _ := logger.ParseMode(c.LogMode)
	return m
}
