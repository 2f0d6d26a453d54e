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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zintix-labs/gamedock/errs"
	"github.com/zintix-labs/gamedock/server/logger"
	"github.com/zintix-labs/gamedock/staging"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Port != 0 || cfg.RootDirectoryName != "game/" || cfg.IndexFileName != "index.html" {
		t.Fatalf("unexpected presentation defaults: %+v", cfg)
	}
	if !cfg.LocalOnly {
		t.Fatalf("expected local only by default")
	}
	if err := cfg.Valid(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "gamedock.yaml")
	body := `
port: 8099
index_file_name: /start.html
platform: ios
dirs:
  main_bundle_dir: /bundle
  document_dir: /docs
concurrency: 500
start_timeout: 3s
log_mode: ModeProd
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := cfg.Valid(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Port != 8099 || cfg.IndexFileName != "start.html" || cfg.StartTimeout != 3*time.Second {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.RootDirectoryName != "game/" || !cfg.LocalOnly {
		t.Fatalf("unset fields must keep defaults: %+v", cfg)
	}
	if cfg.Concurrency != 64 {
		t.Fatalf("expected concurrency clamp to 64, got %d", cfg.Concurrency)
	}
	if cfg.Mode() != logger.ModeProd {
		t.Fatalf("expected prod mode, got %v", cfg.Mode())
	}
	l := cfg.Layout()
	if l.Scheme != staging.SchemeMounted || l.Source != filepath.Join("/bundle", "game") {
		t.Fatalf("unexpected layout: %+v", l)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(p, []byte("prot: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("expected config error for missing file, got %v", err)
	}
}

func TestValidRejects(t *testing.T) {
	cases := map[string]func(c *Config){
		"negative port": func(c *Config) { c.Port = -1 },
		"empty index":   func(c *Config) { c.IndexFileName = "  " },
		"bad log mode":  func(c *Config) { c.LogMode = "loud" },
		"neg timeout":   func(c *Config) { c.StartTimeout = -time.Second },
	}
	for name, mut := range cases {
		cfg := Default()
		mut(cfg)
		if err := cfg.Valid(); !errors.Is(err, errs.ErrConfig) {
			t.Fatalf("%s: expected config error, got %v", name, err)
		}
	}
}
