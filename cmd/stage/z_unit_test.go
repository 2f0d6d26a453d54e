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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/gamedock/report"
)

func TestStageEmbeddedDemoAsYAML(t *testing.T) {
	docs := t.TempDir()
	o, cfg, err := bindFlags([]string{"-platform", "android", "-document-dir", docs, "-format", "yaml", "-progress=false"})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	o.stdout, o.stderr = &out, &bytes.Buffer{}
	if err := stage(context.Background(), o, cfg); err != nil {
		t.Fatalf("stage: %v", err)
	}

	var s report.Summary
	if err := yaml.Unmarshal(out.Bytes(), &s); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out.String())
	}
	if s.Scheme != "packaged" || s.Copied == 0 || s.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if _, err := os.Stat(filepath.Join(docs, "game", "index.html")); err != nil {
		t.Fatalf("index not staged: %v", err)
	}
}

func TestStageMountedBundleWithProgress(t *testing.T) {
	bundle := t.TempDir()
	if err := os.MkdirAll(filepath.Join(bundle, "game", "js"), 0o755); err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(bundle, "game", "index.html"), []byte("<p>hi</p>"), 0o644)
	_ = os.WriteFile(filepath.Join(bundle, "game", "js", "a.js"), []byte("a()"), 0o644)

	docs := t.TempDir()
	o, cfg, err := bindFlags([]string{"-bundle-dir", bundle, "-document-dir", docs, "-platform", "linux"})
	if err != nil {
		t.Fatal(err)
	}
	var out, errOut bytes.Buffer
	o.stdout, o.stderr = &out, &errOut
	if err := stage(context.Background(), o, cfg); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if !strings.Contains(out.String(), "mounted") || !strings.Contains(out.String(), "Staging Report") {
		t.Fatalf("unexpected report:\n%s", out.String())
	}
	b, err := os.ReadFile(filepath.Join(docs, "game", "js", "a.js"))
	if err != nil || string(b) != "a()" {
		t.Fatalf("nested file not staged: %v", err)
	}
}

func TestStageRootMissing(t *testing.T) {
	o, cfg, err := bindFlags([]string{"-bundle-dir", t.TempDir(), "-document-dir", t.TempDir(), "-platform", "ios", "-progress=false"})
	if err != nil {
		t.Fatal(err)
	}
	o.stdout, o.stderr = &bytes.Buffer{}, &bytes.Buffer{}
	if err := stage(context.Background(), o, cfg); err == nil {
		t.Fatalf("expected enumeration error for missing game directory")
	}
}
