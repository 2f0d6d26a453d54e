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

package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/gamedock/errs"
	"github.com/zintix-labs/gamedock/staging"
)

func sampleResult() *staging.Result {
	res := &staging.Result{Scheme: "packaged", Source: "game", Destination: "/docs/game"}
	res.DirCreated("/docs/game")
	res.DirCreated("/docs/game/js")
	res.FileCopied("game/index.html", "/docs/game/index.html", 1200, 2*time.Millisecond)
	res.FileCopied("game/js/main.js", "/docs/game/js/main.js", 3400, 4*time.Millisecond)
	res.FileFailed("game/js/broken.js", errs.Copy("game/js/broken.js", "/docs/game/js/broken.js", errors.New("denied")))
	return res
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResult())
	if s.Copied != 2 || s.Failed != 1 || s.Dirs != 2 || s.Bytes != 4600 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if math.Abs(s.Latency.MeanMs-3) > 1e-9 || s.Latency.MaxMs != 4 {
		t.Fatalf("unexpected latency: %+v", s.Latency)
	}
	if s.Failures[0].Code != "copy" {
		t.Fatalf("expected copy failure code, got %q", s.Failures[0].Code)
	}
}

func TestLatencySingleSample(t *testing.T) {
	l := latency([]float64{5})
	if l.MeanMs != 5 || l.StdMs != 0 || l.P95Ms != 5 {
		t.Fatalf("unexpected latency: %+v", l)
	}
	if (latency(nil) != Latency{}) {
		t.Fatalf("empty input must give zero latency")
	}
}

func TestTextRender(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextRender{}).Write(&buf, Summarize(sampleResult())); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Staging Report", "| Files", "4,600", "[copy] game/js/broken.js"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	// 每一列表格寬度一致
	width := -1
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "|") && !strings.HasPrefix(line, "+") {
			continue
		}
		if width == -1 {
			width = len(line)
		} else if len(line) != width {
			t.Fatalf("misaligned row %q", line)
		}
	}
}

func TestYAMLAndJSONRender(t *testing.T) {
	s := Summarize(sampleResult())

	var yb bytes.Buffer
	if err := (&YAMLRender{}).Write(&yb, s); err != nil {
		t.Fatal(err)
	}
	var back Summary
	if err := yaml.Unmarshal(yb.Bytes(), &back); err != nil {
		t.Fatalf("yaml output not decodable: %v\n%s", err, yb.String())
	}
	if back.Copied != 2 || len(back.Failures) != 1 {
		t.Fatalf("unexpected yaml summary: %+v", back)
	}

	var jb bytes.Buffer
	if err := (&JSONRender{}).Write(&jb, s); err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(jb.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m["destination"] != "/docs/game" {
		t.Fatalf("unexpected json: %s", jb.String())
	}
}

func TestByName(t *testing.T) {
	for _, f := range []string{"", "text", "YAML", "json"} {
		if _, err := ByName(f); err != nil {
			t.Fatalf("%q: %v", f, err)
		}
	}
	if _, err := ByName("xml"); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestProgressCountsFiles(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(3, &buf)
	p.DirCreated("/d")
	p.FileCopied("a", "b", 1, time.Millisecond)
	p.FileFailed("c", errors.New("x"))
	if p.Current() != 2 {
		t.Fatalf("expected 2, got %d", p.Current())
	}
	p.Finish()
}
