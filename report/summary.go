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

// Package report 把一次 staging 的 Result 整理成摘要並輸出（文字表格 / YAML / JSON），也提供 staging 進度條。
package report

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/zintix-labs/gamedock/staging"
)

// Summary 是 Result 的摘要。
type Summary struct {
	Scheme      string            `json:"scheme" yaml:"scheme"`
	Source      string            `json:"source" yaml:"source"`
	Destination string            `json:"destination" yaml:"destination"`
	Copied      int               `json:"copied" yaml:"copied"`
	Failed      int               `json:"failed" yaml:"failed"`
	Dirs        int               `json:"dirs" yaml:"dirs"`
	Bytes       int64             `json:"bytes" yaml:"bytes"`
	Elapsed     time.Duration     `json:"elapsed" yaml:"elapsed"`
	Canceled    bool              `json:"canceled" yaml:"canceled"`
	Latency     Latency           `json:"latency" yaml:"latency"`
	Failures    []staging.Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Latency 是單檔複製耗時的統計（毫秒）。
type Latency struct {
	MeanMs float64 `json:"mean_ms" yaml:"mean_ms"`
	StdMs  float64 `json:"std_ms" yaml:"std_ms"`
	P95Ms  float64 `json:"p95_ms" yaml:"p95_ms"`
	MaxMs  float64 `json:"max_ms" yaml:"max_ms"`
}

// Summarize 由 Result 產生摘要。res 可以是進行中的 Result。
func Summarize(res *staging.Result) *Summary {
	snap := res.Snapshot()
	s := &Summary{
		Scheme:      snap.Scheme,
		Source:      snap.Source,
		Destination: snap.Destination,
		Copied:      len(snap.Copied),
		Failed:      len(snap.Failed),
		Dirs:        len(snap.Dirs),
		Bytes:       res.Bytes(),
		Elapsed:     res.Elapsed(),
		Canceled:    snap.Canceled,
		Failures:    snap.Failed,
	}
	took := make([]float64, 0, len(snap.Copied))
	for _, c := range snap.Copied {
		took = append(took, float64(c.Took)/float64(time.Millisecond))
	}
	s.Latency = latency(took)
	return s
}

func latency(xs []float64) Latency {
	if len(xs) == 0 {
		return Latency{}
	}
	sort.Float64s(xs)
	mean, std := stat.MeanStdDev(xs, nil)
	if math.IsNaN(std) {
		// 只有一個樣本
		std = 0
	}
	return Latency{
		MeanMs: mean,
		StdMs:  std,
		P95Ms:  stat.Quantile(0.95, stat.Empirical, xs, nil),
		MaxMs:  xs[len(xs)-1],
	}
}
