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

package staging

import (
	"sort"
	"sync"
	"time"

	"github.com/zintix-labs/gamedock/errs"
)

// Observer 接收 staging 過程中的事件。
// FileCopied / FileFailed 可能由多個 goroutine 同時呼叫，實作必須是併發安全的。
type Observer interface {
	DirCreated(path string)
	FileCopied(src string, dst string, bytes int64, took time.Duration)
	FileFailed(path string, err error)
}

// Observers 把多個 Observer 合成一個。
type Observers []Observer

func (o Observers) DirCreated(path string) {
	for _, ob := range o {
		ob.DirCreated(path)
	}
}

func (o Observers) FileCopied(src string, dst string, bytes int64, took time.Duration) {
	for _, ob := range o {
		ob.FileCopied(src, dst, bytes, took)
	}
}

func (o Observers) FileFailed(path string, err error) {
	for _, ob := range o {
		ob.FileFailed(path, err)
	}
}

// Copied 是一筆成功的檔案複製。
type Copied struct {
	Source string        `json:"source" yaml:"source"`
	Dest   string        `json:"dest" yaml:"dest"`
	Bytes  int64         `json:"bytes" yaml:"bytes"`
	Took   time.Duration `json:"took" yaml:"took"`
}

// Failure 是一筆被吞掉的錯誤（best-effort：只記錄，不升級）。
type Failure struct {
	Path  string `json:"path" yaml:"path"`
	Code  string `json:"code" yaml:"code"`
	Error string `json:"error" yaml:"error"`
}

// Result 是一次 staging 的結果紀錄。
//
// Stage 回傳之後才可以直接讀取欄位；Stage 進行中請用 Snapshot。
type Result struct {
	mu sync.Mutex

	Scheme      string    `json:"scheme" yaml:"scheme"`
	Source      string    `json:"source" yaml:"source"`
	Destination string    `json:"destination" yaml:"destination"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
	Canceled    bool      `json:"canceled" yaml:"canceled"`
	Dirs        []string  `json:"dirs" yaml:"dirs"`
	Copied      []Copied  `json:"copied" yaml:"copied"`
	Failed      []Failure `json:"failed" yaml:"failed"`
}

func newResult(scheme Scheme, source string, destination string) *Result {
	return &Result{
		Scheme:      scheme.String(),
		Source:      source,
		Destination: destination,
		StartedAt:   time.Now(),
	}
}

func (r *Result) DirCreated(path string) {
	r.mu.Lock()
	r.Dirs = append(r.Dirs, path)
	r.mu.Unlock()
}

func (r *Result) FileCopied(src string, dst string, bytes int64, took time.Duration) {
	r.mu.Lock()
	r.Copied = append(r.Copied, Copied{Source: src, Dest: dst, Bytes: bytes, Took: took})
	r.mu.Unlock()
}

func (r *Result) FileFailed(path string, err error) {
	f := Failure{Path: path, Code: errs.CodeOf(err).String()}
	if err != nil {
		f.Error = err.Error()
	}
	r.mu.Lock()
	r.Failed = append(r.Failed, f)
	r.mu.Unlock()
}

// finish 收尾：排序讓結果與 goroutine 完成順序無關。
func (r *Result) finish(canceled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinishedAt = time.Now()
	r.Canceled = canceled
	sort.Strings(r.Dirs)
	sort.Slice(r.Copied, func(i, j int) bool { return r.Copied[i].Dest < r.Copied[j].Dest })
	sort.Slice(r.Failed, func(i, j int) bool { return r.Failed[i].Path < r.Failed[j].Path })
}

// Snapshot 回傳目前狀態的複本（可在 Stage 進行中呼叫）。
func (r *Result) Snapshot() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &Result{
		Scheme:      r.Scheme,
		Source:      r.Source,
		Destination: r.Destination,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		Canceled:    r.Canceled,
		Dirs:        append([]string(nil), r.Dirs...),
		Copied:      append([]Copied(nil), r.Copied...),
		Failed:      append([]Failure(nil), r.Failed...),
	}
}

// Bytes 回傳成功複製的總位元組數。
func (r *Result) Bytes() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.Copied {
		n += c.Bytes
	}
	return n
}

// Elapsed 回傳 staging 用時；尚未完成時回傳到目前為止的時間。
func (r *Result) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
