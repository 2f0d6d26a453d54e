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
	"io"
	"time"

	"github.com/cheggaaa/pb/v3"
)

// Progress 是顯示 staging 進度的 staging.Observer。每完成（或失敗）一個檔案前進一格。
type Progress struct {
	bar *pb.ProgressBar
}

// NewProgress 建立並啟動進度條。total 通常由 staging.Count 取得；w 為 nil 時不輸出。
func NewProgress(total int, w io.Writer) *Progress {
	bar := pb.New(total)
	if w == nil {
		w = io.Discard
	}
	bar.SetWriter(w)
	bar.Start()
	return &Progress{bar: bar}
}

func (p *Progress) DirCreated(string) {}

func (p *Progress) FileCopied(string, string, int64, time.Duration) {
	p.bar.Increment()
}

func (p *Progress) FileFailed(string, error) {
	p.bar.Increment()
}

// Current 回傳目前已處理的檔案數。
func (p *Progress) Current() int64 {
	return p.bar.Current()
}

// Finish 結束進度條。
func (p *Progress) Finish() {
	p.bar.Finish()
}
