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

// Package view 是呈現層的邊界：依 origin 是否為空，顯示 placeholder 或載入 origin + "/" + index。
//
// 呈現層拿不到任何錯誤，只看得到 origin。
package view

import (
	"log/slog"
	"strings"
	"sync"
)

// Presenter 是實際的顯示端（桌面：系統瀏覽器；headless：log）。
type Presenter interface {
	// Placeholder 在 origin 尚未就緒時顯示空白畫面。
	Placeholder()
	// Render 載入遊戲頁面。
	Render(url string) error
}

// OriginSource 是 Screen 訂閱的來源（gamedock.Launcher 實作此介面）。
type OriginSource interface {
	OnOrigin(fn func(origin string))
}

// URL 組出要載入的頁面位址：origin + "/" + index。
func URL(origin string, index string) string {
	return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(index, "/")
}

// Screen 把 launcher 的 origin 轉成畫面狀態。
type Screen struct {
	index     string
	presenter Presenter
	splash    *Splash
	log       *slog.Logger

	mu       sync.Mutex
	rendered string
}

// NewScreen 建立 Screen。splash 可為 nil。
func NewScreen(index string, p Presenter, splash *Splash, log *slog.Logger) *Screen {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Screen{index: index, presenter: p, splash: splash, log: log}
}

// Mount 先顯示 placeholder，再訂閱 origin 變化。
func (s *Screen) Mount(src OriginSource) {
	s.presenter.Placeholder()
	src.OnOrigin(s.update)
}

// Rendered 回傳最後一次成功載入的 URL；placeholder 狀態為空字串。
func (s *Screen) Rendered() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rendered
}

func (s *Screen) update(origin string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if origin == "" {
		if s.rendered != "" {
			s.rendered = ""
			s.presenter.Placeholder()
		}
		return
	}
	url := URL(origin, s.index)
	if url == s.rendered {
		return
	}
	if err := s.presenter.Render(url); err != nil {
		s.log.Error("render failed", slog.String("url", url), slog.Any("err", err))
		return
	}
	s.rendered = url
	if s.splash != nil {
		s.splash.Hide()
	}
}
