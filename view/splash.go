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

package view

import (
	"sync"
	"time"
)

// DefaultSplashDelay 是畫面載入後到隱藏 splash 的延遲。
const DefaultSplashDelay = 800 * time.Millisecond

// Splash 代表平台的啟動畫面。PreventAutoHide 在程序啟動時呼叫，Hide 在遊戲頁面載入後延遲隱藏。
type Splash struct {
	delay  time.Duration
	onHide func()

	mu       sync.Mutex
	held     bool
	pending  *time.Timer
	hiddenCh chan struct{}
	hidden   bool
}

// NewSplash 建立 Splash；delay < 0 使用 DefaultSplashDelay。onHide 可為 nil。
func NewSplash(delay time.Duration, onHide func()) *Splash {
	if delay < 0 {
		delay = DefaultSplashDelay
	}
	return &Splash{delay: delay, onHide: onHide, hiddenCh: make(chan struct{})}
}

// PreventAutoHide 讓 splash 停留到 Hide 被呼叫為止。
func (s *Splash) PreventAutoHide() {
	s.mu.Lock()
	s.held = true
	s.mu.Unlock()
}

// Hide 在 delay 之後隱藏 splash。重複呼叫只會隱藏一次。
func (s *Splash) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hidden || s.pending != nil {
		return
	}
	s.pending = time.AfterFunc(s.delay, s.hide)
}

func (s *Splash) hide() {
	s.mu.Lock()
	if s.hidden {
		s.mu.Unlock()
		return
	}
	s.hidden = true
	s.held = false
	close(s.hiddenCh)
	fn := s.onHide
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Held 回傳 splash 是否仍被 PreventAutoHide 留住。
func (s *Splash) Held() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

// Hidden 在 splash 隱藏後關閉。
func (s *Splash) Hidden() <-chan struct{} {
	return s.hiddenCh
}
