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
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os/exec"
	"runtime"
	"time"
)

// BrowserPresenter 以系統瀏覽器載入遊戲頁面（桌面上的 web view）。
type BrowserPresenter struct {
	Log *slog.Logger
	// Open 為 nil 時使用系統瀏覽器。
	Open func(url string) error
	// Wait 是開啟前等待 server 可連線的上限；0 表示不等待。
	Wait time.Duration
}

func (b *BrowserPresenter) Placeholder() {
	if b.Log != nil {
		b.Log.Info("[view] waiting for game server")
	}
}

func (b *BrowserPresenter) Render(u string) error {
	if b.Wait > 0 {
		if pu, err := url.Parse(u); err == nil {
			if err := waitForTCP(pu.Host, b.Wait); err != nil {
				return err
			}
		}
	}
	open := b.Open
	if open == nil {
		open = openBrowser
	}
	if b.Log != nil {
		b.Log.Info("[view] open", slog.String("url", u))
	}
	return open(u)
}

// LogPresenter 不開任何視窗，只把 URL 寫進 log（headless / CI）。
type LogPresenter struct {
	Log *slog.Logger
}

func (lp *LogPresenter) Placeholder() {
	if lp.Log != nil {
		lp.Log.Info("[view] placeholder")
	}
}

func (lp *LogPresenter) Render(u string) error {
	if lp.Log != nil {
		lp.Log.Info("[view] render", slog.String("url", u))
	}
	return nil
}

func waitForTCP(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 200*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %s", addr)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
