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

// Package demo 提供內嵌的示範遊戲與對應的預設組裝，讓 cmd 不帶任何參數就能跑起來。
package demo

import (
	"io/fs"

	"github.com/zintix-labs/gamedock"
	"github.com/zintix-labs/gamedock/config"
	"github.com/zintix-labs/gamedock/demo/demo_game"
	"github.com/zintix-labs/gamedock/staging"
)

// Bundle 回傳內嵌的示範遊戲（根目錄為 "game/"）。
func Bundle() fs.FS {
	return demo_game.FS
}

// NewLauncher 以內嵌示範遊戲作為 packaged bundle 組裝 Launcher。
func NewLauncher(cfg *config.Config, opts gamedock.Options, observers ...staging.Observer) *gamedock.Launcher {
	return gamedock.FromConfig(cfg, demo_game.FS, opts, observers...)
}
