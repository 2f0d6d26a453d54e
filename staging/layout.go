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
	"path"
	"path/filepath"
	"strings"
)

// Scheme 是 bundle 的定址方式。兩個平台提供 bundle 的方式本質不同，不能抽象掉。
type Scheme uint8

const (
	// SchemePackaged：只能透過資產命名空間列舉 / 複製（Android assets、go:embed）。
	SchemePackaged Scheme = iota
	// SchemeMounted：bundle 以目錄掛在檔案系統上（iOS MainBundle、桌面 bundle 目錄）。
	SchemeMounted
)

func (s Scheme) String() string {
	if s == SchemeMounted {
		return "mounted"
	}
	return "packaged"
}

// Dirs 是平台提供的兩個根目錄。
type Dirs struct {
	// MainBundleDir：掛載式 bundle 的根目錄；packaged 平台留空。
	MainBundleDir string `yaml:"main_bundle_dir"`
	// DocumentDir：可寫入儲存空間的根目錄。
	DocumentDir string `yaml:"document_dir"`
}

// Layout 是某個平台上一次 staging 的來源 / 目的地。
type Layout struct {
	Scheme Scheme
	Source string
	Target string
}

// SchemeFor 依平台識別（GOOS）選擇定址方式。
//   - ios     → mounted
//   - android → packaged
//   - 其他    → 有設定 bundle 目錄就用 mounted，否則用內嵌的 packaged bundle
func SchemeFor(goos string, mainBundleDir string) Scheme {
	switch goos {
	case "ios":
		return SchemeMounted
	case "android":
		return SchemePackaged
	default:
		if mainBundleDir != "" {
			return SchemeMounted
		}
		return SchemePackaged
	}
}

// Resolve 組出 staging 的來源與目的地。name 是 bundle 內的遊戲目錄名（允許帶尾斜線，例如 "game/"）。
//
//	packaged: Source = "game"                     Target = <DocumentDir>/game
//	mounted : Source = <MainBundleDir>/game       Target = <DocumentDir>/game
func Resolve(goos string, dirs Dirs, name string) Layout {
	name = strings.Trim(filepath.ToSlash(name), "/")
	if name == "" {
		name = "."
	}
	l := Layout{
		Scheme: SchemeFor(goos, dirs.MainBundleDir),
		Target: filepath.Join(dirs.DocumentDir, filepath.FromSlash(name)),
	}
	if l.Scheme == SchemeMounted {
		l.Source = filepath.Join(dirs.MainBundleDir, filepath.FromSlash(name))
	} else {
		l.Source = path.Clean(name)
	}
	return l
}
