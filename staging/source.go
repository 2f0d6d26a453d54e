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
	"io/fs"
	"path"
	"path/filepath"
)

// Source 是 Stager 看到的來源：兩種命名空間各自轉接成同一組操作，
// 讓遞迴程序只有一份。路徑的拼接規則仍由各命名空間自己決定。
type Source interface {
	// List 列出 dir 的直接子節點。
	List(dir string) ([]AssetEntry, error)
	// CopyTo 把來源檔案 src 複製到可寫入儲存空間的 dst。
	CopyTo(src string, dst string) (int64, error)
	// Join 在來源命名空間內拼接子路徑。
	Join(dir string, name string) string
	// Scheme 回報來源的定址方式。
	Scheme() Scheme
}

// Packaged 以打包資產命名空間（fs.FS）作為來源。
func Packaged(fsys fs.FS) Source {
	return &packagedSource{a: NewAssetFS(fsys)}
}

// Mounted 以掛載式 bundle（OS 目錄）作為來源。
func Mounted(d Disk) Source {
	return &mountedSource{d: d}
}

type packagedSource struct {
	a *AssetFS
}

func (p *packagedSource) List(dir string) ([]AssetEntry, error) { return p.a.ListDirectory(dir) }

func (p *packagedSource) CopyTo(src string, dst string) (int64, error) {
	return p.a.CopyAssetFile(src, dst)
}

func (p *packagedSource) Join(dir string, name string) string { return path.Join(dir, name) }

func (p *packagedSource) Scheme() Scheme { return SchemePackaged }

type mountedSource struct {
	d Disk
}

// List 先拿檔名，再逐一判斷是否為目錄。
func (m *mountedSource) List(dir string) ([]AssetEntry, error) {
	names, err := m.d.ListDirectory(dir)
	if err != nil {
		return nil, err
	}
	out := make([]AssetEntry, 0, len(names))
	for _, n := range names {
		p := filepath.Join(dir, n)
		kind := File
		if m.d.IsDirectory(p) {
			kind = Directory
		}
		out = append(out, AssetEntry{Path: p, Name: n, Kind: kind})
	}
	return out, nil
}

func (m *mountedSource) CopyTo(src string, dst string) (int64, error) { return m.d.CopyFile(src, dst) }

func (m *mountedSource) Join(dir string, name string) string { return filepath.Join(dir, name) }

func (m *mountedSource) Scheme() Scheme { return SchemeMounted }
