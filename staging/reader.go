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
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// -----------------------------------------------------------------------------
//  Packaged-asset namespace
// -----------------------------------------------------------------------------

// AssetFS 是「打包資產命名空間」的讀取器。
//
// 這個命名空間沒有直接的檔案系統視圖：只能透過列舉 / 複製 API 存取。
// 桌面版用 go:embed 的 embed.FS，測試用 fstest.MapFS，行為一致。
// 路徑一律是相對於命名空間根的 slash path（例如 "game/js"）。
type AssetFS struct {
	fsys fs.FS
}

func NewAssetFS(fsys fs.FS) *AssetFS {
	return &AssetFS{fsys: fsys}
}

// ListDirectory 列出 assetPath 底下的直接子節點（依名稱排序）。
func (a *AssetFS) ListDirectory(assetPath string) ([]AssetEntry, error) {
	items, err := fs.ReadDir(a.fsys, cleanAssetPath(assetPath))
	if err != nil {
		return nil, err
	}
	out := make([]AssetEntry, 0, len(items))
	for _, it := range items {
		kind := File
		if it.IsDir() {
			kind = Directory
		}
		out = append(out, AssetEntry{
			Path: path.Join(cleanAssetPath(assetPath), it.Name()),
			Name: it.Name(),
			Kind: kind,
		})
	}
	return out, nil
}

// CopyAssetFile 把命名空間內的單一檔案複製到可寫入儲存空間的 destPath，回傳寫入位元組數。
// destPath 已存在時會被覆寫。
func (a *AssetFS) CopyAssetFile(assetPath string, destPath string) (int64, error) {
	f, err := a.fsys.Open(cleanAssetPath(assetPath))
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return writeFile(destPath, f)
}

func cleanAssetPath(p string) string {
	p = path.Clean("/" + filepath.ToSlash(p))
	if p == "/" {
		return "."
	}
	return p[1:]
}

// -----------------------------------------------------------------------------
//  Mounted-bundle namespace
// -----------------------------------------------------------------------------

// Disk 是「掛載式 bundle 命名空間」：bundle 直接以目錄形式出現在裝置檔案系統上，
// 跟可寫入儲存空間使用同一套 OS 路徑。
//
// Disk 同時也是 staging 目的地（可寫入儲存空間）的操作介面。
type Disk struct{}

func (Disk) IsDirectory(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.IsDir()
}

// MakeDirectory 建立目錄（含中間層）。目錄已存在不算錯誤。
func (Disk) MakeDirectory(p string) error {
	return os.MkdirAll(p, 0o755)
}

// ListDirectory 只回傳檔名（依名稱排序），種類需要再用 IsDirectory 判斷。
func (Disk) ListDirectory(p string) ([]string, error) {
	items, err := os.ReadDir(p)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (Disk) CopyFile(src string, dest string) (int64, error) {
	f, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return writeFile(dest, f)
}

// writeFile 以 truncate 方式寫入 dest；重複 staging 會覆寫舊檔。
func writeFile(dest string, r io.Reader) (int64, error) {
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}
