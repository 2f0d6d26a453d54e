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

package api

import (
	"io/fs"
	"net/http"
	"os"
	"path"
)

// Static 服務 root 目錄下的遊戲資產。
//
//   - 每次啟動都會重新 staging，所以回應一律 Cache-Control: no-cache（瀏覽器仍可用 304 驗證）。
//   - 目錄沒有 index.html 時回 404，不輸出目錄清單。
//   - root 不存在時（staging 整個失敗）所有請求都是 404，server 照常服務。
func Static(root string) http.Handler {
	fsrv := http.FileServerFS(noListFS{fsys: os.DirFS(root)})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fsrv.ServeHTTP(w, r)
	})
}

// noListFS 讓沒有 index.html 的目錄看起來不存在。
type noListFS struct {
	fsys fs.FS
}

func (n noListFS) Open(name string) (fs.File, error) {
	f, err := n.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		if _, err := fs.Stat(n.fsys, path.Join(name, "index.html")); err != nil {
			_ = f.Close()
			return nil, fs.ErrNotExist
		}
	}
	return f, nil
}
