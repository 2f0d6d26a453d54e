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

// Kind 是 AssetEntry 的節點種類。
type Kind uint8

const (
	File Kind = iota
	Directory
)

func (k Kind) String() string {
	if k == Directory {
		return "dir"
	}
	return "file"
}

// AssetEntry 是列舉來源目錄時得到的一個節點，讀出後即不可變。
//   - Path：在來源命名空間內的位置（packaged 是 slash path，mounted 是 OS path）。
//   - Name：葉節點名稱，用來組出目的地路徑。
type AssetEntry struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

func (e AssetEntry) IsFile() bool { return e.Kind == File }

func (e AssetEntry) IsDir() bool { return e.Kind == Directory }
