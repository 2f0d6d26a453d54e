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

// Package perf 以 pprof 包住一段執行（例如一次 staging），輸出 cpu / heap / allocs profile。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/gamedock/errs"
)

// DefaultDir 是 profile 檔預設寫入路徑。
const DefaultDir = "build/profiling"

// Modes 是可用的 profile 模式；空字串表示不做 profiling。
var Modes = []string{"", "cpu", "heap", "allocs"}

// Run 依 mode 決定執行哪種 profiling，回傳 profile 檔路徑（未做 profiling 時為空）。
// exe 的錯誤優先回傳。
//
//	gamedock-stage -pprof cpu
//	go tool pprof build/profiling/cpu.pprof
func Run(dir string, mode string, exe func() error) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	switch mode {
	case "":
		return "", exe()
	case "cpu":
		return CPU(dir, exe)
	case "heap":
		return snapshot(dir, "heap", exe)
	case "allocs":
		return snapshot(dir, "allocs", exe)
	default:
		return "", errs.Config("unknown pprof mode: %s", mode)
	}
}

// CPU 在 exe 執行期間收集 CPU profile。
func CPU(dir string, exe func() error) (string, error) {
	f, file, err := create(dir, "cpu")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return "", errs.Wrap(err, "start cpu profile")
	}
	runErr := exe()
	pprof.StopCPUProfile()
	return file, runErr
}

// snapshot 在 exe 執行完後寫出一次 heap（in-use）或 allocs（累積配置）快照。
func snapshot(dir string, name string, exe func() error) (string, error) {
	runErr := exe()

	// 盡量讓快照貼近最新狀態
	runtime.GC()

	f, file, err := create(dir, name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if prof := pprof.Lookup(name); prof != nil {
		if err := prof.WriteTo(f, 0); err != nil {
			return "", errs.Wrap(err, "write "+name+" profile")
		}
	}
	return file, runErr
}

func create(dir string, name string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", errs.Wrap(err, "create profiling dir")
	}
	file := filepath.Join(dir, name+".pprof")
	f, err := os.Create(file)
	if err != nil {
		return nil, "", errs.Wrap(err, "create "+file)
	}
	return f, file, nil
}
