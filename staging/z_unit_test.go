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
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/zintix-labs/gamedock/errs"
)

// writeTree 把 files（slash path -> 內容）寫到 root 底下；以 "/" 結尾的 key 代表空目錄。
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for p, body := range files {
		full := filepath.Join(root, filepath.FromSlash(p))
		if strings.HasSuffix(p, "/") {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", full, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", full, err)
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
}

func mapFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for p, body := range files {
		if strings.HasSuffix(p, "/") {
			m[strings.TrimSuffix(p, "/")] = &fstest.MapFile{Mode: fs.ModeDir | 0o755}
			continue
		}
		m[p] = &fstest.MapFile{Data: []byte(body), Mode: 0o644}
	}
	return m
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read %s: %v", p, err)
	}
	return string(b)
}

// sources 對同一棵樹建出兩種定址方式的來源。
func sources(t *testing.T, files map[string]string) map[string]struct {
	src  Source
	root string
} {
	t.Helper()
	bundle := t.TempDir()
	nsFiles := map[string]string{}
	for p, body := range files {
		nsFiles["game/"+p] = body
	}
	writeTree(t, bundle, nsFiles)
	return map[string]struct {
		src  Source
		root string
	}{
		"packaged": {src: Packaged(mapFS(nsFiles)), root: "game"},
		"mounted":  {src: Mounted(Disk{}), root: filepath.Join(bundle, "game")},
	}
}

func TestStageFlatTree(t *testing.T) {
	files := map[string]string{"index.html": "<html>", "main.js": "go()", "style.css": "body{}"}
	for name, tc := range sources(t, files) {
		t.Run(name, func(t *testing.T) {
			dst := filepath.Join(t.TempDir(), "game")
			res, err := New(tc.src, Options{}).Stage(context.Background(), tc.root, dst)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			for p, body := range files {
				if got := readFile(t, filepath.Join(dst, p)); got != body {
					t.Fatalf("%s: expected %q, got %q", p, body, got)
				}
			}
			if len(res.Copied) != len(files) || len(res.Failed) != 0 {
				t.Fatalf("unexpected result: copied=%d failed=%d", len(res.Copied), len(res.Failed))
			}
			if res.Scheme != name {
				t.Fatalf("expected scheme %s, got %s", name, res.Scheme)
			}
		})
	}
}

func TestStageNestedTreeMirrorsDirectories(t *testing.T) {
	files := map[string]string{
		"a.txt":         "hi",
		"sub/b.txt":     "yo",
		"sub/deep/c.js": "c",
		"empty/":        "",
		"sub/hollow/":   "",
	}
	for name, tc := range sources(t, files) {
		t.Run(name, func(t *testing.T) {
			dst := filepath.Join(t.TempDir(), "game")
			if _, err := New(tc.src, Options{Concurrency: 2}).Stage(context.Background(), tc.root, dst); err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got := readFile(t, filepath.Join(dst, "sub", "deep", "c.js")); got != "c" {
				t.Fatalf("unexpected nested content %q", got)
			}
			for _, d := range []string{"empty", filepath.Join("sub", "hollow"), filepath.Join("sub", "deep")} {
				if !(Disk{}).IsDirectory(filepath.Join(dst, d)) {
					t.Fatalf("expected directory %s to be mirrored", d)
				}
			}
		})
	}
}

func TestStageScenarioFromBundle(t *testing.T) {
	src := Packaged(mapFS(map[string]string{"game/a.txt": "hi", "game/sub/b.txt": "yo"}))
	dst := t.TempDir()
	if _, err := New(src, Options{}).Stage(context.Background(), "game", dst); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if readFile(t, filepath.Join(dst, "a.txt")) != "hi" || readFile(t, filepath.Join(dst, "sub", "b.txt")) != "yo" {
		t.Fatalf("staged tree does not match source")
	}
}

// flakySource 讓名稱在 bad 內的檔案複製失敗。
type flakySource struct {
	Source
	bad   map[string]bool
	calls atomic.Int32
}

func (f *flakySource) CopyTo(src string, dst string) (int64, error) {
	f.calls.Add(1)
	if f.bad[filepath.Base(dst)] {
		return 0, fs.ErrPermission
	}
	return f.Source.CopyTo(src, dst)
}

func TestStageSingleCopyFailureDoesNotStopSiblings(t *testing.T) {
	files := map[string]string{"a.txt": "a", "b.txt": "b", "c.txt": "c", "sub/d.txt": "d"}
	for name, tc := range sources(t, files) {
		t.Run(name, func(t *testing.T) {
			src := &flakySource{Source: tc.src, bad: map[string]bool{"b.txt": true}}
			dst := t.TempDir()
			res, err := New(src, Options{}).Stage(context.Background(), tc.root, dst)
			if err != nil {
				t.Fatalf("copy failures must not escalate: %v", err)
			}
			if src.calls.Load() != 4 {
				t.Fatalf("expected 4 copy attempts, got %d", src.calls.Load())
			}
			for _, p := range []string{"a.txt", "c.txt", filepath.Join("sub", "d.txt")} {
				if _, err := os.Stat(filepath.Join(dst, p)); err != nil {
					t.Fatalf("expected sibling %s to be copied: %v", p, err)
				}
			}
			if len(res.Failed) != 1 || filepath.Base(res.Failed[0].Path) != "b.txt" || res.Failed[0].Code != errs.CodeCopy.String() {
				t.Fatalf("unexpected failures: %+v", res.Failed)
			}
			if len(res.Copied) != 3 {
				t.Fatalf("expected 3 copies, got %d", len(res.Copied))
			}
		})
	}
}

func TestStageCollisionOnDiskIsRecorded(t *testing.T) {
	src := Packaged(mapFS(map[string]string{"game/a.txt": "a", "game/b.txt": "b"}))
	dst := t.TempDir()
	// 目的地已有同名目錄：無法以檔案開啟寫入
	if err := os.MkdirAll(filepath.Join(dst, "a.txt"), 0o755); err != nil {
		t.Fatal(err)
	}
	res, err := New(src, Options{}).Stage(context.Background(), "game", dst)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if readFile(t, filepath.Join(dst, "b.txt")) != "b" {
		t.Fatalf("expected b.txt to be copied")
	}
	if len(res.Failed) != 1 {
		t.Fatalf("expected one failure, got %+v", res.Failed)
	}
}

func TestStageTwiceIsIdempotent(t *testing.T) {
	files := map[string]string{"a.txt": "hi", "sub/b.txt": "yo"}
	for name, tc := range sources(t, files) {
		t.Run(name, func(t *testing.T) {
			dst := t.TempDir()
			// 先前殘留的檔案不可被刪除
			writeTree(t, dst, map[string]string{"saved.json": "{}"})

			st := New(tc.src, Options{})
			for i := 0; i < 2; i++ {
				res, err := st.Stage(context.Background(), tc.root, dst)
				if err != nil {
					t.Fatalf("run %d: unexpected err: %v", i, err)
				}
				if len(res.Copied) != 2 || len(res.Failed) != 0 {
					t.Fatalf("run %d: unexpected result copied=%d failed=%+v", i, len(res.Copied), res.Failed)
				}
			}
			if readFile(t, filepath.Join(dst, "saved.json")) != "{}" {
				t.Fatalf("existing file was touched")
			}
			if readFile(t, filepath.Join(dst, "a.txt")) != "hi" || readFile(t, filepath.Join(dst, "sub", "b.txt")) != "yo" {
				t.Fatalf("staged files changed after second run")
			}
		})
	}
}

func TestStageRootEnumerationFailure(t *testing.T) {
	src := Packaged(mapFS(map[string]string{"game/a.txt": "hi"}))
	res, err := New(src, Options{}).Stage(context.Background(), "missing", t.TempDir())
	if !errors.Is(err, errs.ErrEnumeration) {
		t.Fatalf("expected enumeration error, got %v", err)
	}
	if res == nil || len(res.Copied) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

// brokenDir 讓指定目錄無法列出。
type brokenDir struct {
	Source
	dir string
}

func (b *brokenDir) List(dir string) ([]AssetEntry, error) {
	if dir == b.dir {
		return nil, fs.ErrPermission
	}
	return b.Source.List(dir)
}

func TestStageNestedEnumerationFailureSkipsSubtreeOnly(t *testing.T) {
	src := &brokenDir{
		Source: Packaged(mapFS(map[string]string{"game/a.txt": "a", "game/bad/x.txt": "x", "game/ok/y.txt": "y"})),
		dir:    "game/bad",
	}
	dst := t.TempDir()
	res, err := New(src, Options{}).Stage(context.Background(), "game", dst)
	if err != nil {
		t.Fatalf("nested enumeration failure must not escalate: %v", err)
	}
	if readFile(t, filepath.Join(dst, "ok", "y.txt")) != "y" {
		t.Fatalf("expected sibling subtree to be staged")
	}
	if len(res.Failed) != 1 || res.Failed[0].Code != errs.CodeEnumeration.String() {
		t.Fatalf("unexpected failures: %+v", res.Failed)
	}
}

func TestStageCanceledBeforeStart(t *testing.T) {
	src := Packaged(mapFS(map[string]string{"game/a.txt": "a"}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dst := filepath.Join(t.TempDir(), "game")
	res, err := New(src, Options{}).Stage(ctx, "game", dst)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.Canceled || len(res.Copied) != 0 {
		t.Fatalf("expected canceled run with no copies: %+v", res)
	}
}

// gatedSource 讓 CopyTo 卡住直到 release 關閉；列舉到 cancelAt 目錄時取消 ctx。
type gatedSource struct {
	Source
	cancelAt string
	cancel   context.CancelFunc
	started  chan struct{}
	release  chan struct{}
	once     sync.Once
}

func (g *gatedSource) CopyTo(src string, dst string) (int64, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return g.Source.CopyTo(src, dst)
}

func (g *gatedSource) List(dir string) ([]AssetEntry, error) {
	items, err := g.Source.List(dir)
	if filepath.Base(dir) == g.cancelAt {
		// 等第一個複製真的開始後才取消
		<-g.started
		g.cancel()
		close(g.release)
	}
	return items, err
}

func TestStageCancelMidRunFinishesInFlightCopies(t *testing.T) {
	files := map[string]string{"a.txt": "a", "sub/b.txt": "b", "sub/c.txt": "c"}
	for name, tc := range sources(t, files) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			src := &gatedSource{
				Source:   tc.src,
				cancelAt: "sub",
				cancel:   cancel,
				started:  make(chan struct{}),
				release:  make(chan struct{}),
			}
			dst := t.TempDir()
			res, err := New(src, Options{Concurrency: 4}).Stage(ctx, tc.root, dst)
			if err != nil {
				t.Fatalf("cancel must not surface as error: %v", err)
			}
			if !res.Canceled {
				t.Fatalf("expected canceled result")
			}
			if readFile(t, filepath.Join(dst, "a.txt")) != "a" {
				t.Fatalf("in-flight copy must complete")
			}
			if len(res.Copied) != 1 || len(res.Failed) != 0 {
				t.Fatalf("expected only the in-flight copy, got copied=%d failed=%d", len(res.Copied), len(res.Failed))
			}
			for _, p := range []string{"b.txt", "c.txt"} {
				if _, err := os.Stat(filepath.Join(dst, "sub", p)); !errors.Is(err, fs.ErrNotExist) {
					t.Fatalf("no copy may start after cancel, found %s (%v)", p, err)
				}
			}
		})
	}
}

type countingObserver struct {
	dirs, copied, failed atomic.Int32
}

func (c *countingObserver) DirCreated(string) { c.dirs.Add(1) }
func (c *countingObserver) FileCopied(string, string, int64, time.Duration) { c.copied.Add(1) }
func (c *countingObserver) FileFailed(string, error) { c.failed.Add(1) }

func TestStageNotifiesObservers(t *testing.T) {
	src := Packaged(mapFS(map[string]string{"game/a.txt": "a", "game/sub/b.txt": "b"}))
	ob := &countingObserver{}
	res, err := New(src, Options{Observers: []Observer{ob}}).Stage(context.Background(), "game", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ob.dirs.Load() != 2 || ob.copied.Load() != 2 || ob.failed.Load() != 0 {
		t.Fatalf("unexpected observer counts: dirs=%d copied=%d failed=%d", ob.dirs.Load(), ob.copied.Load(), ob.failed.Load())
	}
	if res.Bytes() != 2 {
		t.Fatalf("expected 2 bytes, got %d", res.Bytes())
	}
}

func TestCount(t *testing.T) {
	src := Packaged(mapFS(map[string]string{"game/a.txt": "a", "game/sub/b.txt": "b", "game/sub/c/d.txt": "d", "game/e/": ""}))
	n, err := Count(context.Background(), src, "game")
	if err != nil || n != 3 {
		t.Fatalf("expected 3 files, got %d (%v)", n, err)
	}
	if _, err := Count(context.Background(), src, "nope"); !errors.Is(err, errs.ErrEnumeration) {
		t.Fatalf("expected enumeration error, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	dirs := Dirs{MainBundleDir: "/bundle", DocumentDir: "/docs"}
	ios := Resolve("ios", dirs, "game/")
	if ios.Scheme != SchemeMounted || ios.Source != filepath.Join("/bundle", "game") || ios.Target != filepath.Join("/docs", "game") {
		t.Fatalf("unexpected ios layout: %+v", ios)
	}
	android := Resolve("android", dirs, "game/")
	if android.Scheme != SchemePackaged || android.Source != "game" || android.Target != filepath.Join("/docs", "game") {
		t.Fatalf("unexpected android layout: %+v", android)
	}
	if SchemeFor("linux", "") != SchemePackaged || SchemeFor("linux", "/b") != SchemeMounted {
		t.Fatalf("unexpected desktop scheme selection")
	}
}

func TestRunPackagedCreatesTarget(t *testing.T) {
	bundle := mapFS(map[string]string{"game/index.html": "<html>"})
	l := Resolve("android", Dirs{DocumentDir: t.TempDir()}, "game/")
	res, err := Run(context.Background(), l, bundle, Options{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if readFile(t, filepath.Join(l.Target, "index.html")) != "<html>" || len(res.Copied) != 1 {
		t.Fatalf("unexpected run result: %+v", res)
	}
	if _, err := Run(context.Background(), l, nil, Options{}); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("expected config error without bundle, got %v", err)
	}
}

func TestRunMountedFromDisk(t *testing.T) {
	bundle := t.TempDir()
	writeTree(t, bundle, map[string]string{"game/a.txt": "hi", "game/sub/b.txt": "yo"})
	l := Resolve("ios", Dirs{MainBundleDir: bundle, DocumentDir: t.TempDir()}, "game")
	if _, err := Run(context.Background(), l, nil, Options{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if readFile(t, filepath.Join(l.Target, "sub", "b.txt")) != "yo" {
		t.Fatalf("mounted staging did not mirror tree")
	}
}
