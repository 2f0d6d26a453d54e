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

// Package staging 把 bundle 內唯讀的遊戲資產複製到可寫入的儲存空間，讓本機 HTTP server 可以服務它們。
//
// 行為合約（contract）：
//   - 單向、一次性複製；不做差異比對、不處理衝突、不回滾。
//   - best-effort：單一檔案複製失敗只記錄（Result.Failed + log），不影響兄弟節點，也不回傳給呼叫端。
//   - 目錄一定會被建立，即使裡面的檔案全部失敗。
//   - 冪等：對已經 staging 過的目的地重跑是安全的（檔案覆寫，不刪除任何東西）。
//   - 只有「根目錄列不出來」或「根目的地建不起來」會回傳錯誤。
package staging

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zintix-labs/gamedock/errs"
)

const defaultConcurrency = 8

// Options 控制 Stager 的行為。
type Options struct {
	// Concurrency 是同時進行中的檔案複製上限；<= 0 使用預設值 8。
	Concurrency int
	// Log 為 nil 時不輸出。
	Log *slog.Logger
	// Observers 會收到每個目錄 / 檔案事件（Result 永遠會被加入）。
	Observers []Observer
}

// Stager 執行遞迴 staging。兩種定址方式共用同一份遞迴程序，差異只在 Source。
type Stager struct {
	src   Source
	disk  Disk
	log   *slog.Logger
	obs   Observers
	limit int
}

func New(src Source, opts Options) *Stager {
	s := &Stager{
		src:   src,
		log:   opts.Log,
		obs:   append(Observers(nil), opts.Observers...),
		limit: opts.Concurrency,
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.limit <= 0 {
		s.limit = defaultConcurrency
	}
	return s
}

// Stage 把 source（來源命名空間內的路徑）複製到 destination（可寫入儲存空間的路徑）。
//
// 同一目錄內的檔案會併發複製（上限為 Options.Concurrency）；子目錄則在呼叫端 goroutine 上深度優先遞迴。
// Stage 會等待所有進行中的複製結束才回傳。
//
// ctx 被取消後不會再發出新的複製，但已經在進行中的複製會跑完。
func (s *Stager) Stage(ctx context.Context, source string, destination string) (*Result, error) {
	res := newResult(s.src.Scheme(), source, destination)
	obs := append(Observers{res}, s.obs...)

	var g errgroup.Group
	g.SetLimit(s.limit)

	err := s.stageDir(ctx, &g, obs, source, destination, true)
	_ = g.Wait()
	res.finish(ctx.Err() != nil)

	if err != nil {
		return res, err
	}
	s.log.Info("staging done",
		slog.String("source", source),
		slog.String("destination", destination),
		slog.Int("copied", len(res.Copied)),
		slog.Int("failed", len(res.Failed)),
		slog.Duration("took", res.Elapsed()),
	)
	return res, nil
}

func (s *Stager) stageDir(ctx context.Context, g *errgroup.Group, obs Observers, source string, destination string, root bool) error {
	s.log.Debug("staging directory", slog.String("source", source), slog.String("destination", destination))

	// 1. 列舉來源
	items, err := s.src.List(source)
	if err != nil {
		e := errs.Enumeration(source, err)
		if root {
			return e
		}
		// 子目錄列不出來：放棄這棵子樹，兄弟節點照常
		s.log.Warn("skip subtree", slog.Any("err", e))
		obs.FileFailed(source, e)
		return nil
	}

	// 2. 建立目的地（已存在不算錯誤）
	if err := s.disk.MakeDirectory(destination); err != nil {
		e := errs.Copy(source, destination, err)
		if root {
			return e
		}
		s.log.Error("make directory failed", slog.Any("err", e))
		obs.FileFailed(source, e)
		return nil
	}
	obs.DirCreated(destination)

	// 3. 逐一處理
	for _, item := range items {
		if ctx.Err() != nil {
			s.log.Warn("staging canceled", slog.String("source", source))
			return nil
		}
		if item.IsFile() {
			s.copyFile(g, obs, item.Path, filepath.Join(destination, item.Name))
			continue
		}
		if err := s.stageDir(ctx, g, obs, s.src.Join(source, item.Name), filepath.Join(destination, item.Name), false); err != nil {
			return err
		}
	}
	return nil
}

// copyFile 排進 errgroup；失敗只記錄，不會讓 group 中止。
func (s *Stager) copyFile(g *errgroup.Group, obs Observers, src string, dst string) {
	g.Go(func() error {
		start := time.Now()
		n, err := s.src.CopyTo(src, dst)
		if err != nil {
			e := errs.Copy(src, dst, err)
			s.log.Error("copy failed", slog.Any("err", e))
			obs.FileFailed(src, e)
			return nil
		}
		s.log.Debug("copied", slog.String("source", src), slog.String("dest", dst), slog.Int64("bytes", n))
		obs.FileCopied(src, dst, n, time.Since(start))
		return nil
	})
}

// Count 計算 source 底下的檔案數（供 progress bar 預估總量）。
// 列不出來的子目錄略過，只有根目錄列不出來會回傳錯誤。
func Count(ctx context.Context, src Source, source string) (int, error) {
	items, err := src.List(source)
	if err != nil {
		return 0, errs.Enumeration(source, err)
	}
	n := 0
	for _, it := range items {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		if it.IsFile() {
			n++
			continue
		}
		sub, err := Count(ctx, src, src.Join(source, it.Name))
		if err != nil && errs.CodeOf(err) != errs.CodeEnumeration {
			return n + sub, err
		}
		n += sub
	}
	return n, nil
}

// Run 依 Layout 執行一次完整的平台 staging：
//  1. 目的地不存在就先建立。
//  2. 依 Scheme 選擇來源（mounted 用 Disk；packaged 用 bundle）。
//  3. 執行遞迴 Stage。
//
// bundle 只有在 SchemePackaged 時會被使用。
func Run(ctx context.Context, l Layout, bundle fs.FS, opts Options) (*Result, error) {
	var disk Disk
	if !disk.IsDirectory(l.Target) {
		if err := disk.MakeDirectory(l.Target); err != nil {
			return nil, errs.Copy(l.Source, l.Target, err)
		}
	}

	var src Source
	switch l.Scheme {
	case SchemeMounted:
		src = Mounted(disk)
	default:
		if bundle == nil {
			return nil, errs.Config("packaged scheme requires a bundle")
		}
		src = Packaged(bundle)
	}
	return New(src, opts).Stage(ctx, l.Source, l.Target)
}
