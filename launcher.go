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

package gamedock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zintix-labs/gamedock/errs"
	"github.com/zintix-labs/gamedock/metrics"
	"github.com/zintix-labs/gamedock/staging"
)

// StageFunc 執行一次 staging。回傳的 error 只會被記錄，不會阻止 server 啟動。
type StageFunc func(ctx context.Context) (*staging.Result, error)

// Server 是本機 HTTP server 的抽象（localsvr.Server 實作此介面）。
type Server interface {
	Start(ctx context.Context) (string, error)
	Stop(ctx context.Context) error
}

// Options 是 Launcher 的選項。
type Options struct {
	Log     *slog.Logger
	Metrics *metrics.Metrics
	// StartTimeout 限制 Server.Start 的時間；0 表示不限制。
	StartTimeout time.Duration
}

// Launcher 依序執行 staging 與 server 啟動，並在 Teardown 時停止 server。
//
// 呈現層只看得到 origin：空字串代表尚未就緒（或啟動失敗），非空代表可以載入。
// 所有錯誤都在 Launcher 內部記錄，不會往外拋。
type Launcher struct {
	stage        StageFunc
	svr          Server
	log          *slog.Logger
	met          *metrics.Metrics
	startTimeout time.Duration
	id           string

	activate sync.Once
	stopOnce sync.Once
	stopped  chan struct{}

	// deliver 讓 origin 通知依序送達：Teardown 的 "" 一定在 origin 之後。
	deliver   sync.Mutex
	announced bool

	mu       sync.Mutex
	state    State
	origin   string
	err      error
	result   *staging.Result
	serverUp bool
	subs     []func(origin string)
	cancel   context.CancelFunc
	done     chan struct{}
}

// New 建立 Launcher。stage 與 svr 皆為必要參數。
func New(stage StageFunc, svr Server, opts Options) *Launcher {
	id := uuid.NewString()
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Launcher{
		stage:        stage,
		svr:          svr,
		log:          log.With(slog.String("launch", id)),
		met:          opts.Metrics,
		startTimeout: opts.StartTimeout,
		id:           id,
		stopped:      make(chan struct{}),
	}
}

// ID 回傳本次啟動的識別碼（也會出現在每一筆 log 的 launch 欄位）。
func (l *Launcher) ID() string { return l.id }

// Activate 開始 Idle → Staging，並在背景 goroutine 中執行 staging 與 server 啟動。
// 只有第一次呼叫有效；Teardown 之後呼叫也不會再啟動。
func (l *Launcher) Activate(ctx context.Context) {
	l.activate.Do(func() {
		l.mu.Lock()
		if l.state != StateIdle {
			l.mu.Unlock()
			return
		}
		runCtx, cancel := context.WithCancel(ctx)
		l.state = StateStaging
		l.cancel = cancel
		l.done = make(chan struct{})
		done := l.done
		l.mu.Unlock()

		l.log.Info("[gamedock] activate")
		go func() {
			defer close(done)
			defer cancel()
			l.run(runCtx)
		}()
	})
}

func (l *Launcher) run(ctx context.Context) {
	// 1. staging：任何錯誤都只記錄
	res, err := l.stage(ctx)
	l.mu.Lock()
	l.result = res
	l.mu.Unlock()
	if res != nil {
		l.met.ObserveStaging(res.Elapsed())
	}
	if err != nil {
		l.fail("staging failed, starting server anyway", err)
	}

	if !l.transition(StateStaging, StateStarting) {
		return
	}

	// 2. 啟動 server
	sctx := ctx
	if l.startTimeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, l.startTimeout)
		defer cancel()
	}
	origin, err := l.svr.Start(sctx)
	if err == nil && origin == "" {
		err = errs.ServerStart("server reported an empty origin", nil)
	}
	if err != nil {
		if errs.CodeOf(err) != errs.CodeServerStart {
			err = errs.ServerStart("start local server", err)
		}
		// server 可能已經部分啟動
		_ = l.svr.Stop(context.WithoutCancel(ctx))
		l.fail("server start failed", err)
		return
	}

	// 3. 發布 origin；Teardown 搶先時立刻停掉剛啟動的 server
	l.mu.Lock()
	if l.state != StateStarting {
		l.mu.Unlock()
		l.log.Info("[gamedock] torn down during start, stopping server")
		if err := l.svr.Stop(context.WithoutCancel(ctx)); err != nil {
			l.log.Error("stop server", slog.Any("err", err))
		}
		return
	}
	l.state = StateServing
	l.origin = origin
	l.serverUp = true
	subs := append([]func(string){}, l.subs...)
	l.mu.Unlock()

	l.log.Info("[gamedock] serving", slog.String("origin", origin))

	l.deliver.Lock()
	defer l.deliver.Unlock()
	if l.State() != StateServing {
		// Teardown 已經搶先
		return
	}
	for _, fn := range subs {
		fn(origin)
	}
	l.announced = true
}

func (l *Launcher) transition(from State, to State) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != from {
		return false
	}
	l.state = to
	return true
}

func (l *Launcher) fail(msg string, err error) {
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
	l.log.Error(msg, slog.Any("err", err))
}

// Teardown 讓 Launcher 進入 Stopped：取消背景工作、停止已啟動的 server，並等待背景 goroutine 結束（受 ctx 限制）。
// 重複呼叫安全；從未啟動 server 時不做任何事。
func (l *Launcher) Teardown(ctx context.Context) error {
	l.mu.Lock()
	prev := l.state
	l.state = StateStopped
	l.origin = ""
	up := l.serverUp
	l.serverUp = false
	cancel, done := l.cancel, l.done
	subs := append([]func(string){}, l.subs...)
	l.mu.Unlock()

	l.stopOnce.Do(func() { close(l.stopped) })
	if cancel != nil {
		cancel()
	}

	var err error
	if up {
		if err = l.svr.Stop(ctx); err != nil {
			l.log.Error("stop server", slog.Any("err", err))
		}
	}
	if prev == StateServing {
		l.deliver.Lock()
		if l.announced {
			l.announced = false
			for _, fn := range subs {
				fn("")
			}
		}
		l.deliver.Unlock()
	}
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			if err == nil {
				err = ctx.Err()
			}
		}
	}
	if prev != StateStopped {
		l.log.Info("[gamedock] stopped", slog.String("from", prev.String()))
	}
	return err
}

// Origin 回傳目前的 origin；尚未 Serving 時為空字串。
func (l *Launcher) Origin() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.origin
}

func (l *Launcher) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err 回傳最後一次被記錄的錯誤。
func (l *Launcher) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Report 回傳 staging 結果；staging 尚未結束時回傳 errs.CodeNotReady。
func (l *Launcher) Report() (*staging.Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.result == nil {
		return nil, errs.NotReady("staging has not finished")
	}
	return l.result, nil
}

// Wait 等待背景工作結束（Serving、啟動失敗或被 Teardown）。
func (l *Launcher) Wait(ctx context.Context) error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return errs.NotReady("launcher not activated")
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnOrigin 訂閱 origin 變化：進入 Serving 時收到 origin，Serving 之後 Teardown 時收到空字串。
// 已經在 Serving 時會立刻以目前 origin 呼叫一次。fn 內不可再呼叫 OnOrigin。
func (l *Launcher) OnOrigin(fn func(origin string)) {
	if fn == nil {
		return
	}
	l.deliver.Lock()
	defer l.deliver.Unlock()
	l.mu.Lock()
	l.subs = append(l.subs, fn)
	origin := l.origin
	l.mu.Unlock()
	if origin != "" {
		fn(origin)
		l.announced = true
	}
}

// Run 實作 app.Component：啟動後阻塞直到 Shutdown。
func (l *Launcher) Run() error {
	l.Activate(context.Background())
	<-l.stopped
	return nil
}

// Shutdown 實作 app.Component。
func (l *Launcher) Shutdown(ctx context.Context) error {
	return l.Teardown(ctx)
}
