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

// Package localsvr 是「本機靜態檔案 HTTP server」：給定根目錄與 port（0 = 自動分配）啟動服務並回傳 origin，可被停止。
//
//	s := localsvr.New(0, rootDir, localsvr.Options{LocalOnly: true})
//	origin, err := s.Start(ctx)   // "http://localhost:53817"
//	defer s.Stop(ctx)
//
// LocalOnly 時只綁 127.0.0.1，裝置外部無法連線。
package localsvr

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/zintix-labs/gamedock/errs"
	"github.com/zintix-labs/gamedock/metrics"
	"github.com/zintix-labs/gamedock/server/api"
	"github.com/zintix-labs/gamedock/server/netsvr"
	"github.com/zintix-labs/gamedock/server/svrcfg"
)

// Options 是 Start 的選項。
type Options struct {
	LocalOnly bool
	Log       *slog.Logger
	Metrics   *metrics.Metrics
	Report    svrcfg.ReportFunc
}

// Server 持有一個本機 server 的生命週期。Start / Stop 皆可重複呼叫。
type Server struct {
	port int
	root string
	opts Options

	mu     sync.Mutex
	svr    *netsvr.ChiAdapter
	origin string
	done   chan error
}

func New(port int, rootDir string, opts Options) *Server {
	return &Server{port: port, root: rootDir, opts: opts}
}

// Start 綁定 port、註冊路由並在背景開始服務，回傳 origin（scheme + host + port）。
// 已經啟動時直接回傳既有 origin。
func (s *Server) Start(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svr != nil {
		return s.origin, nil
	}
	if err := ctx.Err(); err != nil {
		return "", errs.ServerStart("start canceled", err)
	}

	sCfg := &svrcfg.SvrCfg{
		Log:       s.opts.Log,
		RootDir:   s.root,
		LocalOnly: s.opts.LocalOnly,
		Metrics:   s.opts.Metrics,
		Report:    s.opts.Report,
	}
	if err := sCfg.Vaild(); err != nil {
		return "", errs.ServerStart("invalid server config", err)
	}

	host := ""
	if s.opts.LocalOnly {
		host = "127.0.0.1"
	}
	svr := netsvr.NewChiServer(net.JoinHostPort(host, strconv.Itoa(s.port)))
	api.RegisterRoutes(svr, sCfg)

	addr, err := svr.Listen()
	if err != nil {
		return "", errs.ServerStart("listen failed", err)
	}
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || tcp.Port == 0 {
		_ = svr.Shutdown(context.Background())
		return "", errs.ServerStart("no port assigned", nil)
	}

	done := make(chan error, 1)
	go func() {
		done <- svr.Run()
	}()

	s.svr = svr
	s.done = done
	s.origin = origin(s.opts.LocalOnly, tcp.Port)
	s.opts.Metrics.SetServerUp(true)
	sCfg.Log.Info("[gamedock] serving",
		slog.String("origin", s.origin),
		slog.String("root", sCfg.RootDir),
		slog.String("listen", svr.Address()),
	)
	return s.origin, nil
}

// Stop 優雅關閉；從未啟動時不做事。
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svr == nil {
		return nil
	}
	err := s.svr.Shutdown(ctx)
	if runErr := <-s.done; err == nil {
		err = runErr
	}
	s.svr = nil
	s.origin = ""
	s.opts.Metrics.SetServerUp(false)
	return err
}

// Origin 回傳目前的 origin；尚未啟動時為空字串。
func (s *Server) Origin() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.origin
}

// origin 組出對外的 URL：LocalOnly 用 localhost；否則用第一個非 loopback 的 IPv4。
func origin(localOnly bool, port int) string {
	if localOnly {
		return fmt.Sprintf("http://localhost:%d", port)
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(lanIPv4(), strconv.Itoa(port)))
}

func lanIPv4() string {
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, a := range addrs {
			ipn, ok := a.(*net.IPNet)
			if !ok || ipn.IP.IsLoopback() {
				continue
			}
			if v4 := ipn.IP.To4(); v4 != nil {
				return v4.String()
			}
		}
	}
	return "127.0.0.1"
}
