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

package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type blockingComp struct {
	mu       sync.Mutex
	order    *[]string
	name     string
	stop     chan struct{}
	once     sync.Once
	runErr   error
	shutdown int
}

func newComp(name string, order *[]string) *blockingComp {
	return &blockingComp{name: name, order: order, stop: make(chan struct{})}
}

func (c *blockingComp) Run() error {
	if c.runErr != nil {
		return c.runErr
	}
	<-c.stop
	return nil
}

func (c *blockingComp) Shutdown(context.Context) error {
	c.mu.Lock()
	c.shutdown++
	*c.order = append(*c.order, c.name)
	c.mu.Unlock()
	c.once.Do(func() { close(c.stop) })
	return nil
}

func TestRunContextCancelShutsDownInReverse(t *testing.T) {
	var order []string
	a, b := newComp("a", &order), newComp("b", &order)
	app := NewWith(a, b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunContext did not return")
	}
	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Fatalf("unexpected shutdown order: %v", order)
	}
}

func TestComponentErrorStopsOthers(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	bad := newComp("bad", &order)
	bad.runErr = boom
	good := newComp("good", &order)

	err := NewWith(good, bad).WithShutdownTimeout(time.Second).Run()
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if good.shutdown != 1 {
		t.Fatalf("expected good component to be shut down once, got %d", good.shutdown)
	}
}
