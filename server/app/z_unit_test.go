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
	"testing"
	"time"
)

func TestBackgroundStopsOnShutdown(t *testing.T) {
	ticks := make(chan struct{}, 1)
	b := NewBackground(func(ctx context.Context) {
		ticks <- struct{}{}
		<-ctx.Done()
	})
	errCh := make(chan error, 1)
	go func() { errCh <- b.Run() }()
	<-ticks

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := b.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestCloserCallsFn(t *testing.T) {
	called := false
	c := NewCloser(func() { called = true })
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run() }()
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := <-errCh; err != nil || !called {
		t.Fatalf("run err=%v called=%v", err, called)
	}
}
