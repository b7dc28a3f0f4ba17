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

package playworks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/event"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/spec"
)

var (
	ErrSessionNotFound = errs.NewWarn("session not found")
	ErrRuntimeFull     = errs.NewWarn("too many sessions")
)

// Runtime 是服務端的多 session 容器。
//
//   - 每個 session 各自序列化回合，不同 session 之間可並行。
//   - 回合中 panic 或 Fatal 錯誤會讓該 session 進入 Broken，不影響其他 session。
//   - Close 之後所有操作直接回錯誤。
type Runtime struct {
	lab  *Lab
	opts []SessionOption
	max  int

	mu       sync.RWMutex
	sessions map[string]*slot

	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string

	created  atomic.Int64
	deleted  atomic.Int64
	evicted  atomic.Int64
	moves    atomic.Int64
	rejected atomic.Int64
	panics   atomic.Int64
	fatals   atomic.Int64
}

type slot struct {
	s       *Session
	hub     *Hub
	level   atomic.Uint64 // spec.LID
	touched atomic.Int64  // unix nano
}

func (sl *slot) touch() { sl.touched.Store(time.Now().UnixNano()) }

func newRuntime(l *Lab, maxSessions int, opts ...SessionOption) *Runtime {
	rt := &Runtime{
		lab:      l,
		opts:     opts,
		max:      maxSessions,
		sessions: make(map[string]*slot),
		done:     make(chan struct{}),
	}
	rt.reason.Store("")
	return rt
}

func (rt *Runtime) Lab() *Lab { return rt.lab }

func (rt *Runtime) check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return errs.NewWarn("request canceled/timeout: " + ctx.Err().Error())
	case <-rt.done:
		return errs.NewFatal("runtime closed: " + rt.ClosedReason())
	default:
		return nil
	}
}

// Create 開一局新的 session；seed 為 nil 時隨機。
func (rt *Runtime) Create(ctx context.Context, level spec.LID, seed *int64) (*Session, error) {
	if err := rt.check(ctx); err != nil {
		return nil, err
	}
	if rt.max > 0 && rt.Len() >= rt.max {
		return nil, errs.Reject(ErrRuntimeFull, fmt.Sprintf("max=%d", rt.max))
	}
	hub := NewHub()
	opts := append(append([]SessionOption(nil), rt.opts...), WithListener(hub))
	var (
		s   *Session
		err error
	)
	if seed != nil {
		s, err = rt.lab.NewSessionWithSeed(level, *seed, opts...)
	} else {
		s, err = rt.lab.NewSession(level, opts...)
	}
	if err != nil {
		return nil, err
	}
	sl := &slot{s: s, hub: hub}
	sl.level.Store(uint64(level))
	sl.touch()

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.max > 0 && len(rt.sessions) >= rt.max {
		return nil, errs.Reject(ErrRuntimeFull, fmt.Sprintf("max=%d", rt.max))
	}
	rt.sessions[s.ID()] = sl
	rt.created.Add(1)
	return s, nil
}

func (rt *Runtime) slot(id string) (*slot, error) {
	rt.mu.RLock()
	sl, ok := rt.sessions[id]
	rt.mu.RUnlock()
	if !ok {
		return nil, errs.Reject(ErrSessionNotFound, id)
	}
	sl.touch()
	return sl, nil
}

func (rt *Runtime) Get(id string) (*Session, error) {
	sl, err := rt.slot(id)
	if err != nil {
		return nil, err
	}
	return sl.s, nil
}

// Level 回傳 session 目前所在的關卡 id。
func (rt *Runtime) Level(id string) (spec.LID, error) {
	sl, err := rt.slot(id)
	if err != nil {
		return 0, err
	}
	return spec.LID(sl.level.Load()), nil
}

func (rt *Runtime) Delete(id string) error {
	rt.mu.Lock()
	sl, ok := rt.sessions[id]
	delete(rt.sessions, id)
	rt.mu.Unlock()
	if !ok {
		return errs.Reject(ErrSessionNotFound, id)
	}
	sl.hub.Close()
	rt.deleted.Add(1)
	return nil
}

// Move 轉送到 session 並統計；panic 會被收斂成 Fatal 錯誤並讓該 session 進入 Broken。
func (rt *Runtime) Move(ctx context.Context, id string, m grid.Move) (rep TurnReport, err error) {
	if err := rt.check(ctx); err != nil {
		return TurnReport{}, err
	}
	sl, err := rt.slot(id)
	if err != nil {
		return TurnReport{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			rt.panics.Add(1)
			err = errs.Fatalf("session %s panic: %v", id, r)
			sl.s.fail(err)
		}
		switch {
		case err == nil:
			rt.moves.Add(1)
		case errs.IsFatal(err):
			rt.fatals.Add(1)
		default:
			rt.rejected.Add(1)
		}
	}()
	return sl.s.Move(ctx, m)
}

func (rt *Runtime) Restart(ctx context.Context, id string) (Status, error) {
	if err := rt.check(ctx); err != nil {
		return Status{}, err
	}
	sl, err := rt.slot(id)
	if err != nil {
		return Status{}, err
	}
	if err := sl.s.Restart(); err != nil {
		return Status{}, err
	}
	return sl.s.Status(), nil
}

// Next 進入目錄中的下一關；已是最後一關時留在原關卡，只增加關卡序號。
func (rt *Runtime) Next(ctx context.Context, id string) (Status, error) {
	if err := rt.check(ctx); err != nil {
		return Status{}, err
	}
	sl, err := rt.slot(id)
	if err != nil {
		return Status{}, err
	}
	cur := spec.LID(sl.level.Load())
	gs, err := rt.lab.NextSetting(cur)
	if err != nil {
		return Status{}, err
	}
	if err := sl.s.NextLevel(gs); err != nil {
		return Status{}, err
	}
	if gs != nil {
		sl.level.Store(uint64(gs.LevelID))
	}
	return sl.s.Status(), nil
}

// Subscribe 訂閱 session 的訊號。
func (rt *Runtime) Subscribe(id string, buf int) (<-chan event.Event, func(), error) {
	sl, err := rt.slot(id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := sl.hub.Subscribe(buf)
	return ch, cancel, nil
}

// Sweep 移除閒置超過 idle 的 session，回傳移除數量。
func (rt *Runtime) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle).UnixNano()
	rt.mu.Lock()
	var stale []*slot
	for id, sl := range rt.sessions {
		if sl.touched.Load() < cutoff && !sl.s.IsProcessing() {
			delete(rt.sessions, id)
			stale = append(stale, sl)
		}
	}
	rt.mu.Unlock()
	for _, sl := range stale {
		sl.hub.Close()
	}
	rt.evicted.Add(int64(len(stale)))
	return len(stale)
}

// RunSweeper 每隔 period 清一次閒置 session，直到 ctx 結束或 runtime 關閉。
func (rt *Runtime) RunSweeper(ctx context.Context, period, idle time.Duration) {
	tk := time.NewTicker(period)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-rt.done:
			return
		case <-tk.C:
			rt.Sweep(idle)
		}
	}
}

func (rt *Runtime) Len() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return len(rt.sessions)
}

// Close 關閉 runtime 並斷開所有訂閱，可重複呼叫。
func (rt *Runtime) Close() {
	rt.closeWithReason("closed")
}

func (rt *Runtime) closeWithReason(reason string) {
	rt.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		rt.reason.Store(reason)
		rt.closed.Store(true)
		close(rt.done)
		rt.mu.RLock()
		for _, sl := range rt.sessions {
			sl.hub.Close()
		}
		rt.mu.RUnlock()
	})
}

func (rt *Runtime) Closed() bool { return rt.closed.Load() }

func (rt *Runtime) ClosedReason() string {
	if s, ok := rt.reason.Load().(string); ok {
		return s
	}
	return ""
}

// RuntimeMetrics 拉取式的觀測快照，不綁定任何 metrics SDK。
type RuntimeMetrics struct {
	Sessions    int    `json:"sessions"`
	MaxSessions int    `json:"max_sessions"` // 0 表示不設上限
	Processing  int    `json:"processing"`   // 當下回合進行中的 session 數
	Created     int64  `json:"created"`
	Deleted     int64  `json:"deleted"`
	Evicted     int64  `json:"evicted"`
	Moves       int64  `json:"moves"`
	Rejected    int64  `json:"rejected"` // Warn 等級的拒絕(不合法、忙碌、已結束)
	Panics      int64  `json:"panics"`
	Fatals      int64  `json:"fatals"`
	Dropped     int64  `json:"dropped"` // 緩衝滿而被移除的訂閱者
	Closed      bool   `json:"closed"`
	CloseReason string `json:"close_reason"`
}

func (rt *Runtime) Metrics() RuntimeMetrics {
	m := RuntimeMetrics{
		MaxSessions: rt.max,
		Created:     rt.created.Load(),
		Deleted:     rt.deleted.Load(),
		Evicted:     rt.evicted.Load(),
		Moves:       rt.moves.Load(),
		Rejected:    rt.rejected.Load(),
		Panics:      rt.panics.Load(),
		Fatals:      rt.fatals.Load(),
		Closed:      rt.Closed(),
		CloseReason: rt.ClosedReason(),
	}
	rt.mu.RLock()
	m.Sessions = len(rt.sessions)
	for _, sl := range rt.sessions {
		if sl.s.IsProcessing() {
			m.Processing++
		}
		m.Dropped += sl.hub.Dropped()
	}
	rt.mu.RUnlock()
	return m
}
