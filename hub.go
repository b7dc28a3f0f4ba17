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
	"sync"
	"sync/atomic"

	"github.com/wudsh1/playworks-sub001/sdk/event"
)

// Hub 把一個 session 的訊號廣播給多個訂閱者(websocket 連線)。
// 回合內同步呼叫 OnEvent；訂閱者緩衝滿時直接移除並關閉其通道(計入 dropped)，
// 讓客戶端以斷線得知需要重新同步，不會卡住回合。
type Hub struct {
	mu      sync.Mutex
	subs    map[uint64]chan event.Event
	next    uint64
	closed  bool
	dropped atomic.Int64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan event.Event)}
}

func (h *Hub) OnEvent(e event.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- e:
		default:
			delete(h.subs, id)
			close(ch)
			h.dropped.Add(1)
		}
	}
}

// Subscribe 回傳訊號通道與取消函式；Hub 關閉或取消後通道會被關閉。
func (h *Hub) Subscribe(buf int) (<-chan event.Event, func()) {
	ch := make(chan event.Event, max(buf, 1))
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if c, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(c)
			}
		})
	}
}

// Close 關閉所有訂閱，可重複呼叫。
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped 回傳因緩衝滿而被移除的訂閱者數。
func (h *Hub) Dropped() int64 { return h.dropped.Load() }
