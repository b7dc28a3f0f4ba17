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

package step

import (
	"sync"
	"time"
)

// Clock 提供步驟之間的暫停。
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock 使用牆上時間。
type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// NoDelay 是虛擬時鐘：Sleep 不阻塞，只推進內部時間。測試與批次模擬使用。
type NoDelay struct {
	mu  sync.Mutex
	now time.Time
}

func (c *NoDelay) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *NoDelay) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Elapsed 回傳累計的虛擬時間。
func (c *NoDelay) Elapsed() time.Duration {
	return c.Now().Sub(time.Time{})
}
