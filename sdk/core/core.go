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

package core

type PRNG interface {
	RAND
	Restorable
}

type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
	// ExpFloat64 回傳平均為 1 的指數分佈亂數（加權抽樣用）。
	ExpFloat64() float64
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 合約：相同實作與版本下 New(seed) 必須是決定性的，
	// 相同 seed 產生相同的輸出序列。回放(replay)與批次模擬都依賴這一點。
	New(int64) PRNG
}

type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 是盤面引擎共用的亂數核心，所有生成(行、道具、目標物)都從這裡取樣。
// 僅在單一 goroutine 下使用。
type Core struct {
	PRNG
}

func New(rng PRNG) *Core {
	return &Core{rng}
}

// NewWithSeed 以預設 PCG64 建立 Core。
func NewWithSeed(seed int64) *Core {
	return New(Default().New(seed))
}

func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	idx := c.IntN(len(src))
	return src[idx]
}

func (c *Core) ShuffleInts(src []int) {
	if len(src) <= 1 {
		return
	}
	for i := len(src) - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		src[i], src[j] = src[j], src[i]
	}
}

// Chance 以機率 p 回傳 true。p <= 0 永遠 false，p >= 1 永遠 true（且不消耗亂數）。
func (c *Core) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return c.Float64() < p
}

// Between 回傳 [lo,hi] 的整數；hi < lo 時回傳 lo。
func (c *Core) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + c.IntN(hi-lo+1)
}
