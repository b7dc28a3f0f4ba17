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

package sampler

import (
	"container/heap"

	"github.com/wudsh1/playworks-sub001/sdk/core"
)

type weightItem struct {
	idx   int
	score float64
}

// weightHeap 是以 score 為鍵的 max-heap，保留目前最好的 k 個。
type weightHeap []weightItem

func (h weightHeap) Len() int           { return len(h) }
func (h weightHeap) Less(i, j int) bool { return h[i].score > h[j].score }
func (h weightHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *weightHeap) Push(x any) { *h = append(*h, x.(weightItem)) }

func (h *weightHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// WeightedSample 不放回地依權重抽出 k 個索引（Efraimidis–Spirakis）。
//
// score = Exp(1) / weight，分數越小排名越前；權重 0 不會被選中。
// 回傳依排名先後排序，長度為 min(k, 權重>0 的數量)。
func WeightedSample(c *core.Core, weights []int, k int) []int {
	n := len(weights)
	if k <= 0 || n == 0 {
		return []int{}
	}
	k = min(k, n)

	h := make(weightHeap, 0, k)
	for i, w := range weights {
		if w < 0 {
			panic("WeightedSample: negative weight")
		}
		if w == 0 {
			continue
		}
		score := c.ExpFloat64() / float64(w)
		if h.Len() < k {
			heap.Push(&h, weightItem{idx: i, score: score})
		} else if score < h[0].score {
			// 直接替換 root 再 Fix，比 Pop + Push 少一次調整
			h[0] = weightItem{idx: i, score: score}
			heap.Fix(&h, 0)
		}
	}

	result := make([]int, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(weightItem).idx
	}
	return result
}
