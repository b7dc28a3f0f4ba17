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
	"fmt"
	"math"
	"math/bits"

	"github.com/wudsh1/playworks-sub001/sdk/core"
)

// AliasTable 是 Vose alias method 的整數版本，用於道具種類抽樣。
type AliasTable struct {
	Prob    []int `json:"prob"`
	Aliases []int `json:"aliases"`
	Size    int   `json:"size"`
	Total   int   `json:"total"`
}

func BuildAliasTable(weights []int) (*AliasTable, error) {
	n := len(weights)
	if n == 0 {
		return &AliasTable{Prob: []int{}, Aliases: []int{}}, nil
	}

	total := uint64(0)
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("alias table: negative weight %d", w)
		}
		if total > uint64(math.MaxInt)-uint64(w) {
			return nil, fmt.Errorf("alias table: total weight overflow")
		}
		total += uint64(w)
	}
	if total == 0 {
		return nil, fmt.Errorf("alias table: all weights are zero")
	}
	if hi, lo := bits.Mul64(total, uint64(n)); hi != 0 || lo > math.MaxInt64 {
		return nil, fmt.Errorf("alias table: weights too large")
	}

	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	for i, w := range weights {
		aliases[i] = i
		prob[i] = w * n // 整數 scaling，與 total 比較即可分組
		if prob[i] < int(total) {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l
		prob[l] = prob[l] + prob[s] - int(total) // 維持 sum(prob) = total * n

		if prob[l] < int(total) {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// 殘留的一律視為滿格
	for _, i := range large {
		prob[i] = int(total)
	}
	for _, i := range small {
		prob[i] = int(total)
	}

	return &AliasTable{Prob: prob, Aliases: aliases, Size: n, Total: int(total)}, nil
}

func (at *AliasTable) Pick(c *core.Core) int {
	if at == nil || at.Size == 0 {
		return -1
	}
	idx := c.IntN(at.Size)
	if c.IntN(at.Total) < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
