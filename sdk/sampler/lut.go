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

	"github.com/wudsh1/playworks-sub001/sdk/core"
)

// 盤面的權重表都很小(寬度 1..4、兩種顏色)，展開成 LUT 後 O(1) 抽樣。
const maxLUTCap = 1 << 16

type Integers interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// LUT 是展開後的查找表：索引 i 重複出現 weights[i] 次。
type LUT []int

// BuildLUT 由權重建立查找表，負值、全零或總和過大時回傳錯誤。
func BuildLUT[T Integers](weights []T) (LUT, error) {
	if len(weights) == 0 {
		return LUT{}, nil
	}
	acc := uint64(0)
	for _, v := range weights {
		if v < 0 {
			return nil, fmt.Errorf("lut: negative weight %v", v)
		}
		acc += uint64(v)
	}
	if acc == 0 {
		return nil, fmt.Errorf("lut: all weights are zero")
	}
	if acc > maxLUTCap {
		return nil, fmt.Errorf("lut: total weight %d exceeds %d, use alias table instead", acc, maxLUTCap)
	}
	lut := make(LUT, 0, int(acc))
	for i, v := range weights {
		for j := T(0); j < v; j++ {
			lut = append(lut, i)
		}
	}
	return lut, nil
}

// Pick 回傳被抽中的索引；空表回傳 -1。
func (l LUT) Pick(c *core.Core) int {
	return c.Pick(l)
}
