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

package stats

// ScoreBuckets 把終局分數依「幾行的分數」分桶，O(1) 反查。
//
// 區間(以 RowScore 為單位)：[0,0], (0,1), [1,2), [2,5), [5,10), [10,20), [20,50), [50,100), [100,+inf)
type ScoreBuckets struct {
	edges   []int
	labels  []string
	byScore map[int]*ScoreBucket
}

type ScoreBucket struct {
	lut     []int // lut[score] = idx
	overIdx int
}

var Buckets = &ScoreBuckets{
	edges:   []int{0, 1, 2, 5, 10, 20, 50, 100},
	labels:  []string{"[0,0]", "(0,1)", "[1,2)", "[2,5)", "[5,10)", "[10,20)", "[20,50)", "[50,100)", "[100,+inf)"},
	byScore: make(map[int]*ScoreBucket),
}

func (b *ScoreBuckets) Labels() []string { return b.labels }

// ByRowScore 回傳以 rowScore 為單位的分桶；非併發安全，請在模擬開始前取得。
func (b *ScoreBuckets) ByRowScore(rowScore int) *ScoreBucket {
	rowScore = max(rowScore, 1)
	if sb, ok := b.byScore[rowScore]; ok {
		return sb
	}
	last := len(b.edges) - 1
	top := rowScore * b.edges[last]
	lut := make([]int, top)
	idx := 1
	for s := 1; s < top; s++ {
		for idx < last && s >= rowScore*b.edges[idx] {
			idx++
		}
		lut[s] = idx
	}
	sb := &ScoreBucket{lut: lut, overIdx: last + 1}
	b.byScore[rowScore] = sb
	return sb
}

func (sb *ScoreBucket) Index(score int) int {
	if score <= 0 {
		return 0
	}
	if score >= len(sb.lut) {
		return sb.overIdx
	}
	return sb.lut[score]
}
