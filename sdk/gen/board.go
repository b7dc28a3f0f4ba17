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

package gen

import (
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/sdk/sampler"
	"github.com/wudsh1/playworks-sub001/spec"
)

// goalPreference 是寬度 1 方塊被選為目標物的相對權重。
const goalPreference = 1 << 16

// FromLayout 依手工版面建立盤面；版面可覆寫盤面尺寸。
// 擺放照原樣放入，由呼叫端再跑一次重力。
func FromLayout(ls *spec.LayoutSetting, bs *spec.BoardSetting) *grid.Board {
	cols, rows := ls.Dims(bs)
	b := grid.NewBoard(cols, rows)
	for _, p := range ls.Placements {
		b.Add(grid.Template{X: p.X, Width: p.Width, Kind: p.Kind}, p.Y, 0)
	}
	for _, p := range ls.Preview {
		b.Preview = append(b.Preview, grid.Template{X: p.X, Width: p.Width, Kind: p.Kind})
	}
	return b
}

// Procedural 由下往上逐行生成 rows 行。
// 第 y>0 行只保留下方有支撐的方塊，生成後不需要重力即滿足支撐條件。
func Procedural(rg *RowGenerator, cols, boardRows, rows int) *grid.Board {
	b := grid.NewBoard(cols, boardRows)
	for y := 0; y < rows && y < boardRows; y++ {
		for _, t := range rg.Row(cols) {
			if y > 0 && len(b.Overlapping(y-1, t.X, t.Width, nil)) == 0 {
				continue
			}
			b.Add(t, y, 0)
		}
	}
	return b
}

// SeedGoals 選出 [lo,hi] 個一般方塊轉成目標物，回傳實際放入的數量。
//
//   - 寬度 1 的方塊優先，直接換成目標物。
//   - 寬方塊縮短一格，目標物放在原本的最後一格。
//
// 縮短後可能失去支撐，呼叫端需要再跑一次重力。
func SeedGoals(c *core.Core, b *grid.Board, lo, hi int) int {
	n := c.Between(lo, hi)
	var eligible []*grid.Piece
	for _, p := range b.Pieces() {
		if p.Kind.IsOrdinary() {
			eligible = append(eligible, p)
		}
	}
	weights := make([]int, len(eligible))
	for i, p := range eligible {
		weights[i] = 1
		if p.Width == 1 {
			weights[i] = goalPreference
		}
	}
	picked := sampler.WeightedSample(c, weights, n)
	for _, i := range picked {
		p := eligible[i]
		if p.Width == 1 {
			p.Kind = spec.KindGoal
			continue
		}
		p.Width--
		b.Add(grid.Template{X: p.Right(), Width: 1, Kind: spec.KindGoal}, p.Y, 0)
	}
	return len(picked)
}
