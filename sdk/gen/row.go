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
	"github.com/wudsh1/playworks-sub001/spec"
)

// RowGenerator 由左而右產生一行一般方塊：隨機寬度(偏向 1)、隨機顏色、偶爾留空。
// 產生的行至少留一格空位，推入後不會立即滿行。
type RowGenerator struct {
	core  *core.Core
	Spawn *spec.SpawnSetting
}

func NewRowGenerator(c *core.Core, ss *spec.SpawnSetting) *RowGenerator {
	return &RowGenerator{core: c, Spawn: ss}
}

// Row 產生寬度 cols 的一行範本，依 X 遞增。
func (rg *RowGenerator) Row(cols int) []grid.Template {
	ss := rg.Spawn
	row := make([]grid.Template, 0, cols)
	filled := 0
	for x := 0; x < cols; {
		if rg.core.Chance(ss.GapChance) {
			x++
			continue
		}
		w := ss.MinWidth + ss.WidthLUT.Pick(rg.core)
		w = min(w, cols-x)
		if w < ss.MinWidth {
			break
		}
		kind := spec.OrdinaryKinds[ss.KindLUT.Pick(rg.core)]
		row = append(row, grid.Template{X: x, Width: w, Kind: kind})
		filled += w
		x += w
	}
	if filled >= cols && len(row) > 0 {
		i := rg.core.IntN(len(row))
		row = append(row[:i], row[i+1:]...)
	}
	return row
}
