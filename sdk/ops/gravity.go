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

package ops

import (
	"fmt"
	"slices"

	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
)

// Supported 回報 p 是否有支撐：在底行，或下一行有任一方塊占用相同欄位。
func Supported(b *grid.Board, p *grid.Piece) bool {
	if p.Y == 0 {
		return true
	}
	for _, q := range b.Pieces() {
		if q.Y == p.Y-1 && q.Overlaps(p.X, p.Width) {
			return true
		}
	}
	return false
}

// Settle 讓所有沒有支撐的方塊每輪下降一行，直到某一輪沒有變化。
//
//   - 每輪由低行往高行處理，同一輪內下方方塊先落，上方方塊可接著落。
//   - 有變化的輪數超過 rows 代表盤面損毀，回傳 errs.ErrNotConverged。
//   - 回傳累計下降的格數。
func Settle(b *grid.Board) (int, error) {
	moved := 0
	order := make([]*grid.Piece, 0, b.Len())
	for pass := 0; pass <= b.Rows; pass++ {
		order = append(order[:0], b.Pieces()...)
		slices.SortStableFunc(order, func(a, c *grid.Piece) int { return a.Y - c.Y })

		changed := false
		for _, p := range order {
			if p.Y > 0 && !Supported(b, p) {
				p.Y--
				moved++
				changed = true
			}
		}
		if !changed {
			return moved, nil
		}
	}
	return moved, errs.Reject(errs.ErrNotConverged, fmt.Sprintf("settle exceeded %d passes", b.Rows))
}
