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

import "github.com/wudsh1/playworks-sub001/sdk/grid"

// ClearRows 移除 [lo,hi] 行(夾在盤面內)上的所有方塊。
func ClearRows(b *grid.Board, lo, hi int) []*grid.Piece {
	lo, hi = max(lo, 0), min(hi, b.Rows-1)
	return removeIf(b, func(p *grid.Piece) bool { return p.Y >= lo && p.Y <= hi })
}

// ClearColumns 移除與 [lo,hi] 欄(夾在盤面內)相交的所有方塊，寬方塊只要碰到就整塊移除。
func ClearColumns(b *grid.Board, lo, hi int) []*grid.Piece {
	lo, hi = max(lo, 0), min(hi, b.Columns-1)
	return removeIf(b, func(p *grid.Piece) bool { return p.Overlaps(lo, hi-lo+1) })
}

// ClearAll 清空整個盤面。
func ClearAll(b *grid.Board) []*grid.Piece {
	return b.Clear()
}

func removeIf(b *grid.Board, pred func(*grid.Piece) bool) []*grid.Piece {
	var removed []*grid.Piece
	for _, p := range append([]*grid.Piece(nil), b.Pieces()...) {
		if pred(p) {
			b.Remove(p)
			removed = append(removed, p)
		}
	}
	return removed
}
