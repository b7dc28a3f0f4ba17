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

package grid

import (
	"slices"

	"github.com/wudsh1/playworks-sub001/spec"
)

// Board 擁有所有方塊，只做儲存，不檢查合法性。
// pieces 依 ID 遞增排列；ID 單調遞增且不重複使用。
type Board struct {
	Columns int
	Rows    int
	Preview []Template

	pieces []*Piece
	byID   map[int]*Piece
	nextID int
}

func NewBoard(cols, rows int) *Board {
	return &Board{
		Columns: cols,
		Rows:    rows,
		pieces:  make([]*Piece, 0, cols*rows),
		byID:    make(map[int]*Piece, cols*rows),
		nextID:  1,
	}
}

// NextID 取號，之後不會再發出相同的 ID。
func (b *Board) NextID() int {
	id := b.nextID
	b.nextID++
	return id
}

// Add 依範本在第 y 行建立方塊並放上盤面。
func (b *Board) Add(t Template, y, bornAt int) *Piece {
	p := &Piece{ID: b.NextID(), X: t.X, Y: y, Width: t.Width, Kind: t.Kind, BornAt: bornAt}
	b.Insert(p)
	return p
}

// Insert 放入已建立的方塊；ID 為 0 時自動取號。
func (b *Board) Insert(p *Piece) {
	if p.ID == 0 {
		p.ID = b.NextID()
	} else if p.ID >= b.nextID {
		b.nextID = p.ID + 1
	}
	b.byID[p.ID] = p
	i, _ := slices.BinarySearchFunc(b.pieces, p.ID, func(q *Piece, id int) int { return q.ID - id })
	b.pieces = slices.Insert(b.pieces, i, p)
}

// Remove 移除方塊；不在盤面上時回傳 false。
func (b *Board) Remove(p *Piece) bool {
	if p == nil || b.byID[p.ID] != p {
		return false
	}
	delete(b.byID, p.ID)
	i, ok := slices.BinarySearchFunc(b.pieces, p.ID, func(q *Piece, id int) int { return q.ID - id })
	if ok {
		b.pieces = slices.Delete(b.pieces, i, i+1)
	}
	return true
}

// PieceAt 回傳占用 (col,row) 的方塊(考慮寬度)，沒有則回傳 nil。
// 同格有暫時重疊時回傳 ID 較小者。
func (b *Board) PieceAt(col, row int) *Piece {
	for _, p := range b.pieces {
		if p.Y == row && p.Covers(col) {
			return p
		}
	}
	return nil
}

// PiecesAt 回傳占用 (col,row) 的所有方塊。
func (b *Board) PiecesAt(col, row int) []*Piece {
	var out []*Piece
	for _, p := range b.pieces {
		if p.Y == row && p.Covers(col) {
			out = append(out, p)
		}
	}
	return out
}

func (b *Board) ByID(id int) *Piece { return b.byID[id] }

// Pieces 回傳依 ID 排序的方塊，呼叫端不可修改 slice 本身。
func (b *Board) Pieces() []*Piece { return b.pieces }

func (b *Board) Len() int { return len(b.pieces) }

// RowPieces 回傳第 row 行的方塊，依 X 排序。
func (b *Board) RowPieces(row int) []*Piece {
	var out []*Piece
	for _, p := range b.pieces {
		if p.Y == row {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, c *Piece) int {
		if a.X != c.X {
			return a.X - c.X
		}
		return a.ID - c.ID
	})
	return out
}

// Overlapping 回傳第 row 行與 [x, x+w) 相交的方塊，except 不列入。
func (b *Board) Overlapping(row, x, w int, except *Piece) []*Piece {
	var out []*Piece
	for _, p := range b.pieces {
		if p != except && p.Y == row && p.Overlaps(x, w) {
			out = append(out, p)
		}
	}
	return out
}

// Count 回傳指定種類的方塊數。
func (b *Board) Count(k spec.Kind) int {
	n := 0
	for _, p := range b.pieces {
		if p.Kind == k {
			n++
		}
	}
	return n
}

// Top 回傳最高方塊所在的行，空盤回傳 -1。
func (b *Board) Top() int {
	top := -1
	for _, p := range b.pieces {
		top = max(top, p.Y)
	}
	return top
}

// Clear 移除所有方塊，ID 計數不歸零。
func (b *Board) Clear() []*Piece {
	removed := b.pieces
	b.pieces = make([]*Piece, 0, cap(removed))
	clear(b.byID)
	return removed
}

// Clone 深拷貝，包含 ID 計數與預覽。
func (b *Board) Clone() *Board {
	nb := NewBoard(b.Columns, b.Rows)
	nb.nextID = b.nextID
	nb.Preview = slices.Clone(b.Preview)
	for _, p := range b.pieces {
		cp := *p
		nb.pieces = append(nb.pieces, &cp)
		nb.byID[cp.ID] = &cp
	}
	return nb
}
