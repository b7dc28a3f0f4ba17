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

package rules

import (
	"fmt"

	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
)

// Limits 是拖曳上下限：Left/Down <= 0，Right/Up >= 0。
type Limits struct {
	Left  int `json:"left"`
	Right int `json:"right"`
	Down  int `json:"down"`
	Up    int `json:"up"`
}

// Empty 回報是否完全不能移動。
func (l Limits) Empty() bool { return l == Limits{} }

// Legal 判斷 p 移到 (x,y) 是否合法：不越界，且與該行相交的方塊都允許重疊。
func Legal(b *grid.Board, p *grid.Piece, x, y int) bool {
	if x < 0 || x+p.Width > b.Columns || y < 0 || y >= b.Rows {
		return false
	}
	for _, q := range b.Overlapping(y, x, p.Width, p) {
		if !CanOverlap(p.Kind, q.Kind) {
			return false
		}
	}
	return true
}

// DragLimits 回傳 p 在水平與垂直方向最多能移動多少格。
// 水平掃描遇到可合併的鄰居即停在該格，不會越過它。
func DragLimits(b *grid.Board, p *grid.Piece) Limits {
	var l Limits
	for dx := -1; Legal(b, p, p.X+dx, p.Y); dx-- {
		l.Left = dx
		if len(b.Overlapping(p.Y, p.X+dx, p.Width, p)) > 0 {
			break
		}
	}
	for dx := 1; Legal(b, p, p.X+dx, p.Y); dx++ {
		l.Right = dx
		if len(b.Overlapping(p.Y, p.X+dx, p.Width, p)) > 0 {
			break
		}
	}
	if CanMoveVertically(p.Kind) {
		if Legal(b, p, p.X, p.Y-1) {
			l.Down = -1
		}
		if Legal(b, p, p.X, p.Y+1) {
			l.Up = 1
		}
	}
	return l
}

// CheckMove 驗證一筆移動請求，合法時回傳方塊與目的座標。
// 拒絕時盤面不變，錯誤可用 errors.Is 對 errs.ErrIllegalMove / errs.ErrPieceNotFound 判斷。
func CheckMove(b *grid.Board, m grid.Move) (*grid.Piece, int, int, error) {
	p := b.ByID(m.PieceID)
	if p == nil {
		return nil, 0, 0, errs.Reject(errs.ErrPieceNotFound, fmt.Sprintf("piece %d", m.PieceID))
	}
	if (m.DX == 0) == (m.DY == 0) {
		return nil, 0, 0, errs.Reject(errs.ErrIllegalMove, fmt.Sprintf("piece %d: exactly one of dx/dy must be set", p.ID))
	}
	if m.DY != 0 && (!CanMoveVertically(p.Kind) || (m.DY != 1 && m.DY != -1)) {
		return nil, 0, 0, errs.Reject(errs.ErrIllegalMove, fmt.Sprintf("piece %d (%s): dy=%d", p.ID, p.Kind, m.DY))
	}
	l := DragLimits(b, p)
	if m.DX < l.Left || m.DX > l.Right || m.DY < l.Down || m.DY > l.Up {
		return nil, 0, 0, errs.Reject(errs.ErrIllegalMove, fmt.Sprintf("piece %d: delta (%d,%d) outside %+v", p.ID, m.DX, m.DY, l))
	}
	x, y := p.X+m.DX, p.Y+m.DY
	if !Legal(b, p, x, y) {
		return nil, 0, 0, errs.Reject(errs.ErrIllegalMove, fmt.Sprintf("piece %d: (%d,%d) blocked", p.ID, x, y))
	}
	return p, x, y, nil
}

// Validate 檢查盤面不變量：全部在界內，同一行的方塊除可合併組合外不相交。
func Validate(b *grid.Board) error {
	ps := b.Pieces()
	for i, p := range ps {
		if p.X < 0 || p.Right() > b.Columns || p.Y < 0 || p.Y >= b.Rows || p.Width < 1 {
			return errs.Fatalf("piece %d (%d,%d,w=%d) out of board", p.ID, p.X, p.Y, p.Width)
		}
		for _, q := range ps[i+1:] {
			if q.Y == p.Y && q.Overlaps(p.X, p.Width) && !CanOverlap(p.Kind, q.Kind) {
				return errs.Fatalf("pieces %d and %d overlap at row %d", p.ID, q.ID, p.Y)
			}
		}
	}
	return nil
}
