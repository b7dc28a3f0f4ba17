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
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/sdk/rules"
	"github.com/wudsh1/playworks-sub001/spec"
)

type EffectKind uint8

const (
	EffectNone EffectKind = iota
	EffectBoardClear
	EffectRowClear
	EffectColumnClear
)

var effectNames = [...]string{"none", "board_clear", "row_clear", "column_clear"}

func (k EffectKind) String() string {
	if int(k) < len(effectNames) {
		return effectNames[k]
	}
	return "unknown"
}

func (k EffectKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Effect 是道具組合的結果；Removed 含觸發的兩顆道具。
type Effect struct {
	Kind    EffectKind    `json:"kind"`
	X       int           `json:"x"`
	Y       int           `json:"y"`
	Removed []*grid.Piece `json:"-"`
}

// Interact 在移動套用後、重力之前呼叫。
//
//   - 炸彈(且不是這一步才由潛伏變成的)與同格另一顆炸彈：移除兩顆並清空整盤。
//   - 觸發器與消除器同格：移除兩顆，橫向清除以該格為中心的 3 行，縱向清除 3 列。
//
// 都不成立時回傳 EffectNone，盤面不變。後續的落下、補行與消行由呼叫端負責。
func Interact(b *grid.Board, moved *grid.Piece, wasLatent bool) Effect {
	x, y := moved.X, moved.Y
	switch {
	case moved.Kind == spec.KindBomb && !wasLatent:
		other := partner(b, moved, func(k spec.Kind) bool { return k == spec.KindBomb })
		if other == nil {
			break
		}
		b.Remove(moved)
		b.Remove(other)
		removed := append([]*grid.Piece{moved, other}, ClearAll(b)...)
		return Effect{Kind: EffectBoardClear, X: x, Y: y, Removed: removed}

	case moved.Kind == spec.KindTrigger || moved.Kind == spec.KindRowClearer || moved.Kind == spec.KindColClearer:
		var clearer spec.Kind
		other := partner(b, moved, func(k spec.Kind) bool {
			c, ok := rules.ClearerFor(moved.Kind, k)
			clearer = c
			return ok
		})
		if other == nil {
			break
		}
		b.Remove(moved)
		b.Remove(other)
		removed := []*grid.Piece{moved, other}
		if clearer == spec.KindRowClearer {
			removed = append(removed, ClearRows(b, y-1, y+1)...)
			return Effect{Kind: EffectRowClear, X: x, Y: y, Removed: removed}
		}
		removed = append(removed, ClearColumns(b, x-1, x+1)...)
		return Effect{Kind: EffectColumnClear, X: x, Y: y, Removed: removed}
	}
	return Effect{Kind: EffectNone, X: x, Y: y}
}

// partner 找出與 moved 完全同格且種類符合的另一顆方塊。
func partner(b *grid.Board, moved *grid.Piece, match func(spec.Kind) bool) *grid.Piece {
	for _, q := range b.PiecesAt(moved.X, moved.Y) {
		if q != moved && q.X == moved.X && match(q.Kind) {
			return q
		}
	}
	return nil
}

// TransformLatent 把進場滿 delay 步的潛伏道具永久變成炸彈，回傳被轉換的方塊。
func TransformLatent(b *grid.Board, now, delay int) []*grid.Piece {
	var out []*grid.Piece
	for _, p := range b.Pieces() {
		if p.Kind == spec.KindLatent && now-p.BornAt >= delay {
			p.Kind = spec.KindBomb
			out = append(out, p)
		}
	}
	return out
}
