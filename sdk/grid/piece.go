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

import "github.com/wudsh1/playworks-sub001/spec"

// Piece 是盤面上的一個方塊，占用 [X, X+Width) 於第 Y 行，Y=0 為底。
type Piece struct {
	ID     int       `json:"id"`
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Width  int       `json:"width"`
	Kind   spec.Kind `json:"kind"`
	BornAt int       `json:"born_at"` // 進場時的全域步數，潛伏計時用
}

// Right 回傳右邊界(不含)。
func (p *Piece) Right() int { return p.X + p.Width }

// Covers 回報是否占用第 col 欄。
func (p *Piece) Covers(col int) bool { return col >= p.X && col < p.X+p.Width }

// Overlaps 回報 [x, x+w) 是否與本方塊的欄位區間相交。
func (p *Piece) Overlaps(x, w int) bool { return x < p.X+p.Width && p.X < x+w }

// Template 是尚未放上盤面的方塊(下一行預覽)。
type Template struct {
	X     int       `json:"x"`
	Width int       `json:"width"`
	Kind  spec.Kind `json:"kind"`
}

// Move 是輸入端送進來的邏輯移動，DX 與 DY 只能有一個非 0。
type Move struct {
	PieceID int `json:"piece"`
	DX      int `json:"dx"`
	DY      int `json:"dy"`
}
