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
	"slices"
	"sync/atomic"

	"github.com/wudsh1/playworks-sub001/sdk/grid"
)

// Feeder 維護下一行預覽，並在回合邊界把它推入盤面底部。
// 預覽同時以 atomic 指標發佈，預覽刷新 tick 只讀不寫。
type Feeder struct {
	rows    *RowGenerator
	preview atomic.Pointer[[]grid.Template]
}

func NewFeeder(rg *RowGenerator) *Feeder {
	return &Feeder{rows: rg}
}

// Refill 產生新的預覽行並寫回盤面。
func (f *Feeder) Refill(b *grid.Board) {
	f.Publish(b, f.rows.Row(b.Columns))
}

// Publish 直接指定預覽行(手工版面的第一行預覽)。
func (f *Feeder) Publish(b *grid.Board, row []grid.Template) {
	b.Preview = row
	cp := slices.Clone(row)
	f.preview.Store(&cp)
}

// Preview 回傳目前預覽的複本，可在其他 goroutine 呼叫。
func (f *Feeder) Preview() []grid.Template {
	p := f.preview.Load()
	if p == nil {
		return nil
	}
	return slices.Clone(*p)
}

// Full 回報是否已有方塊到達最上面一行。
func Full(b *grid.Board) bool {
	return b.Top() >= b.Rows-1
}

// Push 所有方塊上移一行，預覽行放到第 0 行，然後重新產生預覽。
// 盤面已滿時不推入，回傳 false。
func (f *Feeder) Push(b *grid.Board, now int) ([]*grid.Piece, bool) {
	if Full(b) {
		return nil, false
	}
	for _, p := range b.Pieces() {
		p.Y++
	}
	added := make([]*grid.Piece, 0, len(b.Preview))
	for _, t := range b.Preview {
		added = append(added, b.Add(t, 0, now))
	}
	f.Refill(b)
	return added, true
}
