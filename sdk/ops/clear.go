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

	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/sdk/event"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/sdk/rules"
	"github.com/wudsh1/playworks-sub001/sdk/sampler"
	"github.com/wudsh1/playworks-sub001/spec"
)

// ClearReport 累計一個回合內所有消行的結果。
type ClearReport struct {
	Passes       int `json:"passes"`
	Rows         int `json:"rows"`
	GoalsRemoved int `json:"goals_removed"`
	Score        int `json:"score"`
	ItemsSpawned int `json:"items_spawned"`
	MaxCombo     int `json:"max_combo"`
}

// Turn 是同一回合內多次 Resolve 共用的狀態，連擊跨 Resolve 累加。
type Turn struct {
	Now    int // 全域步數，新生成的道具以此為 BornAt
	Index  int // 回合序號，只用於訊號
	Combo  int
	Report ClearReport
}

// Clearer 偵測滿行、移除、計分並在消行處隨機生成道具，之後重力落下再遞迴檢查。
type Clearer struct {
	Threshold   int // 0 表示等於盤面寬度
	SpawnChance float64
	Items       *sampler.AliasTable // 索引對應 spec.ItemKinds
	RowScore    int
	Core        *core.Core
	Listener    event.Listener
}

// NewClearer 依關卡設定建立 Clearer。
func NewClearer(gs *spec.GameSetting, c *core.Core, l event.Listener) *Clearer {
	return &Clearer{
		Threshold:   gs.Board.FillThreshold,
		SpawnChance: gs.Item.SpawnChance,
		Items:       gs.Item.Table,
		RowScore:    gs.Rule.RowScore,
		Core:        c,
		Listener:    l,
	}
}

func (c *Clearer) threshold(b *grid.Board) int {
	if c.Threshold <= 0 || c.Threshold > b.Columns {
		return b.Columns
	}
	return c.Threshold
}

func (c *Clearer) emit(e event.Event) {
	if c.Listener != nil {
		c.Listener.OnEvent(e)
	}
}

// RowFill 回傳第 row 行一般方塊的寬度總和；道具占格但不計入。
func RowFill(b *grid.Board, row int) int {
	sum := 0
	for _, p := range b.Pieces() {
		if p.Y == row && rules.CountsTowardFill(p.Kind) {
			sum += p.Width
		}
	}
	return sum
}

// FullRows 回傳達到門檻的行，由低到高。
func FullRows(b *grid.Board, threshold int) []int {
	var rows []int
	for row := 0; row < b.Rows; row++ {
		if RowFill(b, row) >= threshold {
			rows = append(rows, row)
		}
	}
	return rows
}

// Resolve 執行 偵測→移除→訊號→(機率)生成道具→重力 的循環，直到沒有滿行。
// 每輪都至少消掉 threshold 格一般方塊，超過 ceil(rows*cols/threshold)+1 輪即為盤面損毀。
func (c *Clearer) Resolve(b *grid.Board, t *Turn) error {
	th := c.threshold(b)
	limit := (b.Rows*b.Columns+th-1)/th + 1
	for pass := 0; ; pass++ {
		full := FullRows(b, th)
		if len(full) == 0 {
			return nil
		}
		if pass >= limit {
			return errs.Reject(errs.ErrNotConverged, fmt.Sprintf("clear exceeded %d passes", limit))
		}

		marked := make(map[int]bool, len(full))
		for _, row := range full {
			marked[row] = true
		}
		goals := 0
		for _, p := range append([]*grid.Piece(nil), b.Pieces()...) {
			if marked[p.Y] {
				if p.Kind == spec.KindGoal {
					goals++
				}
				b.Remove(p)
			}
		}

		t.Combo++
		t.Report.Passes++
		t.Report.Rows += len(full)
		t.Report.GoalsRemoved += goals
		t.Report.Score += len(full) * c.RowScore * t.Combo
		t.Report.MaxCombo = max(t.Report.MaxCombo, t.Combo)
		c.emit(event.Event{Type: event.RowsCleared, Turn: t.Index, Count: len(full), Goal: goals > 0, Y: full[0]})
		c.emit(event.Event{Type: event.ComboChanged, Turn: t.Index, Count: t.Combo})

		if p := c.spawnItem(b, full[0], t.Now); p != nil {
			t.Report.ItemsSpawned++
			c.emit(event.Event{Type: event.ItemSpawned, Turn: t.Index, Kind: p.Kind, Piece: p.ID, X: p.X, Y: p.Y})
		}
		if _, err := Settle(b); err != nil {
			return err
		}
	}
}

// spawnItem 以機率在 row 的隨機空格放一個道具；沒有空格或未抽中時回傳 nil。
func (c *Clearer) spawnItem(b *grid.Board, row, now int) *grid.Piece {
	if c.Core == nil || c.Items == nil || !c.Core.Chance(c.SpawnChance) {
		return nil
	}
	empty := make([]int, 0, b.Columns)
	for col := 0; col < b.Columns; col++ {
		if b.PieceAt(col, row) == nil {
			empty = append(empty, col)
		}
	}
	col := c.Core.Pick(empty)
	idx := c.Items.Pick(c.Core)
	if col < 0 || idx < 0 {
		return nil
	}
	return b.Add(grid.Template{X: col, Width: 1, Kind: spec.ItemKinds[idx]}, row, now)
}
