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
	"testing"

	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/sdk/ops"
	"github.com/wudsh1/playworks-sub001/sdk/rules"
	"github.com/wudsh1/playworks-sub001/spec"
)

func newRowGen(t *testing.T, seed int64) (*RowGenerator, *spec.GameSetting) {
	t.Helper()
	gs := spec.Default()
	return NewRowGenerator(core.NewWithSeed(seed), &gs.Spawn), gs
}

func TestRowAlwaysKeepsGap(t *testing.T) {
	rg, gs := newRowGen(t, 11)
	ones, total := 0, 0
	for i := 0; i < 2000; i++ {
		row := rg.Row(gs.Board.Columns)
		filled, last := 0, 0
		for _, tp := range row {
			if tp.X < last || tp.Width < gs.Spawn.MinWidth || tp.Width > gs.Spawn.MaxWidth || !tp.Kind.IsOrdinary() {
				t.Fatalf("bad template %+v in %+v", tp, row)
			}
			last = tp.X + tp.Width
			filled += tp.Width
			total++
			if tp.Width == 1 {
				ones++
			}
		}
		if last > gs.Board.Columns || filled >= gs.Board.Columns {
			t.Fatalf("row overflows or is full: %+v", row)
		}
	}
	if ones*3 < total {
		t.Fatalf("width 1 should dominate: %d/%d", ones, total)
	}
}

func TestProceduralIsSupported(t *testing.T) {
	rg, gs := newRowGen(t, 5)
	for i := 0; i < 20; i++ {
		b := Procedural(rg, gs.Board.Columns, gs.Board.Rows, gs.Spawn.Rows(gs.Board.Rows))
		if b.Top() >= gs.Spawn.Rows(gs.Board.Rows) {
			t.Fatalf("generated above initial rows:\n%s", b)
		}
		for _, p := range b.Pieces() {
			if !ops.Supported(b, p) {
				t.Fatalf("unsupported piece %d:\n%s", p.ID, b)
			}
		}
		if err := rules.Validate(b); err != nil {
			t.Fatalf("invalid board: %v", err)
		}
		if len(ops.FullRows(b, b.Columns)) != 0 {
			t.Fatalf("generated full row:\n%s", b)
		}
	}
}

func TestSeedGoalsPrefersSingles(t *testing.T) {
	c := core.NewWithSeed(9)
	b := grid.NewBoard(12, 10)
	for x := 0; x < 8; x++ {
		b.Add(grid.Template{X: x, Width: 1, Kind: spec.KindBlue}, 0, 0)
	}
	wide := b.Add(grid.Template{X: 8, Width: 3, Kind: spec.KindRed}, 0, 0)
	n := SeedGoals(c, b, 6, 7)
	if n < 6 || n > 7 || b.Count(spec.KindGoal) != n {
		t.Fatalf("seeded %d goals, board has %d", n, b.Count(spec.KindGoal))
	}
	if wide.Width != 3 {
		t.Fatalf("wide piece split although singles were available")
	}
}

func TestSeedGoalsSplitsWide(t *testing.T) {
	c := core.NewWithSeed(1)
	b := grid.NewBoard(12, 10)
	wide := b.Add(grid.Template{X: 2, Width: 4, Kind: spec.KindRed}, 0, 0)
	if n := SeedGoals(c, b, 1, 1); n != 1 {
		t.Fatalf("want 1 goal, got %d", n)
	}
	goal := b.PieceAt(5, 0)
	if wide.Width != 3 || goal == nil || goal.Kind != spec.KindGoal || goal.Width != 1 {
		t.Fatalf("unexpected split:\n%s", b)
	}
	if n := SeedGoals(c, grid.NewBoard(4, 4), 6, 7); n != 0 {
		t.Fatalf("empty board cannot host goals")
	}
}

func TestFromLayout(t *testing.T) {
	bs := &spec.BoardSetting{}
	if err := bs.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	ls := &spec.LayoutSetting{
		Columns: 6,
		Rows:    5,
		Placements: []spec.Placement{
			{X: 0, Y: 0, Width: 3, Kind: spec.KindBlue},
			{X: 1, Y: 2, Width: 1, Kind: spec.KindGoal},
		},
		Preview: []spec.Placement{{X: 0, Width: 2, Kind: spec.KindRed}},
	}
	b := FromLayout(ls, bs)
	if b.Columns != 6 || b.Rows != 5 || b.Len() != 2 || len(b.Preview) != 1 {
		t.Fatalf("unexpected layout board:\n%s", b)
	}
	if _, err := ops.Settle(b); err != nil || b.PieceAt(1, 1) == nil {
		t.Fatalf("goal should settle onto row 1: %v\n%s", err, b)
	}
}

func TestFeederPushAndSkip(t *testing.T) {
	rg, _ := newRowGen(t, 3)
	f := NewFeeder(rg)
	b := grid.NewBoard(6, 3)
	f.Refill(b)
	first := f.Preview()
	if len(first) == 0 || len(first) != len(b.Preview) {
		t.Fatalf("preview not published")
	}
	old := b.Add(grid.Template{X: 0, Width: 1, Kind: spec.KindGoal}, 0, 0)
	added, ok := f.Push(b, 2)
	if !ok || len(added) != len(first) || old.Y != 1 {
		t.Fatalf("push failed: ok=%v\n%s", ok, b)
	}
	for i, p := range added {
		if p.Y != 0 || p.X != first[i].X || p.BornAt != 2 {
			t.Fatalf("pushed piece %+v does not match preview %+v", p, first[i])
		}
	}
	old.Y = b.Rows - 1
	if _, ok := f.Push(b, 3); ok {
		t.Fatalf("push must be skipped when a piece sits on the top row")
	}
	got := f.Preview()
	got[0].X = 99
	if f.Preview()[0].X == 99 {
		t.Fatalf("preview copy aliases feeder state")
	}
}
