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
	"strings"
	"testing"

	"github.com/wudsh1/playworks-sub001/spec"
)

func TestBoardAddRemove(t *testing.T) {
	b := NewBoard(6, 4)
	a := b.Add(Template{X: 0, Width: 3, Kind: spec.KindBlue}, 0, 0)
	c := b.Add(Template{X: 3, Width: 1, Kind: spec.KindGoal}, 0, 0)
	if a.ID >= c.ID {
		t.Fatalf("ids must increase: %d %d", a.ID, c.ID)
	}
	if b.PieceAt(2, 0) != a || b.PieceAt(3, 0) != c || b.PieceAt(4, 0) != nil {
		t.Fatalf("PieceAt not width aware:\n%s", b)
	}
	if !b.Remove(a) || b.Remove(a) {
		t.Fatalf("remove should succeed exactly once")
	}
	if b.ByID(a.ID) != nil || b.Len() != 1 {
		t.Fatalf("piece still indexed after remove")
	}
	d := b.Add(Template{X: 0, Width: 1, Kind: spec.KindRed}, 1, 0)
	if d.ID <= c.ID {
		t.Fatalf("id reused: %d", d.ID)
	}
}

func TestBoardInsertKeepsOrder(t *testing.T) {
	b := NewBoard(6, 4)
	b.Insert(&Piece{ID: 5, X: 0, Width: 1, Kind: spec.KindBlue})
	b.Insert(&Piece{ID: 2, X: 1, Width: 1, Kind: spec.KindRed})
	b.Insert(&Piece{X: 2, Width: 1, Kind: spec.KindRed})
	ids := []int{}
	for _, p := range b.Pieces() {
		ids = append(ids, p.ID)
	}
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 5 || ids[2] != 6 {
		t.Fatalf("unexpected order: %v", ids)
	}
}

func TestRowPiecesAndOverlapping(t *testing.T) {
	b := NewBoard(8, 4)
	r := b.Add(Template{X: 5, Width: 2, Kind: spec.KindRed}, 1, 0)
	l := b.Add(Template{X: 0, Width: 2, Kind: spec.KindBlue}, 1, 0)
	b.Add(Template{X: 0, Width: 8, Kind: spec.KindBlue}, 0, 0)
	row := b.RowPieces(1)
	if len(row) != 2 || row[0] != l || row[1] != r {
		t.Fatalf("row pieces not sorted by x")
	}
	got := b.Overlapping(1, 1, 5, l)
	if len(got) != 1 || got[0] != r {
		t.Fatalf("unexpected overlapping: %v", got)
	}
	if b.Top() != 1 || b.Count(spec.KindBlue) != 2 {
		t.Fatalf("top=%d blue=%d", b.Top(), b.Count(spec.KindBlue))
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := NewBoard(4, 4)
	p := b.Add(Template{X: 0, Width: 2, Kind: spec.KindBlue}, 2, 0)
	b.Preview = []Template{{X: 0, Width: 4, Kind: spec.KindRed}}
	nb := b.Clone()
	nb.ByID(p.ID).Y = 0
	nb.Preview[0].Kind = spec.KindBlue
	if p.Y != 2 || b.Preview[0].Kind != spec.KindRed {
		t.Fatalf("clone shares state")
	}
	if nb.NextID() != b.NextID() {
		t.Fatalf("clone must carry id counter")
	}
}

func TestSnapshotAndRender(t *testing.T) {
	b := NewBoard(4, 3)
	b.Add(Template{X: 0, Width: 3, Kind: spec.KindBlue}, 0, 0)
	b.Add(Template{X: 1, Width: 1, Kind: spec.KindGoal}, 1, 0)
	b.Preview = []Template{{X: 2, Width: 2, Kind: spec.KindRed}}
	s := b.Snapshot()
	if len(s.Pieces) != 2 || len(s.Preview) != 1 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	s.Pieces[0].X = 3
	if b.Pieces()[0].X != 0 {
		t.Fatalf("snapshot aliases board")
	}

	out := b.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("want 3 rows + footer + preview, got:\n%s", out)
	}
	if !strings.Contains(lines[2], "藍= = ") || !strings.Contains(lines[1], "★") {
		t.Fatalf("unexpected render:\n%s", out)
	}
	if b.Clear(); b.Len() != 0 || b.ByID(1) != nil {
		t.Fatalf("clear left pieces")
	}
}
