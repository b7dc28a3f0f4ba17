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

package playworks

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/sdk/event"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/sdk/rules"
	"github.com/wudsh1/playworks-sub001/sdk/step"
	"github.com/wudsh1/playworks-sub001/spec"
)

// level 回傳 6x6、關閉道具生成的手工關卡。
func level(budget int, noScript bool, ps ...spec.Placement) *spec.GameSetting {
	return &spec.GameSetting{
		LevelName: "t",
		LevelID:   1,
		Board:     spec.BoardSetting{Columns: 6, Rows: 6},
		Spawn:     spec.SpawnSetting{GoalMin: 1, GoalMax: 1},
		Item:      spec.ItemSetting{Disabled: true},
		Rule:      spec.RuleSetting{MoveBudget: budget, NoScript: noScript, ScriptedMove: 1},
		Layout:    &spec.LayoutSetting{Placements: ps},
	}
}

func at(x, y int, k spec.Kind) spec.Placement {
	return spec.Placement{X: x, Y: y, Width: 1, Kind: k}
}

func open(t *testing.T, gs *spec.GameSetting) *Session {
	t.Helper()
	s, err := NewSessionWithSeed(gs, core.Default(), 7, WithClock(&step.NoDelay{}))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func pieceAt(t *testing.T, s *Session, x, y int) *grid.Piece {
	t.Helper()
	p := s.board.PieceAt(x, y)
	if p == nil {
		t.Fatalf("no piece at (%d,%d):\n%s", x, y, s.board)
	}
	return p
}

// emptyFeed 讓下一次推入的是空行，推入後重力會把盤面放回原位。
func emptyFeed(s *Session) {
	s.feed.Publish(s.board, nil)
}

func count(evs []event.Event, typ event.Type) int {
	n := 0
	for _, e := range evs {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestBombPairWinsAndLatches(t *testing.T) {
	s := open(t, level(5, true, at(0, 0, spec.KindGoal), at(4, 0, spec.KindBomb), at(5, 0, spec.KindBomb)))
	if got := s.Status(); got.GoalCount != 1 || got.TargetGoalCount != 1 || got.MovesRemaining != 5 {
		t.Fatalf("unexpected initial status %+v", got)
	}
	bomb := pieceAt(t, s, 5, 0)
	rep, err := s.Move(context.Background(), grid.Move{PieceID: bomb.ID, DX: -1})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if rep.State != Won || s.State() != Won {
		t.Fatalf("state=%s, want won", rep.State)
	}
	if count(rep.Events, event.RowPushed) != 1 || count(rep.Events, event.Won) != 1 {
		t.Fatalf("want one row pushed and one win signal, got %+v", rep.Events)
	}
	// 清盤後只補一行，所有方塊都在最底行
	for _, p := range s.Snapshot().Pieces {
		if p.Y != 0 {
			t.Fatalf("piece %d at y=%d after board clear", p.ID, p.Y)
		}
	}
	if st := s.Stats(); st.BoardClears != 1 {
		t.Fatalf("board clears=%d", st.BoardClears)
	}

	_, err = s.Move(context.Background(), grid.Move{PieceID: bomb.ID, DX: 1})
	if !errors.Is(err, errs.ErrGameOver) {
		t.Fatalf("want ErrGameOver, got %v", err)
	}
	if s.State() != Won {
		t.Fatalf("state changed after game over: %s", s.State())
	}
}

func TestOutOfMovesLoses(t *testing.T) {
	s := open(t, level(1, true, at(0, 0, spec.KindGoal), at(3, 0, spec.KindBlue)))
	blue := pieceAt(t, s, 3, 0)
	rep, err := s.Move(context.Background(), grid.Move{PieceID: blue.ID, DX: 1})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if rep.State != Lost || rep.MovesRemaining != 0 {
		t.Fatalf("want lost with 0 moves, got %s/%d", rep.State, rep.MovesRemaining)
	}
	if count(rep.Events, event.Lost) != 1 {
		t.Fatalf("want one lost signal")
	}
	if !s.Status().IsOver {
		t.Fatalf("status should be over")
	}
}

func TestWinAcrossRowClears(t *testing.T) {
	// 左側三個目標物疊在三層 4 格寬的方塊旁，右上三個方塊依序往右推落到最底行補滿
	gs := level(10, true,
		at(0, 0, spec.KindGoal), spec.Placement{X: 1, Y: 0, Width: 4, Kind: spec.KindBlue},
		at(0, 1, spec.KindGoal), spec.Placement{X: 1, Y: 1, Width: 4, Kind: spec.KindRed},
		at(0, 2, spec.KindGoal), spec.Placement{X: 1, Y: 2, Width: 4, Kind: spec.KindBlue},
		at(4, 3, spec.KindRed), at(4, 4, spec.KindBlue), at(4, 5, spec.KindRed),
	)
	gs.Board.FillThreshold = 5
	s := open(t, gs)
	if st := s.Status(); st.GoalCount != 3 || st.TargetGoalCount != 3 {
		t.Fatalf("unexpected initial status %+v", st)
	}
	movers := []*grid.Piece{pieceAt(t, s, 4, 3), pieceAt(t, s, 4, 4), pieceAt(t, s, 4, 5)}
	ctx := context.Background()
	for i, m := range movers {
		emptyFeed(s)
		rep, err := s.Move(ctx, grid.Move{PieceID: m.ID, DX: 1})
		if err != nil {
			t.Fatalf("move %d: %v", i, err)
		}
		if rep.Clear.Rows != 1 || rep.Clear.GoalsRemoved != 1 || rep.GoalCount != 2-i {
			t.Fatalf("move %d: clear=%+v goals=%d\n%s", i, rep.Clear, rep.GoalCount, s.board)
		}
		if count(rep.Events, event.TargetChanged) != 0 || rep.Target != 3 {
			t.Fatalf("move %d: target must not change when goals drop", i)
		}
		if i < len(movers)-1 {
			if rep.State != AwaitingInput || count(rep.Events, event.Won) != 0 {
				t.Fatalf("move %d: state=%s before the last goal is gone", i, rep.State)
			}
			continue
		}
		if rep.State != Won || count(rep.Events, event.Won) != 1 {
			t.Fatalf("last move: state=%s events=%+v", rep.State, rep.Events)
		}
	}
	if st := s.Status(); st.GoalCount != 0 || !st.IsOver || st.IsProcessing || st.MovesRemaining != 7 {
		t.Fatalf("unexpected final status %+v", st)
	}

	for range 2 {
		if _, err := s.Move(ctx, grid.Move{PieceID: movers[2].ID, DX: 1}); !errors.Is(err, errs.ErrGameOver) {
			t.Fatalf("want ErrGameOver, got %v", err)
		}
		if s.State() != Won {
			t.Fatalf("state left won: %s", s.State())
		}
	}
}

func TestTargetRaisedWhenGoalsSpawn(t *testing.T) {
	gs := level(5, true,
		spec.Placement{X: 0, Y: 0, Width: 4, Kind: spec.KindBlue},
		at(0, 1, spec.KindGoal), at(3, 1, spec.KindRed),
	)
	gs.Board.FillThreshold = 5
	gs.Item = spec.ItemSetting{SpawnChance: 1, Weights: map[spec.Kind]int{spec.KindGoal: 1}}
	s := open(t, gs)
	emptyFeed(s)
	// 紅塊落到 (4,0) 補滿第 0 行，消行處必定生成一個目標物
	rep, err := s.Move(context.Background(), grid.Move{PieceID: pieceAt(t, s, 3, 1).ID, DX: 1})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if rep.Clear.Rows != 1 || rep.Clear.ItemsSpawned != 1 || rep.Clear.GoalsRemoved != 0 {
		t.Fatalf("unexpected clear %+v\n%s", rep.Clear, s.board)
	}
	if rep.GoalCount != 2 || rep.Target != 2 || rep.State != AwaitingInput {
		t.Fatalf("goals=%d target=%d state=%s", rep.GoalCount, rep.Target, rep.State)
	}
	goalAt, targetAt := -1, -1
	for i, e := range rep.Events {
		switch {
		case e.Type == event.GoalCountChanged && e.Count == 2:
			goalAt = i
		case e.Type == event.TargetChanged:
			if targetAt >= 0 || e.Count != 2 {
				t.Fatalf("unexpected target signal %+v", e)
			}
			targetAt = i
		}
	}
	if goalAt < 0 || targetAt < goalAt {
		t.Fatalf("target signal must follow the goal count signal: %+v", rep.Events)
	}
	if st := s.Status(); st.TargetGoalCount != 2 || st.GoalCount != 2 {
		t.Fatalf("status not updated %+v", st)
	}
}

func TestRejectedMoveKeepsBoard(t *testing.T) {
	s := open(t, level(3, true, at(0, 0, spec.KindGoal), at(1, 0, spec.KindBlue)))
	before := s.Snapshot()
	goal := pieceAt(t, s, 0, 0)
	if _, err := s.Move(context.Background(), grid.Move{PieceID: goal.ID, DX: -1}); !errors.Is(err, errs.ErrIllegalMove) {
		t.Fatalf("want ErrIllegalMove, got %v", err)
	}
	if _, err := s.Move(context.Background(), grid.Move{PieceID: 999, DX: 1}); !errors.Is(err, errs.ErrPieceNotFound) {
		t.Fatalf("want ErrPieceNotFound, got %v", err)
	}
	if err := s.Legal(grid.Move{PieceID: goal.ID, DY: 1}); !errors.Is(err, errs.ErrIllegalMove) {
		t.Fatalf("goal must not move vertically: %v", err)
	}
	if !reflect.DeepEqual(before, s.Snapshot()) {
		t.Fatalf("board changed by rejected moves")
	}
	if st := s.Status(); st.MovesMade != 0 || st.MovesRemaining != 3 {
		t.Fatalf("counters changed: %+v", st)
	}
}

func TestBusyRejects(t *testing.T) {
	s := open(t, level(3, true, at(0, 0, spec.KindGoal), at(3, 0, spec.KindBlue)))
	s.processing.Store(true)
	_, err := s.Move(context.Background(), grid.Move{PieceID: pieceAt(t, s, 3, 0).ID, DX: 1})
	if !errors.Is(err, errs.ErrBusy) {
		t.Fatalf("want ErrBusy, got %v", err)
	}
	if err := s.Restart(); !errors.Is(err, errs.ErrBusy) {
		t.Fatalf("restart while busy: %v", err)
	}
	s.processing.Store(false)
}

func TestScriptedPairOnce(t *testing.T) {
	s := open(t, level(5, false, at(0, 0, spec.KindGoal), at(3, 0, spec.KindBlue)))
	rep, err := s.Move(context.Background(), grid.Move{PieceID: pieceAt(t, s, 3, 0).ID, DX: 1})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !rep.Scripted || count(rep.Events, event.ItemSpawned) != 2 {
		t.Fatalf("scripted pair not spawned: %+v", rep)
	}
	if s.board.Count(spec.KindBomb) != 2 {
		t.Fatalf("want 2 bombs:\n%s", s.board)
	}
	if !s.Status().Progress.ScriptedFired {
		t.Fatalf("scripted flag not set")
	}

	if err := s.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	st := s.Status()
	if st.Progress.Playthrough != 1 || st.MovesMade != 0 || st.State != AwaitingInput {
		t.Fatalf("unexpected status after restart %+v", st)
	}
	// 第二次遊玩改用隨機盤面，不會有炸彈
	if s.board.Count(spec.KindBomb) != 0 {
		t.Fatalf("bombs on a fresh procedural board:\n%s", s.board)
	}
}

func TestEmptyPairNeedsAdjacentCells(t *testing.T) {
	b := grid.NewBoard(4, 3)
	b.Add(grid.Template{X: 0, Width: 1, Kind: spec.KindBlue}, 0, 0)
	b.Add(grid.Template{X: 2, Width: 1, Kind: spec.KindRed}, 0, 0)
	b.Add(grid.Template{X: 1, Width: 1, Kind: spec.KindBlue}, 1, 0)
	// 第 0 行空格 1、3 不相鄰，第 1 行最左的相鄰空格是 2、3
	if got := emptyPair(b); !reflect.DeepEqual(got, [][2]int{{2, 1}, {3, 1}}) {
		t.Fatalf("got %v", got)
	}
	full := grid.NewBoard(3, 1)
	full.Add(grid.Template{X: 1, Width: 1, Kind: spec.KindBlue}, 0, 0)
	if got := emptyPair(full); got != nil {
		t.Fatalf("want no pair, got %v", got)
	}
}

func TestLatentNeverTriggersOnTransformTurn(t *testing.T) {
	gs := level(5, true, at(0, 0, spec.KindGoal), at(4, 1, spec.KindBomb), at(5, 1, spec.KindLatent),
		at(4, 0, spec.KindBlue), at(5, 0, spec.KindRed))
	gs.Item.LatentDelay = 1
	s := open(t, gs)
	latent := pieceAt(t, s, 5, 1)
	if err := s.Legal(grid.Move{PieceID: latent.ID, DX: -1}); !errors.Is(err, errs.ErrIllegalMove) {
		t.Fatalf("latent must not overlap a bomb: %v", err)
	}
	// 往上移一格，這一步到期變炸彈但不觸發
	rep, err := s.Move(context.Background(), grid.Move{PieceID: latent.ID, DY: 1})
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if count(rep.Events, event.LatentTransformed) != 1 || rep.Effect != 0 {
		t.Fatalf("want transform without effect, got %+v", rep)
	}
	if latent.Kind != spec.KindBomb {
		t.Fatalf("latent kind=%s", latent.Kind)
	}
}

func TestReplayReproduces(t *testing.T) {
	gs := spec.Default()
	s, err := NewSessionWithSeed(gs, core.Default(), 42, WithClock(&step.NoDelay{}))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	bot := core.NewWithSeed(3)
	for i := 0; i < 12 && !s.State().Over(); i++ {
		m, ok := RandomMove(bot, s.board)
		if !ok {
			break
		}
		if _, err := s.Move(context.Background(), m); err != nil {
			t.Fatalf("bot move %d: %v", i, err)
		}
	}
	tok, err := EncodeReplay(s.Replay())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	r, err := DecodeReplay(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	again, err := PlayReplay(context.Background(), spec.Default(), core.Default(), r)
	if err != nil {
		t.Fatalf("play replay: %v", err)
	}
	a, b := s.Status(), again.Status()
	a.ID, b.ID = "", ""
	if a != b {
		t.Fatalf("status mismatch\n%+v\n%+v", a, b)
	}
	if !reflect.DeepEqual(s.Snapshot(), again.Snapshot()) {
		t.Fatalf("board mismatch\n%s\n%s", s.Render(), again.Render())
	}
}

func TestRandomMoveIsLegal(t *testing.T) {
	s, err := NewSessionWithSeed(spec.Default(), core.Default(), 9, WithClock(&step.NoDelay{}))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	bot := core.NewWithSeed(11)
	for i := 0; i < 200; i++ {
		m, ok := RandomMove(bot, s.board)
		if !ok {
			t.Fatalf("no move on a fresh board")
		}
		if _, _, _, err := rules.CheckMove(s.board, m); err != nil {
			t.Fatalf("illegal bot move %+v: %v", m, err)
		}
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	run := func(workers int) [3]int {
		sim, err := NewSimulatorWithSeed(spec.Default(), core.Default(), 5)
		if err != nil {
			t.Fatalf("new simulator: %v", err)
		}
		rep, _, err := sim.SimMP(8, workers, false)
		if err != nil {
			t.Fatalf("sim: %v", err)
		}
		if rep.Summary.Games != 8 {
			t.Fatalf("games=%d", rep.Summary.Games)
		}
		return [3]int{rep.Summary.Won, rep.Summary.TotalScore, rep.Summary.RowsCleared}
	}
	if a, b := run(1), run(4); a != b {
		t.Fatalf("result depends on workers: %+v vs %+v", a, b)
	}
}

const levelA = "level_name: alpha\nlevel_id: 1\nrule:\n  move_budget: 10\n"
const levelB = "level_name: beta\nlevel_id: 2\nrule:\n  move_budget: 12\n"

func newLab(t *testing.T) *Lab {
	t.Helper()
	fsys := fstest.MapFS{
		"alpha.yaml": {Data: []byte(levelA)},
		"beta.yaml":  {Data: []byte(levelB)},
	}
	lab, err := NewAuto(core.Default(), Configs(fsys))
	if err != nil {
		t.Fatalf("new lab: %v", err)
	}
	return lab
}

func TestRuntimeLifecycle(t *testing.T) {
	rt, err := newLab(t).BuildRuntime(1, WithClock(&step.NoDelay{}))
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}
	ctx := context.Background()
	seed := int64(1)
	s, err := rt.Create(ctx, 1, &seed)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := rt.Create(ctx, 1, nil); !errors.Is(err, ErrRuntimeFull) {
		t.Fatalf("want ErrRuntimeFull, got %v", err)
	}
	ch, cancel, err := rt.Subscribe(s.ID(), 256)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	m, ok := RandomMove(core.NewWithSeed(2), s.board)
	if !ok {
		t.Fatalf("no move")
	}
	if _, err := rt.Move(ctx, s.ID(), m); err != nil {
		t.Fatalf("move: %v", err)
	}
	if e := <-ch; e.Type != event.MoveMade {
		t.Fatalf("first signal %s, want move_made", e.Type)
	}
	if _, err := rt.Move(ctx, s.ID(), grid.Move{PieceID: -1, DX: 1}); !errors.Is(err, errs.ErrPieceNotFound) {
		t.Fatalf("want ErrPieceNotFound, got %v", err)
	}

	st, err := rt.Next(ctx, s.ID())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if lv, _ := rt.Level(s.ID()); lv != 2 || st.Progress.Level != 1 || st.MovesRemaining != 12 {
		t.Fatalf("unexpected next level lv=%d %+v", lv, st)
	}

	mt := rt.Metrics()
	if mt.Sessions != 1 || mt.Created != 1 || mt.Moves != 1 || mt.Rejected != 1 {
		t.Fatalf("unexpected metrics %+v", mt)
	}
	if err := rt.Delete(s.ID()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for range ch {
	}
	if _, err := rt.Get(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("want ErrSessionNotFound, got %v", err)
	}
	rt.Close()
	if _, err := rt.Create(ctx, 1, nil); err == nil || !rt.Closed() {
		t.Fatalf("create after close should fail")
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	h := NewHub()
	slow, _ := h.Subscribe(1)
	fast, cancel := h.Subscribe(8)
	for i := 0; i < 5; i++ {
		h.OnEvent(event.Event{Type: event.MoveMade, Count: i})
	}
	if h.Dropped() != 1 || h.Subscribers() != 1 {
		t.Fatalf("dropped=%d subscribers=%d, want 1/1", h.Dropped(), h.Subscribers())
	}
	// 緩衝內的訊號仍可讀完，之後通道關閉
	if e, ok := <-slow; !ok || e.Type != event.MoveMade || e.Count != 0 {
		t.Fatalf("first buffered event lost: %+v ok=%v", e, ok)
	}
	if _, ok := <-slow; ok {
		t.Fatalf("slow subscriber channel should be closed after overflow")
	}
	for i := 0; i < 5; i++ {
		if e := <-fast; e.Count != i {
			t.Fatalf("fast subscriber got %d, want %d", e.Count, i)
		}
	}
	cancel()
	cancel()
	if _, ok := <-fast; ok {
		t.Fatalf("channel should be closed")
	}
	h.Close()
	ch2, _ := h.Subscribe(1)
	if _, ok := <-ch2; ok {
		t.Fatalf("subscribe after close should return closed channel")
	}
}

func TestDevPlayerRestore(t *testing.T) {
	lab := newLab(t)
	d, err := lab.NewDevPlayer(1, 77)
	if err != nil {
		t.Fatalf("dev player: %v", err)
	}
	a, err := d.Play(context.Background(), 5)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	b, err := d.RestorePlay(context.Background(), a.Before, 5)
	if err != nil {
		t.Fatalf("restore play: %v", err)
	}
	if a.After != b.After || a.Board != b.Board || a.Replay != b.Replay {
		t.Fatalf("restore from start snapshot should reproduce the run")
	}
	if _, err := d.Play(context.Background(), 0); err == nil {
		t.Fatalf("moves=0 should be rejected")
	}
}
