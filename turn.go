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
	"log/slog"
	"time"

	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/event"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/sdk/ops"
	"github.com/wudsh1/playworks-sub001/sdk/rules"
	"github.com/wudsh1/playworks-sub001/sdk/step"
	"github.com/wudsh1/playworks-sub001/spec"
)

const (
	gatePoll  = 10 * time.Millisecond
	gateLimit = 5 * time.Second
)

// Move 驗證並套用一次玩家移動，然後同步跑完整個回合。
//
// 錯誤：
//   - errs.ErrBusy：上一個回合還沒結束。
//   - errs.ErrGameOver：已經勝或負。
//   - errs.ErrIllegalMove / errs.ErrPieceNotFound：移動被拒絕，盤面不變。
//   - Fatal：盤面不變量被破壞，session 進入 Broken，之後每次都回傳同一個錯誤。
//
// 回合開始後不理會 ctx 的取消。
func (s *Session) Move(ctx context.Context, m grid.Move) (TurnReport, error) {
	if err := s.acquire(); err != nil {
		return TurnReport{}, err
	}
	defer s.processing.Store(false)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.State() {
	case Won, Lost:
		return TurnReport{}, errs.Reject(errs.ErrGameOver, s.State().String())
	case Broken:
		return TurnReport{}, s.broken
	}
	p, x, y, err := rules.CheckMove(s.board, m)
	if err != nil {
		return TurnReport{}, err
	}

	s.state.Store(uint32(Processing))
	s.turn++
	t := &ops.Turn{Index: s.turn}
	rep := TurnReport{Turn: s.turn, Move: m}
	s.seq.Logger = s.logger.With(slog.String("session", s.id), slog.Int("turn", s.turn))
	wasLatent := p.Kind == spec.KindLatent

	s.seq.Push(
		step.Step{Name: "apply", Run: func() step.Result { return s.apply(t, p, x, y) }},
		step.Step{Name: "latent", Run: func() step.Result { return s.latent(t) }},
		step.Step{Name: "interact", Run: func() step.Result { return s.interact(t, p, wasLatent, &rep) }},
	)
	if err := s.seq.Run(ctx); err != nil {
		s.breakOn(ctx, err)
		rep.State = Broken
		rep.Events = s.rec.Take()
		rep.Trace = s.seq.Trace()
		return rep, err
	}

	rep.Clear = t.Report
	rep.State = s.State()
	rep.Score = s.score
	rep.Combo = s.combo
	rep.MovesRemaining = s.movesRemaining
	rep.GoalCount = s.goalCount
	rep.Target = s.targetGoalCount
	rep.Events = s.rec.Take()
	rep.Trace = s.seq.Trace()
	s.replay.Moves = append(s.replay.Moves, m)
	return rep, nil
}

func (s *Session) breakOn(ctx context.Context, err error) {
	s.broken = err
	s.state.Store(uint32(Broken))
	s.logger.ErrorContext(ctx, "turn aborted",
		slog.String("session", s.id),
		slog.Int("turn", s.turn),
		slog.Any("err", err),
	)
}

// apply 把已驗證的移動寫回盤面並推進全域步數。
func (s *Session) apply(t *ops.Turn, p *grid.Piece, x, y int) step.Result {
	p.X, p.Y = x, y
	s.movesMade++
	t.Now = s.movesMade
	s.emit(event.Event{Type: event.MoveMade, Kind: p.Kind, Piece: p.ID, X: x, Y: y})
	return step.Done()
}

// latent 以全域步數判斷潛伏道具是否到期。
func (s *Session) latent(t *ops.Turn) step.Result {
	for _, p := range ops.TransformLatent(s.board, t.Now, s.gs.Item.LatentDelay) {
		s.stats.Latents++
		s.emit(event.Event{Type: event.LatentTransformed, Kind: p.Kind, Piece: p.ID, X: p.X, Y: p.Y})
	}
	return step.Done()
}

// interact 判斷道具組合並排入對應的後續步驟。
// wasLatent 為移動前是否為潛伏道具，這一步才轉成的炸彈不會觸發。
func (s *Session) interact(t *ops.Turn, p *grid.Piece, wasLatent bool, rep *TurnReport) step.Result {
	eff := ops.Interact(s.board, p, wasLatent)
	rep.Effect = eff.Kind

	switch eff.Kind {
	case ops.EffectNone:
		s.seq.Push(
			s.settleStep(), s.clearStep(t),
			s.pushStep(t, rep),
			s.settleStep(), s.clearStep(t),
		)
	case ops.EffectBoardClear:
		s.stats.BoardClears++
		s.effectFired(eff, spec.KindBomb)
		s.seq.Push(s.pushStep(t, rep), s.settleStep(), s.clearStep(t))
	case ops.EffectRowClear, ops.EffectColumnClear:
		k := spec.KindRowClearer
		if eff.Kind == ops.EffectRowClear {
			s.stats.RowEffects++
		} else {
			s.stats.ColumnEffects++
			k = spec.KindColClearer
		}
		s.effectFired(eff, k)
		s.seq.Push(s.settleStep(), s.clearStep(t))
	}
	s.seq.Push(
		step.Step{Name: "script", Run: func() step.Result { return s.script(t, rep) }},
		step.Step{Name: "finish", Run: func() step.Result { return s.finish(t) }},
	)
	if eff.Kind == ops.EffectNone {
		return step.Done()
	}
	return step.Wait(s.gs.Timing.Fly.D())
}

func (s *Session) effectFired(eff ops.Effect, k spec.Kind) {
	s.emit(event.Event{Type: event.EffectTriggered, Kind: k, Count: len(eff.Removed), X: eff.X, Y: eff.Y})
	for _, q := range eff.Removed {
		s.emit(event.Event{Type: event.PieceCleared, Kind: q.Kind, Piece: q.ID, X: q.X, Y: q.Y})
	}
	s.syncGoals()
}

func (s *Session) settleStep() step.Step {
	return step.Step{Name: "settle", Run: func() step.Result {
		n, err := ops.Settle(s.board)
		if err != nil {
			return step.Fail(err)
		}
		if n == 0 {
			return step.Done()
		}
		return step.Wait(s.gs.Timing.Settle.D())
	}}
}

func (s *Session) clearStep(t *ops.Turn) step.Step {
	return step.Step{Name: "clear", Run: func() step.Result {
		before := t.Report.Passes
		if err := s.clearer.Resolve(s.board, t); err != nil {
			return step.Fail(err)
		}
		if t.Report.Passes == before {
			return step.Done()
		}
		s.syncGoals()
		if s.gate != nil {
			return step.Until(s.gate, gatePoll, max(s.gs.Timing.Clear.D(), gateLimit))
		}
		return step.Wait(s.gs.Timing.Clear.D())
	}}
}

func (s *Session) pushStep(t *ops.Turn, rep *TurnReport) step.Step {
	return step.Step{Name: "push", Run: func() step.Result {
		added, ok := s.feed.Push(s.board, t.Now)
		rep.Pushed = ok
		if !ok {
			s.stats.PushSkipped++
			return step.Done()
		}
		s.stats.RowsPushed++
		s.emit(event.Event{Type: event.RowPushed, Count: len(added)})
		s.syncGoals()
		return step.Wait(s.gs.Timing.Rise.D())
	}}
}

// script 在首次遊玩的第 N 步後放入一對炸彈，只發生一次。
// 找不到兩個空格時略過，不算錯誤。
func (s *Session) script(t *ops.Turn, rep *TurnReport) step.Result {
	rs := &s.gs.Rule
	if rs.NoScript || s.progress.ScriptedFired || s.progress.Playthrough != 0 || s.movesMade != rs.ScriptedMove {
		return step.Done()
	}
	s.progress.ScriptedFired = true
	cells := emptyPair(s.board)
	if cells == nil {
		s.seq.Logger.Debug("scripted pair skipped, no empty cells")
		return step.Done()
	}
	for _, c := range cells {
		p := s.board.Add(grid.Template{X: c[0], Width: 1, Kind: spec.KindBomb}, c[1], t.Now)
		s.emit(event.Event{Type: event.ItemSpawned, Kind: p.Kind, Piece: p.ID, X: p.X, Y: p.Y})
	}
	rep.Scripted = true
	if _, err := ops.Settle(s.board); err != nil {
		return step.Fail(err)
	}
	return step.Wait(s.gs.Timing.Settle.D())
}

// emptyPair 由下往上找第一個有兩個相鄰空格的行，回傳最左邊那一對 {x,y}。
func emptyPair(b *grid.Board) [][2]int {
	for y := 0; y < b.Rows; y++ {
		for x := 0; x+1 < b.Columns; x++ {
			if b.PieceAt(x, y) == nil && b.PieceAt(x+1, y) == nil {
				return [][2]int{{x, y}, {x + 1, y}}
			}
		}
	}
	return nil
}

// finish 結算步數、分數與連擊，最後判定勝負。勝負一旦成立就不再改變。
func (s *Session) finish(t *ops.Turn) step.Result {
	if err := rules.Validate(s.board); err != nil {
		return step.Fail(err)
	}
	s.movesRemaining = max(s.movesRemaining-1, 0)
	s.score += t.Report.Score
	if t.Combo == 0 && s.combo != 0 {
		s.emit(event.Event{Type: event.ComboChanged, Count: 0})
	}
	s.combo = t.Combo

	s.stats.RowsCleared += t.Report.Rows
	s.stats.ClearPasses += t.Report.Passes
	s.stats.ItemsSpawned += t.Report.ItemsSpawned
	s.stats.MaxCombo = max(s.stats.MaxCombo, t.Report.MaxCombo)
	s.syncGoals()

	next := AwaitingInput
	switch {
	case s.movesMade > 0 && s.targetGoalCount > 0 && s.goalCount == 0:
		next = Won
	case s.movesRemaining == 0 && s.goalCount > 0:
		next = Lost
	}
	s.state.Store(uint32(next))
	if next.Over() && !s.progress.ResultShown {
		s.progress.ResultShown = true
		typ := event.Won
		if next == Lost {
			typ = event.Lost
		}
		s.emit(event.Event{Type: typ, Count: s.score})
		s.logger.Info("session over",
			slog.String("session", s.id),
			slog.String("state", next.String()),
			slog.Int("score", s.score),
			slog.Int("moves", s.movesMade),
		)
	}
	return step.Done()
}

