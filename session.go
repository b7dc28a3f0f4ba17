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
	"crypto/rand"
	"log/slog"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wudsh1/playworks-sub001/corefmt"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/sdk/event"
	"github.com/wudsh1/playworks-sub001/sdk/gen"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/sdk/ops"
	"github.com/wudsh1/playworks-sub001/sdk/rules"
	"github.com/wudsh1/playworks-sub001/sdk/step"
	"github.com/wudsh1/playworks-sub001/spec"
)

// Session 是一局遊戲：持有盤面、亂數核心與回合狀態機。
//
// 並發語意：
//   - 同一時間只允許一個回合；回合進行中的 Move / Restart / NextLevel 直接回 errs.ErrBusy。
//   - State / IsProcessing / Preview 不取鎖，可在回合進行中讀取。
//   - 其餘查詢會等回合結束。
type Session struct {
	id     string
	gs     *spec.GameSetting
	cf     core.PRNGFactory
	seed   int64
	core   *core.Core
	logger *slog.Logger
	clock  step.Clock
	out    event.Listener
	gate   func() bool
	ui     UIMetrics

	mu         sync.Mutex
	processing atomic.Bool
	state      atomic.Uint32

	board   *grid.Board
	rows    *gen.RowGenerator
	feed    *gen.Feeder
	clearer *ops.Clearer
	seq     *step.Sequencer
	rec     event.Recorder

	score           int
	combo           int
	movesRemaining  int
	movesMade       int
	goalCount       int
	targetGoalCount int
	turn            int
	progress        Progress
	stats           PlayStats
	broken          error
	replay          Replay
}

// UIMetrics 是座標換算用的尺寸，可由設定檔 fixed 區塊覆寫。
type UIMetrics struct {
	CellSize int `yaml:"cell_size"`
	Padding  int `yaml:"padding"`
}

type SessionOption func(*Session)

// WithLogger 指定 logger；未指定時不輸出。
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock 指定步驟暫停用的時鐘；測試與模擬使用 step.NoDelay。
func WithClock(c step.Clock) SessionOption {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithListener 接收回合中的所有訊號(繪圖、音效、websocket)。
func WithListener(l event.Listener) SessionOption {
	return func(s *Session) { s.out = l }
}

// WithAnimationGate 消行後等到 gate 回傳 true(動畫播完)才繼續。
func WithAnimationGate(gate func() bool) SessionOption {
	return func(s *Session) { s.gate = gate }
}

// WithID 指定 session id；未指定時隨機產生。
func WithID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// NewSession 以隨機 seed 建立一局。
func NewSession(gs *spec.GameSetting, cf core.PRNGFactory, opts ...SessionOption) (*Session, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return NewSessionWithSeed(gs, cf, seed.Int64(), opts...)
}

// NewSessionWithSeed 以指定 seed 建立一局；同設定同 seed 同操作會得到相同結果。
func NewSessionWithSeed(gs *spec.GameSetting, cf core.PRNGFactory, seed int64, opts ...SessionOption) (*Session, error) {
	s, err := newSession(gs, cf, seed, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.deal(); err != nil {
		return nil, err
	}
	return s, nil
}

func newSession(gs *spec.GameSetting, cf core.PRNGFactory, seed int64, opts ...SessionOption) (*Session, error) {
	if gs == nil {
		return nil, errs.NewFatal("game setting required")
	}
	if cf == nil {
		cf = core.Default()
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	s := &Session{
		id:     corefmt.RandomID(8),
		cf:     cf,
		seed:   seed,
		core:   core.New(cf.New(seed)),
		logger: slog.New(slog.DiscardHandler),
		clock:  step.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rows = gen.NewRowGenerator(s.core, &gs.Spawn)
	s.feed = gen.NewFeeder(s.rows)
	s.seq = step.NewSequencer(s.clock, s.logger)
	if err := s.bind(gs); err != nil {
		return nil, err
	}
	return s, nil
}

// bind 套用關卡設定(建立時與 NextLevel 換關時)。
func (s *Session) bind(gs *spec.GameSetting) error {
	ui := UIMetrics{CellSize: gs.Board.CellSize}
	if err := spec.DecodeFixed(gs, &ui); err != nil {
		return err
	}
	s.gs = gs
	s.ui = ui
	s.rows.Spawn = &gs.Spawn
	s.clearer = ops.NewClearer(gs, s.core, event.ListenerFunc(s.emit))
	return nil
}

// deal 依目前的 Progress 發一個新盤面並重設回合計數。
func (s *Session) deal() error {
	start, err := s.core.Snapshot()
	if err != nil {
		return errs.Wrap(err, "snapshot core failed")
	}
	s.replay = Replay{Level: s.gs.LevelID, Seed: s.seed, Start: start, Progress: s.progress}

	var b *grid.Board
	if s.gs.Layout != nil && !s.progress.FirstLayoutUsed {
		b = gen.FromLayout(s.gs.Layout, &s.gs.Board)
		s.progress.FirstLayoutUsed = true
	} else {
		bs := &s.gs.Board
		b = gen.Procedural(s.rows, bs.Columns, bs.Rows, s.gs.Spawn.Rows(bs.Rows))
		gen.SeedGoals(s.core, b, s.gs.Spawn.GoalMin, s.gs.Spawn.GoalMax)
	}
	if _, err := ops.Settle(b); err != nil {
		return err
	}
	if len(b.Preview) > 0 {
		s.feed.Publish(b, b.Preview)
	} else {
		s.feed.Refill(b)
	}

	s.board = b
	s.score, s.combo, s.turn, s.movesMade = 0, 0, 0, 0
	s.movesRemaining = s.gs.Rule.MoveBudget + s.progress.Level*s.gs.Rule.MoveBudgetStep
	s.goalCount = b.Count(spec.KindGoal)
	s.targetGoalCount = s.goalCount
	s.stats = PlayStats{}
	s.broken = nil
	s.progress.ResultShown = false
	s.rec.Take()
	s.state.Store(uint32(AwaitingInput))
	s.logger.Debug("board dealt",
		slog.String("session", s.id),
		slog.Int("level", s.progress.Level),
		slog.Int("playthrough", s.progress.Playthrough),
		slog.Int("goals", s.goalCount),
		slog.Int("pieces", b.Len()),
	)
	return nil
}

func (s *Session) emit(e event.Event) {
	e.Turn = s.turn
	s.rec.OnEvent(e)
	if s.out != nil {
		s.out.OnEvent(e)
	}
}

// syncGoals 重新計算目標物數；超過目標時上調目標並送出 TargetChanged。
func (s *Session) syncGoals() {
	n := s.board.Count(spec.KindGoal)
	if n != s.goalCount {
		s.goalCount = n
		s.emit(event.Event{Type: event.GoalCountChanged, Count: n})
	}
	if s.goalCount > s.targetGoalCount {
		s.targetGoalCount = s.goalCount
		s.emit(event.Event{Type: event.TargetChanged, Count: s.targetGoalCount})
	}
}

func (s *Session) acquire() error {
	if !s.processing.CompareAndSwap(false, true) {
		return errs.Reject(errs.ErrBusy, s.id)
	}
	return nil
}

// fail 讓 session 進入 Broken，用於回合外部收斂的錯誤(例如 panic)。
func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken = err
	s.state.Store(uint32(Broken))
}

// Restart 以同一關重新開局(Playthrough+1)。
func (s *Session) Restart() error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.processing.Store(false)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.Playthrough++
	return s.deal()
}

// NextLevel 進入下一關；next 為 nil 時沿用目前設定，只增加關卡序號與步數。
func (s *Session) NextLevel(next *spec.GameSetting) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.processing.Store(false)
	s.mu.Lock()
	defer s.mu.Unlock()
	if next != nil {
		if err := next.Init(); err != nil {
			return err
		}
		if err := s.bind(next); err != nil {
			return err
		}
	}
	s.progress.Level++
	s.progress.Playthrough++
	return s.deal()
}

func (s *Session) ID() string { return s.id }

func (s *Session) Setting() *spec.GameSetting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gs
}

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) IsProcessing() bool { return s.processing.Load() }

// Snapshot 回傳盤面快照。
func (s *Session) Snapshot() grid.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Snapshot()
}

// Preview 回傳下一行預覽，不取鎖。
func (s *Session) Preview() []grid.Template { return s.feed.Preview() }

// Limits 回傳指定方塊的拖曳上下限。
func (s *Session) Limits(pieceID int) (rules.Limits, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.board.ByID(pieceID)
	if p == nil {
		return rules.Limits{}, errs.Reject(errs.ErrPieceNotFound, "")
	}
	return rules.DragLimits(s.board, p), nil
}

// Legal 只驗證移動，不套用。
func (s *Session) Legal(m grid.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, _, err := rules.CheckMove(s.board, m)
	return err
}

// CellSize 回傳單格像素大小。
func (s *Session) CellSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui.CellSize
}

// BoardPixelSize 回傳整個盤面(含邊距)的像素大小。
func (s *Session) BoardPixelSize() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Columns*s.ui.CellSize + 2*s.ui.Padding, s.board.Rows*s.ui.CellSize + 2*s.ui.Padding
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

func (s *Session) status() Status {
	st := s.State()
	return Status{
		ID:              s.id,
		State:           st,
		Score:           s.score,
		Combo:           s.combo,
		MovesRemaining:  s.movesRemaining,
		MovesMade:       s.movesMade,
		GoalCount:       s.goalCount,
		TargetGoalCount: s.targetGoalCount,
		IsOver:          st.Over(),
		IsProcessing:    s.processing.Load(),
		Progress:        s.progress,
	}
}

func (s *Session) Stats() PlayStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Render 輸出文字盤面(log / 除錯用)。
func (s *Session) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.String()
}

// PreviewTicker 以固定週期把預覽交給 fn，直到 ctx 結束。只讀，不影響盤面。
func (s *Session) PreviewTicker(ctx context.Context, period time.Duration, fn func([]grid.Template)) {
	if period <= 0 {
		period = s.gs.Timing.PreviewTick.D()
	}
	if period <= 0 {
		period = time.Second
	}
	tk := time.NewTicker(period)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			fn(s.Preview())
		}
	}
}
