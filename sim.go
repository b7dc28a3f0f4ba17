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
	"io"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/recorder"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/sdk/rules"
	"github.com/wudsh1/playworks-sub001/sdk/step"
	"github.com/wudsh1/playworks-sub001/spec"
	"github.com/wudsh1/playworks-sub001/stats"
)

// Simulator 以隨機合法移動的機器人批次遊玩同一關，統計難度。
// 每局的 seed 由 seedMaker 依序產生，同一個初始 seed 得到同一份報表。
type Simulator struct {
	LevelName string
	LevelID   spec.LID
	gs        *spec.GameSetting
	cf        core.PRNGFactory
	initSeed  int64
	seedmaker *seedMaker
}

func NewSimulator(gs *spec.GameSetting, cf core.PRNGFactory) (*Simulator, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return nil, err
	}
	return NewSimulatorWithSeed(gs, cf, seed.Int64())
}

func NewSimulatorWithSeed(gs *spec.GameSetting, cf core.PRNGFactory, seed int64) (*Simulator, error) {
	if gs == nil {
		return nil, errs.NewFatal("game setting required")
	}
	if cf == nil {
		cf = core.Default()
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	return &Simulator{
		LevelName: gs.LevelName,
		LevelID:   gs.LevelID,
		gs:        gs,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
	}, nil
}

// Seed 回傳初始 seed。
func (s *Simulator) Seed() int64 { return s.initSeed }

// Sim 單線模擬 games 局，回傳報表與用時。
func (s *Simulator) Sim(games int, showpb bool) (*stats.PlayReport, time.Duration, error) {
	return s.SimMP(games, 1, showpb)
}

// SimMP 以 workers 個 goroutine 平行模擬 games 局，合併後回傳報表與用時。
// 每局 seed 在派工前就決定，結果與排程無關。
func (s *Simulator) SimMP(games int, workers int, showpb bool) (*stats.PlayReport, time.Duration, error) {
	if games < 1 {
		return nil, 0, errs.NewWarn("games must > 0")
	}
	if workers < 1 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	workers = min(workers, games)
	rBuf := make([]*recorder.GameRecorder, workers)
	for i := range rBuf {
		r, err := recorder.NewGameRecorder(s.gs)
		if err != nil {
			return nil, 0, err
		}
		rBuf[i] = r
	}

	jobs := make(chan int64, 2048)
	var firstErr atomic.Pointer[error]
	wg := new(sync.WaitGroup)
	wg.Add(workers)
	bar := pb.StartNew(games)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for w := 0; w < workers; w++ {
		go func(r *recorder.GameRecorder) {
			defer wg.Done()
			for seed := range jobs {
				res, err := s.PlayOne(seed)
				if err != nil {
					firstErr.CompareAndSwap(nil, &err)
				}
				r.Record(res)
				bar.Increment()
			}
		}(rBuf[w])
	}
	for i := 0; i < games; i++ {
		jobs <- s.seedmaker.next()
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	if p := firstErr.Load(); p != nil {
		return nil, used, *p
	}
	merged, err := recorder.Merge(rBuf)
	if err != nil {
		return nil, used, err
	}
	return merged.Done(), used, nil
}

// PlayOne 以 seed 開一局並由機器人玩到結束(或無路可走)。
// 盤面損毀記為 Broken，不回傳錯誤；只有開局失敗才回傳錯誤。
func (s *Simulator) PlayOne(seed int64) (recorder.GameResult, error) {
	ss, err := NewSessionWithSeed(s.gs, s.cf, seed, WithClock(&step.NoDelay{}))
	if err != nil {
		return recorder.GameResult{}, err
	}
	bot := core.New(s.cf.New(int64(mix63(uint64(seed) ^ botSalt))))
	ctx := context.Background()
	for !ss.State().Over() && ss.movesRemaining > 0 {
		m, ok := RandomMove(bot, ss.board)
		if !ok {
			break
		}
		if _, err := ss.Move(ctx, m); err != nil && !errs.IsFatal(err) {
			break
		}
	}
	return resultOf(ss), nil
}

const botSalt = 0x9E3779B97F4A7C15

func resultOf(ss *Session) recorder.GameResult {
	st := ss.stats
	out := recorder.GameResult{
		MovesUsed:     ss.movesMade,
		GoalsLeft:     ss.goalCount,
		Score:         ss.score,
		RowsCleared:   st.RowsCleared,
		MaxCombo:      st.MaxCombo,
		ItemsSpawned:  st.ItemsSpawned,
		BoardClears:   st.BoardClears,
		RowEffects:    st.RowEffects,
		ColumnEffects: st.ColumnEffects,
		PushSkipped:   st.PushSkipped,
	}
	switch ss.State() {
	case Won:
		out.Outcome = recorder.Won
	case Lost:
		out.Outcome = recorder.Lost
	case Broken:
		out.Outcome = recorder.Broken
	}
	return out
}

// RandomMove 從可移動的方塊中均勻挑一塊，再在它的拖曳範圍內均勻挑一個非零位移。
func RandomMove(c *core.Core, b *grid.Board) (grid.Move, bool) {
	type cand struct {
		p   *grid.Piece
		lim rules.Limits
	}
	var cands []cand
	for _, p := range b.Pieces() {
		if lim := rules.DragLimits(b, p); !lim.Empty() {
			cands = append(cands, cand{p, lim})
		}
	}
	if len(cands) == 0 {
		return grid.Move{}, false
	}
	pick := cands[c.IntN(len(cands))]
	left, right, down, up := -pick.lim.Left, pick.lim.Right, -pick.lim.Down, pick.lim.Up
	// 所有非零位移依 左、右、下、上 排成一列後均勻抽一個
	k := c.IntN(left + right + down + up)
	m := grid.Move{PieceID: pick.p.ID}
	switch {
	case k < left:
		m.DX = -(k + 1)
	case k < left+right:
		m.DX = k - left + 1
	case k < left+right+down:
		m.DY = -1
	default:
		m.DY = 1
	}
	return m, true
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以全週期 LCG 推進 state 再用可逆的 mix63 打散；可併發呼叫。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63 只用可逆的 bit 操作與乘奇數(mod 2^63)。
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
