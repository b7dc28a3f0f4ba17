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

package recorder

import (
	"fmt"

	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/spec"
	"github.com/wudsh1/playworks-sub001/stats"
)

// Outcome 是一局的結局。
type Outcome uint8

const (
	Unfinished Outcome = iota
	Won
	Lost
	Broken
)

var outcomeNames = [...]string{"unfinished", "won", "lost", "broken"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(b []byte) error {
	for i, name := range outcomeNames {
		if name == string(b) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", string(b))
}

// GameResult 是一局結束後交給紀錄員的摘要。
type GameResult struct {
	Outcome       Outcome `json:"outcome"`
	MovesUsed     int     `json:"moves_used"`
	GoalsLeft     int     `json:"goals_left"`
	Score         int     `json:"score"`
	RowsCleared   int     `json:"rows_cleared"`
	MaxCombo      int     `json:"max_combo"`
	ItemsSpawned  int     `json:"items_spawned"`
	BoardClears   int     `json:"board_clears"`
	RowEffects    int     `json:"row_effects"`
	ColumnEffects int     `json:"column_effects"`
	PushSkipped   int     `json:"push_skipped"`
}

// GameRecorder 遊戲紀錄員：只累計整數計數，Done 時一次換算成報表。
// 單一 GameRecorder 不是併發安全的，平行模擬時每個 worker 一個，最後 Merge。
type GameRecorder struct {
	LevelName  string
	LevelID    spec.LID
	MoveBudget int
	RowScore   int
	Basic      *BasicRecord
	Dist       *DistRecord
}

type BasicRecord struct {
	Games         int
	Won           int
	Lost          int
	Broken        int
	Unfinished    int
	CloseLosses   int
	TotalScore    int
	RowsCleared   int
	ItemsSpawned  int
	BoardClears   int
	RowEffects    int
	ColumnEffects int
	PushSkipped   int
	MaxCombo      int
}

type DistRecord struct {
	Bucket       *stats.ScoreBucket
	WinMoves     []int // WinMoves[n] = 用 n 步獲勝的局數
	ScoreCollect []int
}

func NewGameRecorder(gs *spec.GameSetting) (*GameRecorder, error) {
	if gs == nil {
		return nil, errs.NewFatal("game setting required")
	}
	if err := gs.Init(); err != nil {
		return nil, err
	}
	r := &GameRecorder{
		LevelName:  gs.LevelName,
		LevelID:    gs.LevelID,
		MoveBudget: gs.Rule.MoveBudget,
		RowScore:   gs.Rule.RowScore,
		Basic:      new(BasicRecord),
	}
	r.Dist = newDistRecord(r.RowScore, r.MoveBudget)
	return r, nil
}

func newDistRecord(rowScore, budget int) *DistRecord {
	return &DistRecord{
		Bucket:       stats.Buckets.ByRowScore(rowScore),
		WinMoves:     make([]int, budget+1),
		ScoreCollect: make([]int, len(stats.Buckets.Labels())),
	}
}

// Record 累計一局的結果。
func (r *GameRecorder) Record(g GameResult) {
	b := r.Basic
	b.Games++
	switch g.Outcome {
	case Won:
		b.Won++
		for len(r.Dist.WinMoves) <= g.MovesUsed {
			r.Dist.WinMoves = append(r.Dist.WinMoves, 0)
		}
		r.Dist.WinMoves[g.MovesUsed]++
	case Lost:
		b.Lost++
		if g.GoalsLeft == 1 {
			b.CloseLosses++
		}
	case Broken:
		b.Broken++
	default:
		b.Unfinished++
	}
	b.TotalScore += g.Score
	b.RowsCleared += g.RowsCleared
	b.ItemsSpawned += g.ItemsSpawned
	b.BoardClears += g.BoardClears
	b.RowEffects += g.RowEffects
	b.ColumnEffects += g.ColumnEffects
	b.PushSkipped += g.PushSkipped
	b.MaxCombo = max(b.MaxCombo, g.MaxCombo)
	r.Dist.ScoreCollect[r.Dist.Bucket.Index(g.Score)]++
}

// Merge 合併同一關卡的多個紀錄員。
func Merge(rs []*GameRecorder) (*GameRecorder, error) {
	if len(rs) == 0 {
		return nil, errs.NewFatal("merge game record err : empty")
	}
	r0 := rs[0]
	out := &GameRecorder{
		LevelName:  r0.LevelName,
		LevelID:    r0.LevelID,
		MoveBudget: r0.MoveBudget,
		RowScore:   r0.RowScore,
		Basic:      new(BasicRecord),
		Dist:       newDistRecord(r0.RowScore, r0.MoveBudget),
	}
	for _, v := range rs {
		if v.LevelID != r0.LevelID || v.LevelName != r0.LevelName {
			return nil, errs.NewFatal("merge game record err : different level")
		}
		if v.RowScore != r0.RowScore {
			return nil, errs.NewFatal("merge game record err : different row score")
		}
		b, o := v.Basic, out.Basic
		o.Games += b.Games
		o.Won += b.Won
		o.Lost += b.Lost
		o.Broken += b.Broken
		o.Unfinished += b.Unfinished
		o.CloseLosses += b.CloseLosses
		o.TotalScore += b.TotalScore
		o.RowsCleared += b.RowsCleared
		o.ItemsSpawned += b.ItemsSpawned
		o.BoardClears += b.BoardClears
		o.RowEffects += b.RowEffects
		o.ColumnEffects += b.ColumnEffects
		o.PushSkipped += b.PushSkipped
		o.MaxCombo = max(o.MaxCombo, b.MaxCombo)

		for len(out.Dist.WinMoves) < len(v.Dist.WinMoves) {
			out.Dist.WinMoves = append(out.Dist.WinMoves, 0)
		}
		for i, c := range v.Dist.WinMoves {
			out.Dist.WinMoves[i] += c
		}
		for i, c := range v.Dist.ScoreCollect {
			out.Dist.ScoreCollect[i] += c
		}
	}
	return out, nil
}

// Done 產出報表並完成換算。
func (r *GameRecorder) Done() *stats.PlayReport {
	b := r.Basic
	rep := &stats.PlayReport{
		Summary: &stats.SummaryReport{
			LevelName:     r.LevelName,
			LevelID:       r.LevelID,
			MoveBudget:    r.MoveBudget,
			Games:         b.Games,
			Won:           b.Won,
			Lost:          b.Lost,
			Broken:        b.Broken,
			Unfinished:    b.Unfinished,
			TotalScore:    b.TotalScore,
			RowsCleared:   b.RowsCleared,
			ItemsSpawned:  b.ItemsSpawned,
			BoardClears:   b.BoardClears,
			RowEffects:    b.RowEffects,
			ColumnEffects: b.ColumnEffects,
			PushSkipped:   b.PushSkipped,
			MaxCombo:      b.MaxCombo,
			CloseLosses:   b.CloseLosses,
		},
		Dist: &stats.DistReport{
			WinMoves:     append([]int(nil), r.Dist.WinMoves...),
			ScoreBucket:  stats.Buckets.Labels(),
			ScoreCollect: append([]int(nil), r.Dist.ScoreCollect...),
		},
	}
	rep.Done()
	return rep
}
