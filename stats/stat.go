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

// Package stats 把批次自動遊玩的計數整理成關卡難度報表。
package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/wudsh1/playworks-sub001/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// PlayReport 關卡批次遊玩報表。
type PlayReport struct {
	Summary *SummaryReport `json:"summary" yaml:"summary"`
	Moves   *MovesReport   `json:"moves"   yaml:"moves"`
	Dist    *DistReport    `json:"dist"    yaml:"dist"`
	isDone  bool
}

type SummaryReport struct {
	LevelName     string    `json:"level_name"     yaml:"level_name"`
	LevelID       spec.LID  `json:"level_id"       yaml:"level_id"`
	MoveBudget    int       `json:"move_budget"    yaml:"move_budget"`
	Games         int       `json:"games"          yaml:"games"`
	Won           int       `json:"won"            yaml:"won"`
	Lost          int       `json:"lost"           yaml:"lost"`
	Broken        int       `json:"broken"         yaml:"broken"`
	Unfinished    int       `json:"unfinished"     yaml:"unfinished"` // 步數用完仍未分勝負(無目標物的關卡)
	WinRate       PointStat `json:"win_rate"       yaml:"win_rate"`
	CloseLoss     PointStat `json:"close_loss"     yaml:"close_loss"` // 輸局中只剩 1 個目標物的比例
	TotalScore    int       `json:"total_score"    yaml:"total_score"`
	RowsCleared   int       `json:"rows_cleared"   yaml:"rows_cleared"`
	ItemsSpawned  int       `json:"items_spawned"  yaml:"items_spawned"`
	BoardClears   int       `json:"board_clears"   yaml:"board_clears"`
	RowEffects    int       `json:"row_effects"    yaml:"row_effects"`
	ColumnEffects int       `json:"column_effects" yaml:"column_effects"`
	PushSkipped   int       `json:"push_skipped"   yaml:"push_skipped"`
	MaxCombo      int       `json:"max_combo"      yaml:"max_combo"`
	CloseLosses   int       `json:"close_losses"   yaml:"close_losses"`
}

// MovesReport 勝局使用步數的分布摘要。
type MovesReport struct {
	Mean float64 `json:"mean" yaml:"mean"`
	Std  float64 `json:"std"  yaml:"std"`
	P10  float64 `json:"p10"  yaml:"p10"`
	P50  float64 `json:"p50"  yaml:"p50"`
	P90  float64 `json:"p90"  yaml:"p90"`
}

// DistReport 原始分布：WinMoves[n] 為用 n 步獲勝的局數，Score 依 Buckets 分桶。
type DistReport struct {
	WinMoves     []int     `json:"win_moves"     yaml:"win_moves"`
	ScoreBucket  []string  `json:"score_bucket"  yaml:"score_bucket"`
	ScoreCollect []int     `json:"score_collect" yaml:"score_collect"`
	ScoreDist    []float64 `json:"score_dist"    yaml:"score_dist"`
}

// Done 把累計計數換算成比例與分位數，重複呼叫無副作用。
func (r *PlayReport) Done() {
	if r.isDone {
		return
	}
	s := r.Summary
	s.WinRate = Proportion(s.Won, s.Games)
	s.CloseLoss = Proportion(s.CloseLosses, s.Lost)

	m := &MovesReport{}
	m.Mean, m.Std = histMean(r.Dist.WinMoves)
	m.P10 = histQuantile(r.Dist.WinMoves, 0.10)
	m.P50 = histQuantile(r.Dist.WinMoves, 0.50)
	m.P90 = histQuantile(r.Dist.WinMoves, 0.90)
	r.Moves = m

	r.Dist.ScoreDist = make([]float64, len(r.Dist.ScoreCollect))
	if s.Games > 0 {
		for i, c := range r.Dist.ScoreCollect {
			r.Dist.ScoreDist[i] = float64(c) / float64(s.Games)
		}
	}
	r.isDone = true
}

func (r *PlayReport) WriteWith(w io.Writer, rep PlayReportRender) error {
	r.Done()
	return rep.Write(w, r)
}

// StdOut 印出用時與摘要表。
func (r *PlayReport) StdOut(ut time.Duration) {
	r.Done()
	fmt.Print(formatDuration(ut, r.Summary.Games))
	keys, msg := r.fmtBasic()
	fmt.Println(fmtTable(r.Summary.LevelName, keys, msg))
}

func formatDuration(d time.Duration, games int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := max(d.Seconds(), 1e-9)
	gps := int(float64(games) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\ngps : %d games/sec\n", sec, gps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\ngps : %d games/sec\n", m, s, gps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\ngps : %d games/sec\n", h, m, s, gps)
}

func pct(ps PointStat) string {
	return fmt.Sprintf("%.2f%% [%.2f%%,%.2f%%]", 100*ps.Hat, 100*ps.CI.Lo, 100*ps.CI.Hi)
}

func (r *PlayReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	s := r.Summary
	basic := map[string]string{
		"關卡":         p.Sprintf("%s (%d)", s.LevelName, s.LevelID),
		"局數":         p.Sprintf("%d", s.Games),
		"步數上限":       p.Sprintf("%d", s.MoveBudget),
		"勝率 95% CI":  pct(s.WinRate),
		"勝 / 負 / 未完": p.Sprintf("%d / %d / %d", s.Won, s.Lost, s.Unfinished),
		"差一個目標物的輸局":  pct(s.CloseLoss),
		"勝局步數 P50":   p.Sprintf("%.1f [P10 %.1f, P90 %.1f]", r.Moves.P50, r.Moves.P10, r.Moves.P90),
		"平均分數":       p.Sprintf("%.1f", avg(s.TotalScore, s.Games)),
		"消除行數":       p.Sprintf("%d", s.RowsCleared),
		"最大連擊":       p.Sprintf("%d", s.MaxCombo),
		"生成道具":       p.Sprintf("%d", s.ItemsSpawned),
		"整盤清除":       p.Sprintf("%d", s.BoardClears),
		"橫 / 縱消除":    p.Sprintf("%d / %d", s.RowEffects, s.ColumnEffects),
		"盤面滿略過推入":    p.Sprintf("%d", s.PushSkipped),
		"損毀":         p.Sprintf("%d", s.Broken),
	}
	keys := []string{"關卡", "局數", "步數上限", "勝率 95% CI", "勝 / 負 / 未完", "差一個目標物的輸局", "勝局步數 P50", "平均分數", "消除行數", "最大連擊", "生成道具", "整盤清除", "橫 / 縱消除", "盤面滿略過推入", "損毀"}
	return keys, basic
}

func avg(total, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKey, maxVal := 0, 0
	for k, m := range msg {
		maxKey = max(maxKey, runewidth.StringWidth(k))
		maxVal = max(maxVal, runewidth.StringWidth(m))
	}
	maxKey += 2
	maxVal += 2

	var sb strings.Builder
	inner := maxKey + maxVal + 1
	divider := "+" + strings.Repeat("-", maxKey) + "+" + strings.Repeat("-", maxVal) + "+\n"
	sb.WriteString("+" + strings.Repeat("-", inner) + "+\n")

	tw := runewidth.StringWidth(title)
	left := max((inner-tw)/2, 0)
	sb.WriteString("|" + blank(left) + title + blank(inner-tw-left) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		v := msg[k]
		sb.WriteString("| " + k + blank(maxKey-2-runewidth.StringWidth(k)) + " | " + v + blank(maxVal-2-runewidth.StringWidth(v)) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
