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

package stats_test

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/wudsh1/playworks-sub001/stats"
)

func buildReport(games, won int, winMoves []int) *stats.PlayReport {
	r := &stats.PlayReport{
		Summary: &stats.SummaryReport{LevelName: "test", Games: games, Won: won, Lost: games - won},
		Dist: &stats.DistReport{
			WinMoves:     winMoves,
			ScoreBucket:  stats.Buckets.Labels(),
			ScoreCollect: make([]int, len(stats.Buckets.Labels())),
		},
	}
	r.Dist.ScoreCollect[0] = games
	r.Done()
	return r
}

func TestWinRateCI(t *testing.T) {
	r := buildReport(100, 50, []int{0, 0, 50})
	wr := r.Summary.WinRate
	if math.Abs(wr.Hat-0.5) > 1e-12 {
		t.Fatalf("win rate = %v", wr.Hat)
	}
	if !(wr.CI.Lo < 0.5 && wr.CI.Hi > 0.5) || wr.CI.Lo < 0.35 || wr.CI.Hi > 0.65 {
		t.Fatalf("ci = %+v", wr.CI)
	}
}

func TestProportionEdges(t *testing.T) {
	p := stats.Proportion(0, 10)
	if p.Hat != 0 || p.CI.Lo != 0 || p.CI.Hi <= 0 || p.CI.Hi >= 1 {
		t.Fatalf("k=0: %+v", p)
	}
	p = stats.Proportion(10, 10)
	if p.Hat != 1 || p.CI.Hi != 1 || p.CI.Lo >= 1 {
		t.Fatalf("k=n: %+v", p)
	}
	p = stats.Proportion(0, 0)
	if p.CI.Lo != 0 || p.CI.Hi != 1 {
		t.Fatalf("n=0: %+v", p)
	}
}

func TestMovesQuantiles(t *testing.T) {
	// 10 局全部在第 4 步獲勝
	r := buildReport(10, 10, []int{0, 0, 0, 0, 10})
	m := r.Moves
	if m.P10 != 4 || m.P50 != 4 || m.P90 != 4 || m.Mean != 4 || m.Std != 0 {
		t.Fatalf("moves = %+v", m)
	}
	r = buildReport(4, 4, []int{0, 1, 1, 1, 1})
	if r.Moves.P50 < 2 || r.Moves.P50 > 3 {
		t.Fatalf("p50 = %v", r.Moves.P50)
	}
	empty := buildReport(3, 0, nil)
	if empty.Moves.P50 != 0 || empty.Moves.Mean != 0 {
		t.Fatalf("empty = %+v", empty.Moves)
	}
}

func TestScoreBucket(t *testing.T) {
	b := stats.Buckets.ByRowScore(100)
	cases := []struct{ score, idx int }{
		{0, 0}, {50, 1}, {100, 2}, {199, 2}, {200, 3}, {499, 3}, {500, 4}, {9999, 7}, {10000, 8}, {1 << 30, 8},
	}
	for _, c := range cases {
		if got := b.Index(c.score); got != c.idx {
			t.Fatalf("Index(%d) = %d, want %d", c.score, got, c.idx)
		}
	}
	if len(stats.Buckets.Labels()) != 9 {
		t.Fatalf("labels = %v", stats.Buckets.Labels())
	}
}

func TestRender(t *testing.T) {
	r := buildReport(20, 5, []int{0, 0, 0, 5})
	var buf bytes.Buffer
	if err := r.WriteWith(&buf, &stats.JsonPlayReportRender{}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if _, ok := back["summary"]; !ok {
		t.Fatalf("missing summary: %s", buf.String())
	}
	buf.Reset()
	if err := r.WriteWith(&buf, &stats.YAMLPlayReportRender{}); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(buf.String(), "win_moves: [0, 0, 0, 5]") {
		t.Fatalf("yaml list should be flow style:\n%s", buf.String())
	}
}
