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

package optimizer

import (
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/spec"
	"github.com/wudsh1/playworks-sub001/stats"
	"gopkg.in/yaml.v3"
)

// Setting 難度調整參數。
type Setting struct {
	TargetWinRate float64 `yaml:"target_win_rate"`
	Tolerance     float64 `yaml:"tolerance"`
	Games         int     `yaml:"games"`
	Workers       int     `yaml:"workers"`
	MinBudget     int     `yaml:"min_budget"`
	MaxBudget     int     `yaml:"max_budget"`
	MaxRounds     int     `yaml:"max_rounds"`
}

func (s *Setting) init() error {
	if s.TargetWinRate <= 0 || s.TargetWinRate >= 1 {
		return errs.Warnf("target_win_rate %.3f must be in (0,1)", s.TargetWinRate)
	}
	if s.Tolerance == 0 {
		s.Tolerance = 0.02
	}
	if s.Games == 0 {
		s.Games = 2000
	}
	if s.Workers == 0 {
		s.Workers = 1
	}
	if s.MinBudget == 0 {
		s.MinBudget = 1
	}
	if s.MaxBudget == 0 {
		s.MaxBudget = 60
	}
	if s.MaxRounds == 0 {
		s.MaxRounds = 12
	}
	if s.Tolerance < 0 || s.Games < 1 || s.Workers < 1 || s.MaxRounds < 1 {
		return errs.Warnf("invalid tuner setting %+v", *s)
	}
	if s.MinBudget < 1 || s.MaxBudget < s.MinBudget {
		return errs.Warnf("invalid budget range [%d,%d]", s.MinBudget, s.MaxBudget)
	}
	return nil
}

// Trial 一次試算。
type Trial struct {
	MoveBudget int             `yaml:"move_budget"`
	WinRate    stats.PointStat `yaml:"win_rate"`
}

type Result struct {
	LevelID    spec.LID        `yaml:"level_id"`
	LevelName  string          `yaml:"level_name"`
	MoveBudget int             `yaml:"move_budget"`
	WinRate    stats.PointStat `yaml:"win_rate"`
	Converged  bool            `yaml:"converged"`
	Trials     []Trial         `yaml:"trials"`
}

// Tuner 以二分搜尋調整步數上限，讓機器人勝率落在目標附近。
// 每次試算都用同一個 seed，步數不同的比較才有意義。
type Tuner struct {
	cfg Setting
	out io.Writer
}

func New(cfg fs.FS, name string) (*Tuner, error) {
	raw, err := fs.ReadFile(cfg, name)
	if err != nil {
		return nil, err
	}
	s := Setting{}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, errs.Wrap(err, "tuner setting decode failed")
	}
	return NewWith(s)
}

func NewWith(s Setting) (*Tuner, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	return &Tuner{cfg: s, out: os.Stdout}, nil
}

// SetOutput 進度輸出位置，nil 表示不輸出。
func (t *Tuner) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	t.out = w
}

func (t *Tuner) Setting() Setting { return t.cfg }

func (t *Tuner) Run(id spec.LID, lab *playworks.Lab, seed int64) (*Result, error) {
	if lab == nil {
		return nil, errs.NewFatal("lab is required")
	}
	base, err := lab.GameSetting(id)
	if err != nil {
		return nil, err
	}
	res := &Result{LevelID: id, LevelName: base.LevelName}
	lo, hi := t.cfg.MinBudget, t.cfg.MaxBudget
	bestGap := math.Inf(1)
	for round := 0; round < t.cfg.MaxRounds && lo <= hi; round++ {
		mid := lo + (hi-lo)/2
		ps, err := t.trial(id, lab, seed, mid)
		if err != nil {
			return nil, err
		}
		res.Trials = append(res.Trials, Trial{MoveBudget: mid, WinRate: ps})
		fmt.Fprintf(t.out, "\r[%s] budget=%d win=%.4f", base.LevelName, mid, ps.Hat)

		gap := math.Abs(ps.Hat - t.cfg.TargetWinRate)
		if gap < bestGap {
			bestGap = gap
			res.MoveBudget, res.WinRate = mid, ps
		}
		if gap <= t.cfg.Tolerance {
			res.Converged = true
			break
		}
		// 步數越多越容易贏
		if ps.Hat < t.cfg.TargetWinRate {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	fmt.Fprintln(t.out)
	return res, nil
}

func (t *Tuner) trial(id spec.LID, lab *playworks.Lab, seed int64, budget int) (stats.PointStat, error) {
	gs, err := lab.GameSetting(id)
	if err != nil {
		return stats.PointStat{}, err
	}
	gs.Rule.MoveBudget = budget
	sim, err := playworks.NewSimulatorWithSeed(gs, lab.Factory(), seed)
	if err != nil {
		return stats.PointStat{}, err
	}
	rep, _, err := sim.SimMP(t.cfg.Games, t.cfg.Workers, false)
	if err != nil {
		return stats.PointStat{}, err
	}
	return rep.Summary.WinRate, nil
}
