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

package spec

import (
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/sampler"
)

const (
	DefaultMinWidth  = 1
	DefaultMaxWidth  = 4
	DefaultGapChance = 0.15
	DefaultGoalMin   = 6
	DefaultGoalMax   = 7
)

// DefaultWidthWeights 寬度 1..4 的預設權重，偏向寬度 1。
var DefaultWidthWeights = []int{6, 3, 2, 1}

// SpawnSetting 行生成與初始盤面參數。
type SpawnSetting struct {
	MinWidth     int     `yaml:"min_width"     json:"min_width"`
	MaxWidth     int     `yaml:"max_width"     json:"max_width"`
	WidthWeights []int   `yaml:"width_weights" json:"width_weights"` // 對應 MinWidth..MaxWidth
	KindWeights  []int   `yaml:"kind_weights"  json:"kind_weights"`  // 對應 OrdinaryKinds
	GapChance    float64 `yaml:"gap_chance"    json:"gap_chance"`
	InitialRows  int     `yaml:"initial_rows"  json:"initial_rows"` // 0 表示 rows/2
	GoalMin      int     `yaml:"goal_min"      json:"goal_min"`
	GoalMax      int     `yaml:"goal_max"      json:"goal_max"`

	WidthLUT sampler.LUT `yaml:"-" json:"-"`
	KindLUT  sampler.LUT `yaml:"-" json:"-"`
	initFlag bool
}

func (ss *SpawnSetting) Init() error {
	if ss.initFlag {
		return nil
	}
	if ss.MinWidth == 0 {
		ss.MinWidth = DefaultMinWidth
	}
	if ss.MaxWidth == 0 {
		ss.MaxWidth = DefaultMaxWidth
	}
	if ss.MinWidth < 1 || ss.MaxWidth < ss.MinWidth {
		return errs.Fatalf("invalid width range [%d,%d]", ss.MinWidth, ss.MaxWidth)
	}
	if ss.GapChance == 0 {
		ss.GapChance = DefaultGapChance
	}
	if ss.GapChance < 0 || ss.GapChance >= 1 {
		return errs.Fatalf("gap_chance %.3f out of range [0,1)", ss.GapChance)
	}
	if ss.GoalMin == 0 {
		ss.GoalMin = DefaultGoalMin
	}
	if ss.GoalMax == 0 {
		ss.GoalMax = max(DefaultGoalMax, ss.GoalMin)
	}
	if ss.GoalMax < ss.GoalMin {
		return errs.Fatalf("goal_max %d < goal_min %d", ss.GoalMax, ss.GoalMin)
	}

	// 寬度權重：沒給就取預設表的前段，長度不足補 1
	span := ss.MaxWidth - ss.MinWidth + 1
	if len(ss.WidthWeights) == 0 {
		ss.WidthWeights = make([]int, span)
		for i := range span {
			w := ss.MinWidth + i
			if w-1 < len(DefaultWidthWeights) {
				ss.WidthWeights[i] = DefaultWidthWeights[w-1]
			} else {
				ss.WidthWeights[i] = 1
			}
		}
	}
	if len(ss.WidthWeights) != span {
		return errs.Fatalf("len(width_weights)=%d, want %d", len(ss.WidthWeights), span)
	}
	lut, err := sampler.BuildLUT(ss.WidthWeights)
	if err != nil {
		return errs.Wrap(err, "width_weights")
	}
	ss.WidthLUT = lut

	if len(ss.KindWeights) == 0 {
		ss.KindWeights = make([]int, len(OrdinaryKinds))
		for i := range ss.KindWeights {
			ss.KindWeights[i] = 1
		}
	}
	if len(ss.KindWeights) != len(OrdinaryKinds) {
		return errs.Fatalf("len(kind_weights)=%d, want %d", len(ss.KindWeights), len(OrdinaryKinds))
	}
	if lut, err = sampler.BuildLUT(ss.KindWeights); err != nil {
		return errs.Wrap(err, "kind_weights")
	}
	ss.KindLUT = lut

	ss.initFlag = true
	return nil
}

// Rows 回傳初始盤面的行數，不超過盤面高度減一。
func (ss *SpawnSetting) Rows(boardRows int) int {
	n := ss.InitialRows
	if n <= 0 {
		n = boardRows / 2
	}
	return min(n, boardRows-1)
}
