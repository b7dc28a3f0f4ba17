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
	"fmt"

	"github.com/wudsh1/playworks-sub001/errs"
)

// LID 關卡編號。
type LID uint

// GameSetting 包含開一局所需的所有高階設定。
type GameSetting struct {
	LevelName string         `yaml:"level_name" json:"level_name"`
	LevelID   LID            `yaml:"level_id"   json:"level_id"`
	Board     BoardSetting   `yaml:"board"      json:"board"`
	Spawn     SpawnSetting   `yaml:"spawn"      json:"spawn"`
	Item      ItemSetting    `yaml:"item"       json:"item"`
	Rule      RuleSetting    `yaml:"rule"       json:"rule"`
	Timing    TimingSetting  `yaml:"timing"     json:"timing"`
	Layout    *LayoutSetting `yaml:"layout"     json:"layout,omitempty"`
	Fixed     map[string]any `yaml:"fixed"      json:"fixed,omitempty"`
	initFlag  bool
}

// Init 補上預設值並建立取樣表，重複呼叫無副作用。
func (gs *GameSetting) Init() error {
	if gs.initFlag {
		return nil
	}
	if err := gs.Board.Init(); err != nil {
		return errs.Wrap(err, "board")
	}
	if err := gs.Spawn.Init(); err != nil {
		return errs.Wrap(err, "spawn")
	}
	if err := gs.Item.Init(); err != nil {
		return errs.Wrap(err, "item")
	}
	if err := gs.Rule.Init(); err != nil {
		return errs.Wrap(err, "rule")
	}
	if err := gs.valid(); err != nil {
		return err
	}
	gs.initFlag = true
	return nil
}

// Default 回傳一份全預設值的設定。
func Default() *GameSetting {
	gs := &GameSetting{LevelName: "default"}
	if err := gs.Init(); err != nil {
		panic(err)
	}
	return gs
}

func (gs *GameSetting) valid() error {
	if gs.Spawn.MaxWidth > gs.Board.Columns {
		return errs.NewFatal(fmt.Sprintf("level %s: max_width %d > columns %d", gs.LevelName, gs.Spawn.MaxWidth, gs.Board.Columns))
	}
	if gs.Spawn.GoalMax > gs.Board.Columns*gs.Spawn.Rows(gs.Board.Rows) {
		return errs.NewFatal(fmt.Sprintf("level %s: goal_max %d exceeds initial cells", gs.LevelName, gs.Spawn.GoalMax))
	}
	if gs.Layout != nil {
		if err := gs.Layout.valid(&gs.Board); err != nil {
			return errs.Wrap(err, "level "+gs.LevelName)
		}
	}
	return nil
}
