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
	"fmt"

	"github.com/wudsh1/playworks-sub001/sdk/event"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/sdk/ops"
)

// State 是回合狀態機的狀態。Won/Lost 一旦進入就不再離開；Broken 表示盤面不變量被破壞。
type State uint32

const (
	AwaitingInput State = iota
	Processing
	Won
	Lost
	Broken
)

var stateNames = [...]string{"awaiting_input", "processing", "won", "lost", "broken"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint32(s))
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Over 回報是否已結束(勝、負或損毀)。
func (s State) Over() bool { return s == Won || s == Lost || s == Broken }

// Progress 是跨 Restart / NextLevel 延續的外層狀態。
type Progress struct {
	Playthrough     int  `json:"playthrough"` // 0 表示首次遊玩
	Level           int  `json:"level"`
	FirstLayoutUsed bool `json:"first_layout_used"`
	ScriptedFired   bool `json:"scripted_fired"`
	ResultShown     bool `json:"result_shown"` // 本局勝負訊號已送出
}

// Status 是對外的計數快照。
type Status struct {
	ID              string   `json:"id"`
	State           State    `json:"state"`
	Score           int      `json:"score"`
	Combo           int      `json:"combo"`
	MovesRemaining  int      `json:"moves_remaining"`
	MovesMade       int      `json:"moves_made"`
	GoalCount       int      `json:"goal_count"`
	TargetGoalCount int      `json:"target_goal_count"`
	IsOver          bool     `json:"is_over"`
	IsProcessing    bool     `json:"is_processing"`
	Progress        Progress `json:"progress"`
}

// PlayStats 累計一局內的統計，供 recorder 使用。
type PlayStats struct {
	RowsCleared   int `json:"rows_cleared"`
	ClearPasses   int `json:"clear_passes"`
	MaxCombo      int `json:"max_combo"`
	ItemsSpawned  int `json:"items_spawned"`
	BoardClears   int `json:"board_clears"`
	RowEffects    int `json:"row_effects"`
	ColumnEffects int `json:"column_effects"`
	RowsPushed    int `json:"rows_pushed"`
	PushSkipped   int `json:"push_skipped"`
	Latents       int `json:"latents"`
}

// TurnReport 是一個回合的完整結果。
type TurnReport struct {
	Turn           int             `json:"turn"`
	Move           grid.Move       `json:"move"`
	Effect         ops.EffectKind  `json:"effect"`
	Clear          ops.ClearReport `json:"clear"`
	Pushed         bool            `json:"pushed"`
	Scripted       bool            `json:"scripted"`
	State          State           `json:"state"`
	Score          int             `json:"score"`
	Combo          int             `json:"combo"`
	MovesRemaining int             `json:"moves_remaining"`
	GoalCount      int             `json:"goal_count"`
	Target         int             `json:"target"`
	Events         []event.Event   `json:"events"`
	Trace          []string        `json:"trace,omitempty"`
}
