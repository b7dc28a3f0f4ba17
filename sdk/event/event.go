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

// Package event 是盤面引擎對外的訊號介面，繪圖與音效端只需實作 Listener。
package event

import (
	"fmt"

	"github.com/wudsh1/playworks-sub001/spec"
)

type Type uint8

const (
	None              Type = iota
	MoveMade               // 玩家移動已套用
	RowsCleared            // Count=消除行數，Goal=是否消到目標物
	ComboChanged           // Count=目前連擊
	ItemSpawned            // Kind=生成的道具
	PieceCleared           // 區域消除時逐塊送出，給消除動畫用
	GoalCountChanged       // Count=剩餘目標物
	TargetChanged          // Count=新的目標數(整盤清除後重生目標物時上調)
	RowPushed              // 新的一行從底部推入
	LatentTransformed      // 潛伏道具變成炸彈
	EffectTriggered        // 道具組合觸發，Kind=主導的道具
	Won
	Lost
	typeCount
)

var typeNames = [typeCount]string{
	None:              "none",
	MoveMade:          "move_made",
	RowsCleared:       "rows_cleared",
	ComboChanged:      "combo_changed",
	ItemSpawned:       "item_spawned",
	PieceCleared:      "piece_cleared",
	GoalCountChanged:  "goal_count_changed",
	TargetChanged:     "target_changed",
	RowPushed:         "row_pushed",
	LatentTransformed: "latent_transformed",
	EffectTriggered:   "effect_triggered",
	Won:               "won",
	Lost:              "lost",
}

func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("event(%d)", uint8(t))
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(b []byte) error {
	for i, name := range typeNames {
		if name == string(b) {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", string(b))
}

// Event 是單一訊號；未使用的欄位保持零值。
type Event struct {
	Type  Type      `json:"type"`
	Turn  int       `json:"turn"`
	Count int       `json:"count,omitempty"`
	Goal  bool      `json:"goal,omitempty"`
	Kind  spec.Kind `json:"kind,omitempty"`
	Piece int       `json:"piece,omitempty"`
	X     int       `json:"x,omitempty"`
	Y     int       `json:"y,omitempty"`
}

type Listener interface {
	OnEvent(Event)
}

type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

// Discard 丟棄所有訊號。
var Discard Listener = ListenerFunc(func(Event) {})

// Fanout 依序轉送給每個非 nil 的 Listener。
type Fanout []Listener

func (f Fanout) OnEvent(e Event) {
	for _, l := range f {
		if l != nil {
			l.OnEvent(e)
		}
	}
}

// Recorder 把訊號存起來，回合結束後一次取出。
type Recorder struct {
	Events []Event
}

func (r *Recorder) OnEvent(e Event) { r.Events = append(r.Events, e) }

// Take 取出目前累積的訊號並清空。
func (r *Recorder) Take() []Event {
	out := r.Events
	r.Events = nil
	return out
}

// Count 回傳指定類型的訊號數。
func Count(events []Event, t Type) int {
	n := 0
	for _, e := range events {
		if e.Type == t {
			n++
		}
	}
	return n
}
