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

package v1

import (
	"testing"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/dto"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/sdk/event"
	"github.com/wudsh1/playworks-sub001/sdk/step"
	"github.com/wudsh1/playworks-sub001/spec"
)

func TestFrameMapperFollowsRedeal(t *testing.T) {
	// 首局用 6x4 的手工版面，重開後改用 6x6 的隨機盤面
	gs := &spec.GameSetting{
		LevelName: "t",
		LevelID:   1,
		Board:     spec.BoardSetting{Columns: 6, Rows: 6},
		Spawn:     spec.SpawnSetting{GoalMin: 1, GoalMax: 1},
		Item:      spec.ItemSetting{Disabled: true},
		Rule:      spec.RuleSetting{MoveBudget: 5, NoScript: true},
		Layout: &spec.LayoutSetting{Rows: 4, Placements: []spec.Placement{
			{X: 0, Y: 0, Width: 1, Kind: spec.KindGoal},
		}},
	}
	s, err := playworks.NewSessionWithSeed(gs, core.Default(), 3, playworks.WithClock(&step.NoDelay{}))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	e := event.Event{Type: event.MoveMade, X: 1, Y: 0}
	fm := newFrameMapper(s)
	m := dto.MetricsOf(s)
	if f := fm.frame(s.ID(), e); f.PixelY != m.Padding+3*m.CellSize {
		t.Fatalf("first board py=%d", f.PixelY)
	}

	if err := s.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if rows := s.Snapshot().Rows; rows != 6 {
		t.Fatalf("restarted board rows=%d", rows)
	}
	m = dto.MetricsOf(s)
	f := fm.frame(s.ID(), e)
	if f.PixelY != m.Padding+5*m.CellSize || f.PixelX != m.Padding+m.CellSize {
		t.Fatalf("frame after restart mapped with stale rows: (%d,%d)", f.PixelX, f.PixelY)
	}
}
