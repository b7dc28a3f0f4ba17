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
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/wudsh1/playworks-sub001/errs"
)

func TestDefaults(t *testing.T) {
	gs := Default()
	if gs.Board.Columns != DefaultColumns || gs.Board.Rows != DefaultRows {
		t.Fatalf("unexpected board dims: %dx%d", gs.Board.Columns, gs.Board.Rows)
	}
	if gs.Board.Threshold(gs.Board.Columns) != DefaultColumns {
		t.Fatalf("threshold should fall back to columns")
	}
	if gs.Spawn.MinWidth != 1 || gs.Spawn.MaxWidth != 4 {
		t.Fatalf("unexpected widths: [%d,%d]", gs.Spawn.MinWidth, gs.Spawn.MaxWidth)
	}
	if len(gs.Spawn.WidthWeights) != 4 || gs.Spawn.WidthWeights[0] != 6 {
		t.Fatalf("unexpected width weights: %v", gs.Spawn.WidthWeights)
	}
	if gs.Spawn.Rows(gs.Board.Rows) != 5 {
		t.Fatalf("initial rows want 5, got %d", gs.Spawn.Rows(gs.Board.Rows))
	}
	if gs.Item.SpawnChance != DefaultItemSpawnChance || gs.Item.LatentDelay != 2 {
		t.Fatalf("unexpected item setting: %+v", gs.Item)
	}
	if gs.Item.Table == nil {
		t.Fatalf("item alias table not built")
	}
	if gs.Rule.MoveBudget != 20 || gs.Rule.ScriptedMove != 5 {
		t.Fatalf("unexpected rule setting: %+v", gs.Rule)
	}
}

func TestGetGameSettingByYAML(t *testing.T) {
	data := []byte(`
level_name: tiny
level_id: 7
board:
  columns: 6
  rows: 5
spawn:
  max_width: 3
  width_weights: [5, 2, 1]
  goal_min: 2
  goal_max: 3
item:
  spawn_chance: 0.5
  weights:
    bomb: 1
    trigger: 4
rule:
  move_budget: 9
timing:
  settle: 120ms
  clear: 0.3s
layout:
  placements:
    - {x: 0, y: 0, width: 2, kind: blue}
    - {x: 2, y: 0, width: 1, kind: goal}
fixed:
  cell_size: 48
`)
	gs, err := GetGameSettingByYAML(data)
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if gs.LevelID != 7 || gs.Board.Columns != 6 || gs.Rule.MoveBudget != 9 {
		t.Fatalf("unexpected setting: %+v", gs)
	}
	if gs.Timing.Settle.D() != 120*time.Millisecond || gs.Timing.Clear.D() != 300*time.Millisecond {
		t.Fatalf("unexpected timing: %+v", gs.Timing)
	}
	if gs.Item.Weights[KindTrigger] != 4 {
		t.Fatalf("item weights not decoded: %v", gs.Item.Weights)
	}
	if gs.Layout == nil || gs.Layout.Goals() != 1 {
		t.Fatalf("layout not decoded: %+v", gs.Layout)
	}

	var fixed struct {
		CellSize int `yaml:"cell_size"`
	}
	if err := DecodeFixed(gs, &fixed); err != nil || fixed.CellSize != 48 {
		t.Fatalf("decode fixed: %v %+v", err, fixed)
	}
}

func TestGetGameSettingRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":   "level_name: x\nboard: {colums: 4}\n",
		"bad kind":        "layout:\n  placements: [{x: 0, y: 0, width: 1, kind: purple}]\n",
		"wide item":       "layout:\n  placements: [{x: 0, y: 0, width: 2, kind: bomb}]\n",
		"out of board":    "layout:\n  placements: [{x: 11, y: 0, width: 2, kind: red}]\n",
		"width weights":   "spawn: {width_weights: [1, 2]}\n",
		"goal range":      "spawn: {goal_min: 5, goal_max: 3}\n",
		"bad chance":      "item: {spawn_chance: 1.5}\n",
		"item weight ord": "item: {weights: {blue: 3}}\n",
	}
	for name, data := range cases {
		if _, err := GetGameSettingByYAML([]byte(data)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestGetGameSettingByJSON(t *testing.T) {
	data := []byte(`{"level_name":"j","board":{"columns":8,"rows":8},"timing":{"settle":250,"fly":"1s"}}`)
	gs, err := GetGameSettingByName("level.json", data)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if gs.Timing.Settle.D() != 250*time.Millisecond || gs.Timing.Fly.D() != time.Second {
		t.Fatalf("unexpected timing: %+v", gs.Timing)
	}
	out, err := json.Marshal(gs.Timing)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) == "" {
		t.Fatalf("empty timing json")
	}
	if _, err := GetGameSettingByName("level.toml", data); err == nil {
		t.Fatalf("expected unsupported extension")
	}
}

func TestKind(t *testing.T) {
	for _, k := range append(append([]Kind{}, OrdinaryKinds...), ItemKinds...) {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKind(%q)=%v,%v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("nope"); ok {
		t.Fatalf("expected parse error")
	}
	if !KindBlue.IsOrdinary() || KindBlue.IsSpecial() {
		t.Fatalf("blue must be ordinary")
	}
	if KindLatent.IsOrdinary() || !KindLatent.IsSpecial() {
		t.Fatalf("latent must be special")
	}
	if KindNone.IsOrdinary() || KindNone.IsSpecial() || KindNone.Valid() {
		t.Fatalf("none has no category")
	}
}

func TestDefaultItemWeightsNotShared(t *testing.T) {
	want := DefaultItemWeights[KindBomb]
	a := Default()
	a.Item.Weights[KindBomb] = want + 100
	delete(a.Item.Weights, KindLatent)
	if DefaultItemWeights[KindBomb] != want || DefaultItemWeights[KindLatent] == 0 {
		t.Fatalf("package defaults mutated: %v", DefaultItemWeights)
	}
	b := Default()
	if b.Item.Weights[KindBomb] != want || b.Item.Weights[KindLatent] == 0 {
		t.Fatalf("second setting sees first setting's weights: %v", b.Item.Weights)
	}
}

func TestInitIdempotent(t *testing.T) {
	gs := &GameSetting{}
	if err := gs.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	lut := gs.Spawn.WidthLUT
	if err := gs.Init(); err != nil {
		t.Fatalf("second init: %v", err)
	}
	if len(gs.Spawn.WidthLUT) != len(lut) {
		t.Fatalf("second init rebuilt tables")
	}
	bad := &GameSetting{Board: BoardSetting{Columns: 2}}
	err := bad.Init()
	if err == nil || !errs.IsFatal(err) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	var e *errs.E
	if !errors.As(err, &e) {
		t.Fatalf("expected *errs.E")
	}
}
