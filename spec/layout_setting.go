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

// Placement 是手工關卡的一筆擺放紀錄。
type Placement struct {
	X     int  `yaml:"x"     json:"x"`
	Y     int  `yaml:"y"     json:"y"`
	Width int  `yaml:"width" json:"width"`
	Kind  Kind `yaml:"kind"  json:"kind"`
}

// LayoutSetting 首局使用的固定盤面；Columns/Rows 非 0 時覆寫盤面尺寸。
type LayoutSetting struct {
	Columns    int         `yaml:"columns"    json:"columns"`
	Rows       int         `yaml:"rows"       json:"rows"`
	Placements []Placement `yaml:"placements" json:"placements"`
	Preview    []Placement `yaml:"preview"    json:"preview"` // 選填：首局的下一行
}

// Dims 回傳套用覆寫後的尺寸。
func (ls *LayoutSetting) Dims(bs *BoardSetting) (int, int) {
	cols, rows := bs.Columns, bs.Rows
	if ls.Columns > 0 {
		cols = ls.Columns
	}
	if ls.Rows > 0 {
		rows = ls.Rows
	}
	return cols, rows
}

// Goals 回傳版面中目標物的數量。
func (ls *LayoutSetting) Goals() int {
	n := 0
	for _, p := range ls.Placements {
		if p.Kind == KindGoal {
			n++
		}
	}
	return n
}

// valid 只做格式檢查(越界、寬度、種類)；重疊與支撐由載入後的重力處理。
func (ls *LayoutSetting) valid(bs *BoardSetting) error {
	cols, rows := ls.Dims(bs)
	check := func(tag string, i int, p Placement) error {
		if !p.Kind.Valid() {
			return errs.NewFatal(fmt.Sprintf("layout %s[%d]: invalid kind", tag, i))
		}
		if p.Width < 1 || (p.Kind.IsSpecial() && p.Width != 1) {
			return errs.NewFatal(fmt.Sprintf("layout %s[%d]: invalid width %d for %s", tag, i, p.Width, p.Kind))
		}
		if p.X < 0 || p.X+p.Width > cols || p.Y < 0 || p.Y >= rows {
			return errs.NewFatal(fmt.Sprintf("layout %s[%d]: (%d,%d,w=%d) out of %dx%d", tag, i, p.X, p.Y, p.Width, cols, rows))
		}
		return nil
	}
	for i, p := range ls.Placements {
		if err := check("placements", i, p); err != nil {
			return err
		}
	}
	for i, p := range ls.Preview {
		p.Y = 0
		if err := check("preview", i, p); err != nil {
			return err
		}
	}
	return nil
}
