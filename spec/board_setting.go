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

import "github.com/wudsh1/playworks-sub001/errs"

const (
	DefaultColumns  = 12
	DefaultRows     = 10
	DefaultCellSize = 64
)

// BoardSetting 盤面尺寸與消行門檻。
type BoardSetting struct {
	Columns       int `yaml:"columns"        json:"columns"`
	Rows          int `yaml:"rows"           json:"rows"`
	FillThreshold int `yaml:"fill_threshold" json:"fill_threshold"` // 0 表示等於 columns
	CellSize      int `yaml:"cell_size"      json:"cell_size"`      // 只給座標換算用
	initFlag      bool
}

func (bs *BoardSetting) Init() error {
	if bs.initFlag {
		return nil
	}
	if bs.Columns == 0 {
		bs.Columns = DefaultColumns
	}
	if bs.Rows == 0 {
		bs.Rows = DefaultRows
	}
	if bs.CellSize == 0 {
		bs.CellSize = DefaultCellSize
	}
	if bs.Columns < 3 || bs.Rows < 3 {
		return errs.Fatalf("invalid board dimensions: cols=%d rows=%d", bs.Columns, bs.Rows)
	}
	if bs.FillThreshold < 0 || bs.FillThreshold > bs.Columns {
		return errs.Fatalf("fill_threshold %d out of range [0,%d]", bs.FillThreshold, bs.Columns)
	}
	bs.initFlag = true
	return nil
}

// Threshold 回傳指定寬度盤面的消行門檻。
func (bs *BoardSetting) Threshold(columns int) int {
	if bs.FillThreshold <= 0 || bs.FillThreshold > columns {
		return columns
	}
	return bs.FillThreshold
}
