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

package grid

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/wudsh1/playworks-sub001/spec"
)

// Snapshot 是給繪圖端的唯讀快照。
type Snapshot struct {
	Columns int        `json:"columns"`
	Rows    int        `json:"rows"`
	Pieces  []Piece    `json:"pieces"`
	Preview []Template `json:"preview"`
}

func (b *Board) Snapshot() Snapshot {
	s := Snapshot{
		Columns: b.Columns,
		Rows:    b.Rows,
		Pieces:  make([]Piece, len(b.pieces)),
		Preview: make([]Template, len(b.Preview)),
	}
	for i, p := range b.pieces {
		s.Pieces[i] = *p
	}
	copy(s.Preview, b.Preview)
	return s
}

const cellWidth = 2

var glyphs = map[spec.Kind]string{
	spec.KindBlue:       "藍",
	spec.KindRed:        "紅",
	spec.KindGoal:       "★",
	spec.KindBomb:       "炸",
	spec.KindRowClearer: "橫",
	spec.KindColClearer: "縱",
	spec.KindTrigger:    "觸",
	spec.KindLatent:     "潛",
}

func glyph(k spec.Kind) string {
	if g, ok := glyphs[k]; ok {
		return g
	}
	return "?"
}

// Render 以文字畫出盤面(由上而下)，寬方塊的延伸格以 "=" 表示。
// 只供 log 與測試比對。
func (b *Board) Render(w io.Writer) error {
	var sb strings.Builder
	label := runewidth.StringWidth(fmt.Sprint(b.Rows - 1))
	for row := b.Rows - 1; row >= 0; row-- {
		sb.WriteString(runewidth.FillLeft(fmt.Sprint(row), label))
		sb.WriteString(" |")
		for col := 0; col < b.Columns; col++ {
			cell := "."
			if p := b.PieceAt(col, row); p != nil {
				cell = glyph(p.Kind)
				if col != p.X {
					cell = "="
				}
			}
			sb.WriteString(runewidth.FillRight(cell, cellWidth))
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(strings.Repeat(" ", label))
	sb.WriteString(" +")
	sb.WriteString(strings.Repeat("-", b.Columns*cellWidth))
	sb.WriteString("+\n")
	if len(b.Preview) > 0 {
		next := make([]string, b.Columns)
		for i := range next {
			next[i] = runewidth.FillRight(".", cellWidth)
		}
		for _, t := range b.Preview {
			for c := t.X; c < t.X+t.Width && c < b.Columns; c++ {
				g := "="
				if c == t.X {
					g = glyph(t.Kind)
				}
				next[c] = runewidth.FillRight(g, cellWidth)
			}
		}
		sb.WriteString(strings.Repeat(" ", label))
		sb.WriteString("  ")
		sb.WriteString(strings.Join(next, ""))
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// String 方便在 t.Fatalf 中印出盤面。
func (b *Board) String() string {
	var sb strings.Builder
	_ = b.Render(&sb)
	return sb.String()
}
