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

package dto

import (
	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/sdk/event"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/spec"
)

// PieceView 是給繪圖端的方塊，附上像素座標(左上角為原點)。
type PieceView struct {
	ID     int       `json:"id"`
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Width  int       `json:"width"`
	Kind   spec.Kind `json:"kind"`
	PixelX int       `json:"px"`
	PixelY int       `json:"py"`
	PixelW int       `json:"pw"`
}

type BoardView struct {
	Columns  int             `json:"columns"`
	Rows     int             `json:"rows"`
	CellSize int             `json:"cell_size"`
	Width    int             `json:"width"`  // 像素，含邊距
	Height   int             `json:"height"` // 像素，含邊距
	Pieces   []PieceView     `json:"pieces"`
	Preview  []grid.Template `json:"preview"`
}

// Metrics 是像素換算參數。
type Metrics struct {
	CellSize int
	Padding  int
}

// MetricsOf 由 session 取出換算參數。
func MetricsOf(s *playworks.Session) Metrics {
	cell := s.CellSize()
	w, _ := s.BoardPixelSize()
	snap := s.Snapshot()
	return Metrics{CellSize: cell, Padding: (w - snap.Columns*cell) / 2}
}

// Pixel 把格座標換成像素；盤面第 0 行在畫面最下方。
func (m Metrics) Pixel(rows, x, y int) (int, int) {
	return m.Padding + x*m.CellSize, m.Padding + (rows-1-y)*m.CellSize
}

func NewBoardView(snap grid.Snapshot, m Metrics) BoardView {
	v := BoardView{
		Columns:  snap.Columns,
		Rows:     snap.Rows,
		CellSize: m.CellSize,
		Width:    snap.Columns*m.CellSize + 2*m.Padding,
		Height:   snap.Rows*m.CellSize + 2*m.Padding,
		Pieces:   make([]PieceView, len(snap.Pieces)),
		Preview:  snap.Preview,
	}
	for i, p := range snap.Pieces {
		px, py := m.Pixel(snap.Rows, p.X, p.Y)
		v.Pieces[i] = PieceView{
			ID: p.ID, X: p.X, Y: p.Y, Width: p.Width, Kind: p.Kind,
			PixelX: px, PixelY: py, PixelW: p.Width * m.CellSize,
		}
	}
	return v
}

type SessionView struct {
	ID     string           `json:"id"`
	Level  spec.LID         `json:"level"`
	Status playworks.Status `json:"status"`
	Board  BoardView        `json:"board"`
	Replay string           `json:"replay"` // 可交給 /replay 重現目前這一局
}

func NewSessionView(s *playworks.Session, level spec.LID) (SessionView, error) {
	if s == nil {
		return SessionView{}, errNilSession
	}
	tok, err := playworks.EncodeReplay(s.Replay())
	if err != nil {
		return SessionView{}, err
	}
	return SessionView{
		ID:     s.ID(),
		Level:  level,
		Status: s.Status(),
		Board:  NewBoardView(s.Snapshot(), MetricsOf(s)),
		Replay: tok,
	}, nil
}

// TurnView 是一次移動的回應：回合結果加上結束後的盤面。
type TurnView struct {
	playworks.TurnReport
	Board BoardView `json:"board"`
}

func NewTurnView(s *playworks.Session, rep playworks.TurnReport) TurnView {
	return TurnView{TurnReport: rep, Board: NewBoardView(s.Snapshot(), MetricsOf(s))}
}

// EventFrame 是 websocket 推送的單一訊號。
type EventFrame struct {
	Session string      `json:"session"`
	Event   event.Event `json:"event"`
	PixelX  int         `json:"px"`
	PixelY  int         `json:"py"`
}

func NewEventFrame(id string, rows int, m Metrics, e event.Event) EventFrame {
	px, py := m.Pixel(rows, e.X, e.Y)
	return EventFrame{Session: id, Event: e, PixelX: px, PixelY: py}
}
