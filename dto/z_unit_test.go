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
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/spec"
)

func TestDecodeCreateSessionGET(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/v1/sessions?level=3&seed=-9", nil)
	req, err := DecodeCreateSessionRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Level != 3 || req.Seed == nil || *req.Seed != -9 {
		t.Fatalf("unexpected request: %+v", req)
	}
	r = httptest.NewRequest(http.MethodGet, "/v1/sessions?seed=x", nil)
	if _, err := DecodeCreateSessionRequest(r); err == nil {
		t.Fatalf("expected error for bad seed")
	}
}

func TestDecodeCreateSessionPOST(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader([]byte(`{"level_name":"tutorial"}`)))
	req, err := DecodeCreateSessionRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.LevelName != "tutorial" || req.Seed != nil {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/m", bytes.NewReader([]byte(`{"piece":1,"dx":1,"unknown":true}`)))
	if _, err := DecodeMoveRequest(r); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestMoveRequestParse(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/m", bytes.NewReader([]byte(`{"piece":4,"dx":-2}`)))
	req, err := DecodeMoveRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, err := req.Parse()
	if err != nil || m != (grid.Move{PieceID: 4, DX: -2}) {
		t.Fatalf("unexpected move %+v err=%v", m, err)
	}
	for _, bad := range []MoveRequest{{Piece: 1}, {Piece: 1, DX: 1, DY: 1}, {Piece: 1, DY: 2}} {
		if _, err := bad.Parse(); !errors.Is(err, errs.ErrIllegalMove) {
			t.Fatalf("%+v: want ErrIllegalMove, got %v", bad, err)
		}
	}
}

func TestBoardViewPixels(t *testing.T) {
	snap := grid.Snapshot{
		Columns: 4,
		Rows:    3,
		Pieces:  []grid.Piece{{ID: 1, X: 1, Y: 0, Width: 2, Kind: spec.KindBlue}},
	}
	v := NewBoardView(snap, Metrics{CellSize: 10, Padding: 5})
	if v.Width != 50 || v.Height != 40 {
		t.Fatalf("size=%dx%d", v.Width, v.Height)
	}
	p := v.Pieces[0]
	if p.PixelX != 15 || p.PixelY != 25 || p.PixelW != 20 {
		t.Fatalf("unexpected pixels %+v", p)
	}
}

func TestDevPlayDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/dev", bytes.NewReader([]byte(`{"level":1,"seed":5}`)))
	req, err := DecodeDevPlayRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Moves != 20 {
		t.Fatalf("moves=%d", req.Moves)
	}
	r = httptest.NewRequest(http.MethodPost, "/dev", bytes.NewReader([]byte(`{"level":1,"start_b64u":"***"}`)))
	if _, err := DecodeDevPlayRequest(r); err == nil {
		t.Fatalf("expected error for bad snapshot")
	}
}
