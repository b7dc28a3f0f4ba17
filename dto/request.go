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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/corefmt"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/spec"
)

var errNilSession = errs.NewWarn("session is nil")

// 防止 body 過大（1MiB）
const maxBody = 1 << 20

// decodeJSON 嚴格解析：未知欄位視為格式錯誤。
func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errs.NewWarn("empty body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errs.NewWarn("invalid json: " + err.Error())
	}
	return nil
}

type CreateSessionRequest struct {
	Level     spec.LID `json:"level"`          // 關卡編號
	LevelName string   `json:"level_name"`     // 關卡名稱，與 level 擇一
	Seed      *int64   `json:"seed,omitempty"` // 可選：固定 seed(測試、重現)
}

func DecodeCreateSessionRequest(r *http.Request) (*CreateSessionRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := new(CreateSessionRequest)
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.LevelName = q.Get("level_name")
		if s := q.Get("level"); s != "" {
			u, err := strconv.ParseUint(s, 10, 0)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid level: %v", err))
			}
			req.Level = spec.LID(u)
		}
		if s := q.Get("seed"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid seed: %v", err))
			}
			req.Seed = &v
		}
		return req, nil
	case http.MethodPost:
		if err := decodeJSON(r, req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, errs.NewWarn("method not allowed")
	}
}

// Resolve 以名稱優先解析出關卡編號。
func (cr *CreateSessionRequest) Resolve(l *playworks.Lab) (spec.LID, error) {
	if cr.LevelName != "" {
		e, ok := l.EntryByName(cr.LevelName)
		if !ok {
			return 0, errs.NewWarn("level not found: " + cr.LevelName)
		}
		if cr.Level != 0 && cr.Level != e.LID {
			return 0, errs.NewWarn(fmt.Sprintf("level %d does not match level_name %s", cr.Level, cr.LevelName))
		}
		return e.LID, nil
	}
	if _, ok := l.EntryByID(cr.Level); !ok {
		return 0, errs.NewWarn(fmt.Sprintf("level not found: %d", cr.Level))
	}
	return cr.Level, nil
}

// MoveRequest dx 與 dy 只能有一個非 0；dy 只能是 ±1。
type MoveRequest struct {
	Piece int `json:"piece"`
	DX    int `json:"dx"`
	DY    int `json:"dy"`
}

func DecodeMoveRequest(r *http.Request) (*MoveRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	if r.Method != http.MethodPost {
		return nil, errs.NewWarn("method not allowed")
	}
	req := new(MoveRequest)
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (mr *MoveRequest) Parse() (grid.Move, error) {
	if (mr.DX == 0) == (mr.DY == 0) {
		return grid.Move{}, errs.Reject(errs.ErrIllegalMove, "exactly one of dx/dy must be set")
	}
	if mr.DY < -1 || mr.DY > 1 {
		return grid.Move{}, errs.Reject(errs.ErrIllegalMove, fmt.Sprintf("dy=%d", mr.DY))
	}
	return grid.Move{PieceID: mr.Piece, DX: mr.DX, DY: mr.DY}, nil
}

type ReplayRequest struct {
	Token string `json:"replay"`
}

func DecodeReplayRequest(r *http.Request) (*ReplayRequest, error) {
	req := new(ReplayRequest)
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	if req.Token == "" {
		return nil, errs.NewWarn("replay token required")
	}
	return req, nil
}

func (rr *ReplayRequest) Parse() (playworks.Replay, error) {
	rp, err := playworks.DecodeReplay(rr.Token)
	if err != nil {
		return rp, errs.Wrap(errs.NewWarn(err.Error()), "decode replay failed")
	}
	return rp, nil
}

// DevPlayRequest 是 Dev 模式的機器人試玩請求。
type DevPlayRequest struct {
	Level spec.LID `json:"level"`
	Seed  int64    `json:"seed"`
	Moves int      `json:"moves"`
	// StartCoreSnapB64U：亂數核心的起始快照。
	//   - 缺省：以 seed 開局。
	//   - 有值：先還原核心再發牌，用來重現先前回報中的 start_b64u。
	StartCoreSnapB64U string `json:"start_b64u,omitempty"`
}

func DecodeDevPlayRequest(r *http.Request) (*DevPlayRequest, error) {
	req := new(DevPlayRequest)
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	if req.Moves == 0 {
		req.Moves = 20
	}
	if req.StartCoreSnapB64U != "" {
		if _, err := corefmt.DecodeBase64URL(req.StartCoreSnapB64U); err != nil {
			return nil, errs.NewWarn("core snap decode failed " + err.Error())
		}
	}
	return req, nil
}
