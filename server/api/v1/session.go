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
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/dto"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/server/httperr"
	"github.com/wudsh1/playworks-sub001/server/netsvr"
	"github.com/wudsh1/playworks-sub001/server/svrcfg"
)

// SessionHandler 是 session 的 REST 介面，狀態全部在 Runtime。
type SessionHandler struct {
	rt          *playworks.Runtime
	log         *slog.Logger
	moveTimeout time.Duration
}

func NewSessionHandler(rt *playworks.Runtime, sCfg *svrcfg.SvrCfg) (*SessionHandler, error) {
	if rt == nil {
		return nil, errs.NewFatal("runtime is required")
	}
	return &SessionHandler{rt: rt, log: sCfg.Log, moveTimeout: sCfg.MoveTimeout}, nil
}

func (sh *SessionHandler) view(w http.ResponseWriter, s *playworks.Session, status int) {
	lv, err := sh.rt.Level(s.ID())
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	v, err := dto.NewSessionView(s, lv)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
	}
	httperr.JSON(w, v)
}

func (sh *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*playworks.Session, bool) {
	s, err := sh.rt.Get(netsvr.URLParam(r, "id"))
	if err != nil {
		httperr.Errs(w, err)
		return nil, false
	}
	return s, true
}

// Create GET|POST /v1/sessions
func (sh *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeCreateSessionRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	lv, err := req.Resolve(sh.rt.Lab())
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	s, err := sh.rt.Create(r.Context(), lv, req.Seed)
	if err != nil {
		httperr.Log(sh.log, "create session failed", err)
		httperr.Errs(w, err)
		return
	}
	sh.view(w, s, http.StatusCreated)
}

// Get GET /v1/sessions/{id}
func (sh *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if s, ok := sh.session(w, r); ok {
		sh.view(w, s, http.StatusOK)
	}
}

// Delete DELETE /v1/sessions/{id}
func (sh *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := sh.rt.Delete(netsvr.URLParam(r, "id")); err != nil {
		httperr.Errs(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview GET /v1/sessions/{id}/preview，回合進行中也可讀。
func (sh *SessionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if s, ok := sh.session(w, r); ok {
		httperr.JSON(w, s.Preview())
	}
}

// Limits GET /v1/sessions/{id}/limits/{piece}
func (sh *SessionHandler) Limits(w http.ResponseWriter, r *http.Request) {
	s, ok := sh.session(w, r)
	if !ok {
		return
	}
	pid, err := strconv.Atoi(netsvr.URLParam(r, "piece"))
	if err != nil {
		httperr.Errs(w, errs.NewWarn("piece must be integer"))
		return
	}
	lim, err := s.Limits(pid)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	httperr.JSON(w, lim)
}

// Move POST /v1/sessions/{id}/moves
func (sh *SessionHandler) Move(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeMoveRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	m, err := req.Parse()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	id := netsvr.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), sh.moveTimeout)
	defer cancel()
	rep, err := sh.rt.Move(ctx, id, m)
	if err != nil {
		httperr.Log(sh.log, "move failed", err)
		httperr.Errs(w, err)
		return
	}
	s, err := sh.rt.Get(id)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	httperr.JSON(w, dto.NewTurnView(s, rep))
}

// Restart POST /v1/sessions/{id}/restart
func (sh *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	id := netsvr.URLParam(r, "id")
	if _, err := sh.rt.Restart(r.Context(), id); err != nil {
		httperr.Errs(w, err)
		return
	}
	if s, ok := sh.session(w, r); ok {
		sh.view(w, s, http.StatusOK)
	}
}

// Next POST /v1/sessions/{id}/next
func (sh *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	id := netsvr.URLParam(r, "id")
	if _, err := sh.rt.Next(r.Context(), id); err != nil {
		httperr.Errs(w, err)
		return
	}
	if s, ok := sh.session(w, r); ok {
		sh.view(w, s, http.StatusOK)
	}
}

// Replay POST /v1/replay 重跑一份回放，回傳最終盤面(不會放進 Runtime)。
func (sh *SessionHandler) Replay(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeReplayRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	rp, err := req.Parse()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), sh.moveTimeout)
	defer cancel()
	s, err := sh.rt.Lab().PlayReplay(ctx, rp)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	v, err := dto.NewSessionView(s, rp.Level)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	httperr.JSON(w, v)
}

// Metrics GET /v1/metrics
func (sh *SessionHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	httperr.JSON(w, sh.rt.Metrics())
}
