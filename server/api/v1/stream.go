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
	"time"

	"github.com/gorilla/websocket"
	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/dto"
	"github.com/wudsh1/playworks-sub001/server/httperr"
	"github.com/wudsh1/playworks-sub001/sdk/event"
	"github.com/wudsh1/playworks-sub001/server/netsvr"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMessage = 4 << 10
	streamBuf  = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// wsReply 是對客戶端移動訊息的回覆；訊號則以 dto.EventFrame 推送。
type wsReply struct {
	Type  string        `json:"type"` // turn / error
	Turn  *dto.TurnView `json:"turn,omitempty"`
	Error *httperr.Body `json:"error,omitempty"`
}

// Stream GET /v1/sessions/{id}/ws
//
// 伺服器推送該 session 的所有訊號；客戶端可以送 {"piece":..,"dx":..,"dy":..} 直接移動。
// session 被刪除或回收時以 CloseGoingAway 關閉連線。
func (sh *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id := netsvr.URLParam(r, "id")
	s, err := sh.rt.Get(id)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	events, cancel, err := sh.rt.Subscribe(id, streamBuf)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	defer cancel()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已寫回錯誤
		sh.log.Warn("ws upgrade failed", slog.String("session", id), slog.Any("err", err))
		return
	}
	defer conn.Close()

	frames := newFrameMapper(s)
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	replies := make(chan wsReply, 8)
	go sh.readLoop(ctx, stop, conn, id, replies)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	write := func(v any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(v) == nil
	}
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
				return
			}
			if !write(frames.frame(id, e)) {
				return
			}
		case rp := <-replies:
			if !write(rp) {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// frameMapper 把訊號換成像素座標。重開或換關會重新發盤，盤面尺寸可能改變，
// 因此 Playthrough 或 Level 變動時重新讀取行數與換算參數。
type frameMapper struct {
	s           *playworks.Session
	level, play int
	rows        int
	m           dto.Metrics
}

func newFrameMapper(s *playworks.Session) *frameMapper {
	fm := &frameMapper{s: s}
	fm.refresh(s.Status().Progress)
	return fm
}

func (fm *frameMapper) refresh(p playworks.Progress) {
	fm.level, fm.play = p.Level, p.Playthrough
	fm.rows = fm.s.Snapshot().Rows
	fm.m = dto.MetricsOf(fm.s)
}

func (fm *frameMapper) frame(id string, e event.Event) dto.EventFrame {
	if p := fm.s.Status().Progress; p.Level != fm.level || p.Playthrough != fm.play {
		fm.refresh(p)
	}
	return dto.NewEventFrame(id, fm.rows, fm.m, e)
}

// readLoop 讀取客戶端的移動；任何讀取錯誤(含對方關閉)都結束整條連線。
func (sh *SessionHandler) readLoop(ctx context.Context, stop context.CancelFunc, conn *websocket.Conn, id string, replies chan<- wsReply) {
	defer stop()
	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var req dto.MoveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				sh.log.Debug("ws read closed", slog.String("session", id), slog.Any("err", err))
			}
			return
		}
		rp := sh.wsMove(ctx, id, &req)
		select {
		case replies <- rp:
		case <-ctx.Done():
			return
		}
	}
}

func (sh *SessionHandler) wsMove(ctx context.Context, id string, req *dto.MoveRequest) wsReply {
	fail := func(err error) wsReply {
		b := httperr.NewBody(err)
		return wsReply{Type: "error", Error: &b}
	}
	mv, err := req.Parse()
	if err != nil {
		return fail(err)
	}
	ctx, cancel := context.WithTimeout(ctx, sh.moveTimeout)
	defer cancel()
	rep, err := sh.rt.Move(ctx, id, mv)
	if err != nil {
		httperr.Log(sh.log, "ws move failed", err)
		return fail(err)
	}
	s, err := sh.rt.Get(id)
	if err != nil {
		return fail(err)
	}
	tv := dto.NewTurnView(s, rep)
	return wsReply{Type: "turn", Turn: &tv}
}
