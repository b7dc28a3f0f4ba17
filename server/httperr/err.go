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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
//   - ctx timeout/cancel → 504/408
//   - session 不存在 → 404
//   - 回合進行中、已結束 → 409
//   - session 已滿 → 429
//   - 其餘 errs.Warn → 400，errs.Fatal → 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, playworks.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrBusy), errors.Is(err, errs.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, playworks.ErrRuntimeFull):
		return http.StatusTooManyRequests
	}
	var e *errs.E
	if errors.As(err, &e) && e.ErrLv == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Body 是錯誤回應的 JSON 格式。
type Body struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
	Code   string `json:"code,omitempty"` // 固定錯誤的主訊息，給前端判斷
}

func NewBody(err error) Body {
	b := Body{Error: err.Error(), Status: StatusCode(err)}
	if e, ok := errs.AsErr(err); ok {
		b.Code = e.Message
	}
	return b
}

func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	b := NewBody(err)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(b.Status)
	_ = json.NewEncoder(w).Encode(b)
}

func Log(log *slog.Logger, msg string, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	if (status == 408) || (status == 409) || (status == 429) {
		log.Warn(msg, slog.Any("err", err))
	} else if (status >= 500) && (status < 600) {
		log.Error(msg, slog.Any("err", err))
	}
}

// JSON 寫出 200 與 JSON 內容。
func JSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Errs(w, errs.Wrap(err, "encode response failed"))
	}
}
