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

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/server/httperr"
)

// Recover 使用 chi 的 Recoverer(輸出 stack 到 stderr)。
func Recover(next http.Handler) http.Handler {
	return chimid.Recoverer(next)
}

// RecoverWith 把 panic 記到 log 並回傳 JSON 500；websocket 升級後的 panic 不寫回應。
func RecoverWith(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		return Recover
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("http.panic",
					slog.Any("panic", rec),
					slog.String("path", r.URL.Path),
					slog.String("req_id", chimid.GetReqID(r.Context())),
					slog.String("stack", string(debug.Stack())),
				)
				if !isWebSocketUpgrade(r) {
					httperr.Errs(w, errs.Fatalf("internal panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
