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
	"net/http"
	"net/http/httptest"
	"testing"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errs.Wrap(context.DeadlineExceeded, "move"), http.StatusGatewayTimeout},
		{context.Canceled, http.StatusRequestTimeout},
		{errs.Reject(playworks.ErrSessionNotFound, "abc"), http.StatusNotFound},
		{errs.Reject(errs.ErrBusy, "abc"), http.StatusConflict},
		{errs.Reject(errs.ErrGameOver, "won"), http.StatusConflict},
		{errs.Reject(playworks.ErrRuntimeFull, ""), http.StatusTooManyRequests},
		{errs.Reject(errs.ErrIllegalMove, "dx=9"), http.StatusBadRequest},
		{errs.ErrNotConverged, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := StatusCode(c.err); got != c.want {
			t.Fatalf("%v: got %d want %d", c.err, got, c.want)
		}
	}
}

func TestErrsWritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	Errs(rec, errs.Reject(errs.ErrIllegalMove, "piece 3"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
	var b Body
	if err := json.NewDecoder(rec.Body).Decode(&b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.Code != "illegal move" || b.Status != http.StatusBadRequest {
		t.Fatalf("unexpected body %+v", b)
	}
}
