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

package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/catalog"
	"github.com/wudsh1/playworks-sub001/dto"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/server/netsvr"
	"github.com/wudsh1/playworks-sub001/server/svrcfg"
)

func newServer(t *testing.T, dev bool) *httptest.Server {
	t.Helper()
	fsys := fstest.MapFS{
		"alpha.yaml": {Data: []byte("level_name: alpha\nlevel_id: 1\nrule:\n  move_budget: 10\n")},
		"beta.yaml":  {Data: []byte("level_name: beta\nlevel_id: 2\nrule:\n  move_budget: 12\n")},
	}
	lab, err := playworks.NewAuto(core.Default(), playworks.Configs(fsys))
	if err != nil {
		t.Fatalf("new lab: %v", err)
	}
	sCfg := &svrcfg.SvrCfg{
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Lab: lab,
		Dev: dev,
	}
	if err := sCfg.Valid(); err != nil {
		t.Fatalf("valid: %v", err)
	}
	rt, err := lab.BuildRuntime(sCfg.MaxSessions)
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}
	t.Cleanup(rt.Close)
	svr := netsvr.NewChiServer(":0", 0)
	if err := RegisterRoutes(svr, sCfg, rt); err != nil {
		t.Fatalf("register: %v", err)
	}
	ts := httptest.NewServer(svr.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestLevelsListed(t *testing.T) {
	ts := newServer(t, false)
	var sums []catalog.Summary
	if code := do(t, http.MethodGet, ts.URL+"/v1/levels", "", &sums); code != http.StatusOK {
		t.Fatalf("levels status=%d", code)
	}
	if len(sums) != 2 || sums[0].Name != "alpha" {
		t.Fatalf("unexpected levels %+v", sums)
	}
	if code := do(t, http.MethodGet, ts.URL+"/v1/levels/9", "", nil); code != http.StatusBadRequest {
		t.Fatalf("unknown level status=%d", code)
	}
}

func TestSessionEndpoints(t *testing.T) {
	ts := newServer(t, false)
	var sv dto.SessionView
	code := do(t, http.MethodPost, ts.URL+"/v1/sessions", `{"level_name":"beta","seed":3}`, &sv)
	if code != http.StatusCreated {
		t.Fatalf("create status=%d", code)
	}
	if sv.ID == "" || sv.Level != 2 || sv.Status.MovesRemaining != 12 {
		t.Fatalf("unexpected view %+v", sv)
	}
	if sv.Board.Columns == 0 || len(sv.Board.Pieces) == 0 || sv.Replay == "" {
		t.Fatalf("board not rendered %+v", sv.Board)
	}

	var again dto.SessionView
	if code := do(t, http.MethodGet, ts.URL+"/v1/sessions/"+sv.ID, "", &again); code != http.StatusOK {
		t.Fatalf("get status=%d", code)
	}
	if again.ID != sv.ID {
		t.Fatalf("get returned %s", again.ID)
	}

	if code := do(t, http.MethodPost, ts.URL+"/v1/sessions/"+sv.ID+"/moves", `{"piece":99999,"dx":1}`, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown piece status=%d", code)
	}
	if code := do(t, http.MethodPost, ts.URL+"/v1/sessions/"+sv.ID+"/moves", `{"piece":1,"dx":1,"dy":1}`, nil); code != http.StatusBadRequest {
		t.Fatalf("diagonal move status=%d", code)
	}
	if code := do(t, http.MethodDelete, ts.URL+"/v1/sessions/"+sv.ID, "", nil); code != http.StatusNoContent {
		t.Fatalf("delete status=%d", code)
	}
	if code := do(t, http.MethodGet, ts.URL+"/v1/sessions/"+sv.ID, "", nil); code != http.StatusNotFound {
		t.Fatalf("deleted session status=%d", code)
	}
}

func TestDevRoutesOnlyWhenEnabled(t *testing.T) {
	off := newServer(t, false)
	if code := do(t, http.MethodGet, off.URL+"/dev/meta", "", nil); code != http.StatusNotFound {
		t.Fatalf("dev off status=%d", code)
	}
	on := newServer(t, true)
	var sums []catalog.Summary
	if code := do(t, http.MethodGet, on.URL+"/dev/meta", "", &sums); code != http.StatusOK || len(sums) != 2 {
		t.Fatalf("dev meta status=%d len=%d", code, len(sums))
	}
	var rep playworks.DevPlayReport
	if code := do(t, http.MethodPost, on.URL+"/dev/play", `{"level":1,"seed":5,"moves":3}`, &rep); code != http.StatusOK {
		t.Fatalf("dev play status=%d", code)
	}
	if rep.Seed != 5 || len(rep.Turns) > 3 || rep.Replay == "" {
		t.Fatalf("unexpected dev report seed=%d turns=%d", rep.Seed, len(rep.Turns))
	}
}
