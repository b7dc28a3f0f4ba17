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
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/server/httperr"
	"github.com/wudsh1/playworks-sub001/spec"
	"github.com/wudsh1/playworks-sub001/stats"
)

const (
	maxGames   = 200000
	maxWorkers = 16
)

type SimHandler struct {
	Lab *playworks.Lab
}

func NewSimHandler(lab *playworks.Lab) (*SimHandler, error) {
	if lab == nil {
		return nil, errs.NewFatal("lab is required")
	}
	return &SimHandler{Lab: lab}, nil
}

type SimResponse struct {
	Stats    *stats.PlayReport `json:"stats"`
	Seed     int64             `json:"seed"`
	UsedTime int64             `json:"used_ms"`
}

// Sim GET|POST /v1/sim 以機器人模擬 games 局並回傳勝率報表。
func (sh *SimHandler) Sim(w http.ResponseWriter, q *http.Request) {
	// 內部結構 不影響外部
	type SimRequestBody struct {
		Level   spec.LID `json:"level"`
		Games   int      `json:"games"`
		Workers int      `json:"workers"`
		Seed    *int64   `json:"seed,omitempty"`
	}
	req := &SimRequestBody{Workers: 1}
	switch q.Method {
	case http.MethodGet:
		v := q.URL.Query()
		s := v.Get("level")
		if s == "" {
			httperr.Errs(w, errs.NewWarn("level is required"))
			return
		}
		lv, err := parseLevel(s)
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		req.Level = lv
		if req.Games, err = intParam(v.Get("games"), "games", 0); err != nil {
			httperr.Errs(w, err)
			return
		}
		if req.Workers, err = intParam(v.Get("workers"), "workers", 1); err != nil {
			httperr.Errs(w, err)
			return
		}
		if s := v.Get("seed"); s != "" {
			u, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				httperr.Errs(w, errs.NewWarn("seed must be int64"))
				return
			}
			req.Seed = &u
		}
	case http.MethodPost:
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			httperr.Errs(w, errs.NewWarn("invalid json:"+err.Error()))
			return
		}
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := sh.Lab.EntryByID(req.Level); !ok {
		httperr.Errs(w, errs.NewWarn("level not found"))
		return
	}
	if err := checkGames(req.Games, req.Workers); err != nil {
		httperr.Errs(w, err)
		return
	}
	seed, err := seedOr(req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sim, err := sh.Lab.NewSimulatorWithSeed(req.Level, seed)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("build simulator err: %d", req.Level)))
		return
	}
	st, used, err := sim.SimMP(req.Games, req.Workers, false)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, "simulate err"))
		return
	}
	httperr.JSON(w, SimResponse{Stats: st, Seed: seed, UsedTime: used.Milliseconds()})
}

// SimByCfg POST /v1/simbycfg 以請求帶入的關卡設定模擬，調整關卡時不必重新部署。
// cfg 可以是 JSON 物件，或內容為 YAML 的字串。
func (sh *SimHandler) SimByCfg(w http.ResponseWriter, r *http.Request) {
	type SimRequestByCfg struct {
		Games   int             `json:"games"`
		Workers int             `json:"workers"`
		Setting json.RawMessage `json:"cfg"`
		Seed    *int64          `json:"seed,omitempty"`
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req := &SimRequestByCfg{Workers: 1}
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httperr.Errs(w, errs.NewWarn("json decode failed: "+err.Error()))
		return
	}
	if err := checkGames(req.Games, req.Workers); err != nil {
		httperr.Errs(w, err)
		return
	}
	seed, err := seedOr(req.Seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	var sim *playworks.Simulator
	raw := strings.TrimSpace(string(req.Setting))
	if strings.HasPrefix(raw, "\"") {
		var text string
		if err := json.Unmarshal(req.Setting, &text); err != nil {
			httperr.Errs(w, errs.NewWarn("cfg string decode failed"))
			return
		}
		sim, err = sh.Lab.NewSimulatorByYAML([]byte(text), seed)
	} else {
		sim, err = sh.Lab.NewSimulatorByJSON(req.Setting, seed)
	}
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	st, used, err := sim.SimMP(req.Games, req.Workers, false)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	httperr.JSON(w, SimResponse{Stats: st, Seed: seed, UsedTime: used.Milliseconds()})
}

func intParam(s, name string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.NewWarn(name + " must be integer")
	}
	return v, nil
}

func checkGames(games, workers int) error {
	if games < 1 || games > maxGames {
		return errs.Warnf("games must be between 1 and %d", maxGames)
	}
	if workers < 1 || workers > maxWorkers {
		return errs.Warnf("workers must be between 1 and %d", maxWorkers)
	}
	return nil
}

func seedOr(seed *int64) (int64, error) {
	if seed != nil {
		return *seed, nil
	}
	rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.NewWarn("seed generate failed")
	}
	return rnd.Int64(), nil
}
