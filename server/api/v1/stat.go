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
	"encoding/json"
	"net/http"

	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/recorder"
	"github.com/wudsh1/playworks-sub001/server/httperr"
	"github.com/wudsh1/playworks-sub001/spec"
)

// GameStat 是外部收集的真人對局結果，以同一套報表換算。
type GameStat struct {
	LevelName  string                `json:"level_name"`
	LevelID    spec.LID              `json:"level"`
	MoveBudget int                   `json:"move_budget"`
	RowScore   int                   `json:"row_score"`
	Results    []recorder.GameResult `json:"results"`
}

// Stat POST /v1/stat
func Stat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 20<<20)
	dst := new(GameStat)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httperr.Errs(w, errs.NewWarn("invalid json: "+err.Error()))
		return
	}
	if len(dst.Results) < 1 {
		httperr.Errs(w, errs.NewWarn("results must not be empty"))
		return
	}
	gs := &spec.GameSetting{
		LevelName: dst.LevelName,
		LevelID:   dst.LevelID,
		Rule:      spec.RuleSetting{MoveBudget: dst.MoveBudget, RowScore: dst.RowScore},
	}
	rec, err := recorder.NewGameRecorder(gs)
	if err != nil {
		httperr.Errs(w, errs.Warnf("invalid level parameters: %v", err))
		return
	}
	for _, g := range dst.Results {
		if g.MovesUsed < 0 || g.MovesUsed > rec.MoveBudget {
			httperr.Errs(w, errs.Warnf("moves_used %d out of [0,%d]", g.MovesUsed, rec.MoveBudget))
			return
		}
		rec.Record(g)
	}
	httperr.JSON(w, rec.Done())
}
