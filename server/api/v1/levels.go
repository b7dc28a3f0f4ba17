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
	"net/http"
	"strconv"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/server/httperr"
	"github.com/wudsh1/playworks-sub001/server/netsvr"
	"github.com/wudsh1/playworks-sub001/spec"
)

type LevelHandler struct {
	lab *playworks.Lab
}

func NewLevelHandler(lab *playworks.Lab) (*LevelHandler, error) {
	if lab == nil {
		return nil, errs.NewFatal("lab is required")
	}
	return &LevelHandler{lab: lab}, nil
}

// List GET /v1/levels
func (lh *LevelHandler) List(w http.ResponseWriter, r *http.Request) {
	sum, err := lh.lab.Summary()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	httperr.JSON(w, sum)
}

// Get GET /v1/levels/{level}，回傳摘要與完整設定。
func (lh *LevelHandler) Get(w http.ResponseWriter, r *http.Request) {
	type LevelResponse struct {
		Summary any               `json:"summary"`
		Setting *spec.GameSetting `json:"setting"`
	}
	id, err := parseLevel(netsvr.URLParam(r, "level"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sum, err := lh.lab.Summary()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	for _, s := range sum {
		if s.LID != id {
			continue
		}
		gs, err := lh.lab.GameSetting(id)
		if err != nil {
			httperr.Errs(w, err)
			return
		}
		httperr.JSON(w, LevelResponse{Summary: s, Setting: gs})
		return
	}
	httperr.Errs(w, errs.NewWarn("level not found: "+strconv.FormatUint(uint64(id), 10)))
}

func parseLevel(s string) (spec.LID, error) {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, errs.NewWarn("level must be non-negative integer")
	}
	return spec.LID(u), nil
}
