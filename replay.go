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

package playworks

import (
	"context"
	"encoding/json"
	"slices"
	"strconv"

	"github.com/wudsh1/playworks-sub001/corefmt"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/sdk/grid"
	"github.com/wudsh1/playworks-sub001/sdk/step"
	"github.com/wudsh1/playworks-sub001/spec"
)

// Replay 記錄一局從發牌到目前為止的所有輸入。
// Start 是發牌前的亂數核心狀態，搭配同一份關卡設定即可重現整局。
type Replay struct {
	Level    spec.LID    `json:"level"`
	Seed     int64       `json:"seed"`
	Start    []byte      `json:"start"`
	Progress Progress    `json:"progress"`
	Moves    []grid.Move `json:"moves"`
}

// Replay 回傳目前這一局的回放紀錄(Restart / NextLevel 後重新開始記錄)。
func (s *Session) Replay() Replay {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.replay
	r.Start = slices.Clone(r.Start)
	r.Moves = slices.Clone(r.Moves)
	return r
}

// EncodeReplay JSON → zstd → base64url。
func EncodeReplay(r Replay) (string, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", errs.Wrap(err, "marshal replay failed")
	}
	return corefmt.Pack(raw)
}

func DecodeReplay(token string) (Replay, error) {
	var r Replay
	raw, err := corefmt.Unpack(token)
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, errs.Wrap(errs.NewWarn(err.Error()), "unmarshal replay failed")
	}
	return r, nil
}

// PlayReplay 以零延遲重跑一份回放，回傳跑完後的 session。
// gs 必須是錄製時使用的同一份關卡設定。
// 回放中的移動被拒絕代表設定或紀錄不一致，直接回傳錯誤。
func PlayReplay(ctx context.Context, gs *spec.GameSetting, cf core.PRNGFactory, r Replay, opts ...SessionOption) (*Session, error) {
	opts = append(opts, WithClock(&step.NoDelay{}))
	s, err := restoreSession(gs, cf, r.Seed, r.Start, r.Progress, opts...)
	if err != nil {
		return nil, err
	}
	for i, m := range r.Moves {
		if _, err := s.Move(ctx, m); err != nil {
			return s, errs.WrapWithExtra(err, "replay move rejected", "move "+strconv.Itoa(i))
		}
	}
	return s, nil
}

// restoreSession 以指定的亂數核心狀態與 Progress 發牌；start 為空時等同 seed 開局。
func restoreSession(gs *spec.GameSetting, cf core.PRNGFactory, seed int64, start []byte, p Progress, opts ...SessionOption) (*Session, error) {
	s, err := newSession(gs, cf, seed, opts...)
	if err != nil {
		return nil, err
	}
	if len(start) > 0 {
		if err := s.core.Restore(start); err != nil {
			return nil, errs.Wrap(errs.NewWarn(err.Error()), "restore core failed")
		}
	}
	s.progress = p
	if err := s.deal(); err != nil {
		return nil, err
	}
	return s, nil
}
