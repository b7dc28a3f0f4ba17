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

	"github.com/wudsh1/playworks-sub001/corefmt"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/sdk/step"
	"github.com/wudsh1/playworks-sub001/spec"
)

const maxDevMoves = 500

// DevPlayer 只給 Dev 模式使用：單線、零延遲，由機器人玩一局並回報每個回合。
// 回報帶有發牌前後的亂數核心快照，可用 RestorePlay 從任一快照重現。
type DevPlayer struct {
	gs   *spec.GameSetting
	cf   core.PRNGFactory
	seed int64
}

type DevPlayReport struct {
	Seed   int64        `json:"seed"`
	Before string       `json:"start_b64u"`
	After  string       `json:"after_b64u"`
	Turns  []TurnReport `json:"turns"`
	Final  Status       `json:"final"`
	Board  string       `json:"board"`
	Replay string       `json:"replay"`
}

func (l *Lab) NewDevPlayer(id spec.LID, seed int64) (*DevPlayer, error) {
	gs, err := l.GameSetting(id)
	if err != nil {
		return nil, err
	}
	return &DevPlayer{gs: gs, cf: l.cf, seed: seed}, nil
}

// Play 以初始 seed 開局，機器人最多走 moves 步。
func (d *DevPlayer) Play(ctx context.Context, moves int) (DevPlayReport, error) {
	return d.play(ctx, nil, moves)
}

// RestorePlay 先把亂數核心還原到 before64 再發牌。
func (d *DevPlayer) RestorePlay(ctx context.Context, before64 string, moves int) (DevPlayReport, error) {
	be, err := corefmt.DecodeBase64URL(before64)
	if err != nil {
		return DevPlayReport{}, err
	}
	return d.play(ctx, be, moves)
}

func (d *DevPlayer) play(ctx context.Context, start []byte, moves int) (DevPlayReport, error) {
	if moves < 1 || moves > maxDevMoves {
		return DevPlayReport{}, errs.Warnf("moves must be between 1 and %d", maxDevMoves)
	}
	s, err := restoreSession(d.gs, d.cf, d.seed, start, Progress{}, WithClock(&step.NoDelay{}))
	if err != nil {
		return DevPlayReport{}, err
	}
	rep := DevPlayReport{
		Seed:   d.seed,
		Before: corefmt.EncodeBase64URL(s.replay.Start),
	}
	bot := core.New(d.cf.New(int64(mix63(uint64(d.seed) ^ botSalt))))
	for range moves {
		if s.State().Over() {
			break
		}
		m, ok := RandomMove(bot, s.board)
		if !ok {
			break
		}
		tr, err := s.Move(ctx, m)
		if err != nil && errs.IsFatal(err) {
			rep.Turns = append(rep.Turns, tr)
			break
		}
		if err != nil {
			return DevPlayReport{}, errs.Wrap(err, "bot move rejected")
		}
		rep.Turns = append(rep.Turns, tr)
	}
	after, err := s.core.Snapshot()
	if err != nil {
		return DevPlayReport{}, errs.Wrap(err, "snapshot core failed")
	}
	rep.After = corefmt.EncodeBase64URL(after)
	rep.Final = s.Status()
	rep.Board = s.Render()
	if rep.Replay, err = EncodeReplay(s.Replay()); err != nil {
		return DevPlayReport{}, err
	}
	return rep, nil
}
