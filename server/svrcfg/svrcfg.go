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

package svrcfg

import (
	"log/slog"
	"time"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/server/logger"
)

const (
	DefaultAddr        = ":5808"
	DefaultMaxSessions = 1024
	DefaultSessionIdle = 30 * time.Minute
	DefaultMoveTimeout = 10 * time.Second
)

type SvrCfg struct {
	Log         *slog.Logger
	Lab         *playworks.Lab
	Addr        string
	MaxSessions int           // 同時存在的 session 上限
	SessionIdle time.Duration // 閒置超過即回收
	MoveTimeout time.Duration // 單次移動請求的期限(含動畫等待)
	Dev         bool          // 掛載 /dev 工具頁
}

func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}
	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if sc.MaxSessions == 0 {
		sc.MaxSessions = DefaultMaxSessions
	}
	if sc.SessionIdle <= 0 {
		sc.SessionIdle = DefaultSessionIdle
	}
	if sc.MoveTimeout <= 0 {
		sc.MoveTimeout = DefaultMoveTimeout
	}
	return nil
}
