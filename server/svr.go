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

package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/server/api"
	"github.com/wudsh1/playworks-sub001/server/app"
	"github.com/wudsh1/playworks-sub001/server/logger"
	"github.com/wudsh1/playworks-sub001/server/netsvr"
	"github.com/wudsh1/playworks-sub001/server/svrcfg"
)

// Run 是 server 套件的組裝器與啟動入口。
//
// 它負責：
//  1. 驗證 SvrCfg（logger、Lab 與各項上限）。
//  2. 以 Lab 建立 Runtime，並掛上閒置回收。
//  3. 建立 HTTP server、註冊路由，阻塞到收到訊號。
//
// 需要自訂 server 時改用 RunWithSvr。
func Run(sCfg *svrcfg.SvrCfg) {
	if err := sCfg.Valid(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return
	}
	// 寫入逾時需涵蓋移動期限
	svr := netsvr.NewChiServer(sCfg.Addr, sCfg.MoveTimeout+5*time.Second)
	sCfg.Log.Info("[playworks] listening on http://localhost" + svr.Address())
	run(sCfg, svr)
}

// RunWithSvr 與 Run 相同，但由呼叫端注入 NetSvr（自訂 listener、TLS 或既有路由）。
// svr 必須非 nil；若是 ChiAdapter 需 Ready。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if svr == nil {
		sCfg.Log.Error(errs.NewFatal("svr is required").Error())
		return
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		sCfg.Log.Error(errs.NewFatal("default server is not ready").Error())
		return
	}
	sCfg.Log.Info("[playworks] listening")
	run(sCfg, svr)
}

func run(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) {
	rt, err := Assemble(sCfg, svr)
	if err != nil {
		sCfg.Log.Error("assemble failed", slog.Any("err", err))
		return
	}
	sweeper := app.NewBackground(func(ctx context.Context) {
		rt.RunSweeper(ctx, sweepPeriod(sCfg.SessionIdle), sCfg.SessionIdle)
	})
	closer := app.NewCloser(func() {
		rt.Close()
		if ah, ok := sCfg.Log.Handler().(*logger.AsyncHandler); ok {
			ah.Close()
		}
	})
	// 關機順序：先停收請求，再停回收，最後關閉 session 與 log
	a := app.NewWith(svr, sweeper, closer)
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
	}
}

// Assemble 建立 Runtime 並把路由掛到 svr，不啟動任何東西。
func Assemble(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) (*playworks.Runtime, error) {
	rt, err := sCfg.Lab.BuildRuntime(sCfg.MaxSessions, playworks.WithLogger(sCfg.Log))
	if err != nil {
		return nil, err
	}
	if err := api.RegisterRoutes(svr, sCfg, rt); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func sweepPeriod(idle time.Duration) time.Duration {
	p := idle / 4
	if p < time.Second {
		return time.Second
	}
	return min(p, time.Minute)
}
