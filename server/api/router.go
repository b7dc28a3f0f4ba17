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
	"log/slog"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/server/api/dev"
	v1 "github.com/wudsh1/playworks-sub001/server/api/v1"
	"github.com/wudsh1/playworks-sub001/server/netsvr"
	"github.com/wudsh1/playworks-sub001/server/netsvr/middleware"
	"github.com/wudsh1/playworks-sub001/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, rt *playworks.Runtime) error {
	registerMiddleware(svr, sCfg.Log) // 1. 註冊 middleware
	lh, err := v1.NewLevelHandler(sCfg.Lab)
	if err != nil {
		return err
	}
	svr.Get("/", lh.List) // 2. 主頁即關卡清單
	if sCfg.Dev {
		dev.Register(svr, sCfg) // 3. 開發者工具頁
	}
	return registerV1API(svr, sCfg, rt, lh) // 4. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.RecoverWith(log))
	svr.Use(middleware.Compression)
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, rt *playworks.Runtime, lh *v1.LevelHandler) error {
	sh, err := v1.NewSessionHandler(rt, sCfg)
	if err != nil {
		return err
	}
	sim, err := v1.NewSimHandler(sCfg.Lab)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/levels", lh.List)
		vOne.Get("/levels/{level}", lh.Get)

		vOne.Get("/sessions", sh.Create)
		vOne.Post("/sessions", sh.Create)
		vOne.Get("/sessions/{id}", sh.Get)
		vOne.Delete("/sessions/{id}", sh.Delete)
		vOne.Get("/sessions/{id}/preview", sh.Preview)
		vOne.Get("/sessions/{id}/limits/{piece}", sh.Limits)
		vOne.Post("/sessions/{id}/moves", sh.Move)
		vOne.Post("/sessions/{id}/restart", sh.Restart)
		vOne.Post("/sessions/{id}/next", sh.Next)
		vOne.Get("/sessions/{id}/ws", sh.Stream)

		vOne.Post("/replay", sh.Replay)
		vOne.Get("/metrics", sh.Metrics)

		vOne.Get("/sim", sim.Sim)
		vOne.Post("/sim", sim.Sim)
		vOne.Post("/simbycfg", sim.SimByCfg)
		vOne.Post("/stat", v1.Stat)
	})
	return nil
}
