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

package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/demo/demo_configs"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/server"
	"github.com/wudsh1/playworks-sub001/server/logger"
	"github.com/wudsh1/playworks-sub001/server/svrcfg"
)

// 開發用 server 入口：載入示範關卡，可額外掛上目錄。
func main() {
	cfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	server.Run(cfg)
}

type config struct {
	LogMode     string
	Addr        string
	Dir         string
	MaxSessions int
	Idle        time.Duration
	MoveTimeout time.Duration
	Dev         bool
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev|prod|silence")
	flag.StringVar(&cfg.Addr, "addr", svrcfg.DefaultAddr, "listen address")
	flag.StringVar(&cfg.Dir, "dir", "", "extra level config directory")
	flag.IntVar(&cfg.MaxSessions, "max-sessions", svrcfg.DefaultMaxSessions, "max live sessions, <= 0 means unlimited")
	flag.DurationVar(&cfg.Idle, "idle", svrcfg.DefaultSessionIdle, "evict sessions idle longer than this")
	flag.DurationVar(&cfg.MoveTimeout, "move-timeout", svrcfg.DefaultMoveTimeout, "per move request deadline")
	flag.BoolVar(&cfg.Dev, "dev", true, "mount /dev tools")

	flag.Parse()

	mode, err := logger.ParseMode(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	log, _ := logger.NewAsync(4096, mode)

	srcs := []fs.FS{demo_configs.FS}
	if cfg.Dir != "" {
		srcs = append(srcs, os.DirFS(cfg.Dir))
	}
	lab, err := playworks.NewAuto(core.Default(), playworks.Configs(srcs...))
	if err != nil {
		return nil, err
	}
	sCfg := &svrcfg.SvrCfg{
		Log:         log,
		Lab:         lab,
		Addr:        cfg.Addr,
		MaxSessions: cfg.MaxSessions,
		SessionIdle: cfg.Idle,
		MoveTimeout: cfg.MoveTimeout,
		Dev:         cfg.Dev,
	}
	return sCfg, nil
}
