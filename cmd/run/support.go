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
	"crypto/rand"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"math"
	"math/big"
	"os"
	"strconv"

	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/demo/demo_configs"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/spec"
	"github.com/wudsh1/playworks-sub001/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	name      string
	id        spec.LID
	worker    int
	games     int
	seed      int64
	dir       string
	out       string
	pprofmode string
}

type lidFlag struct{ p *spec.LID }

func (f lidFlag) String() string {
	if f.p == nil {
		return "0"
	}
	return fmt.Sprint(uint(*f.p))
}
func (f lidFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return err
	}
	*f.p = spec.LID(uint(u))
	return nil
}

func bindVar() {
	cfg.id = 1
	flag.Var(lidFlag{&cfg.id}, "level", "target level id")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.games, "games", 100000, "games to play")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.dir, "dir", "", "extra level config directory, file names must not clash with demo levels")
	flag.StringVar(&cfg.out, "out", "table", "report format: table, json, yaml")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs, mutex, block")

	flag.Parse()

	// given seed illeagel -> default seed
	if cfg.seed < 1 {
		seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
		if err != nil {
			log.Fatal(err)
		}
		cfg.seed = seed.Int64()
	}
}

// 這裡解析並執行模擬器
func executeSimulator() {
	cfg.valid() // 基本檢查

	srcs := []fs.FS{demo_configs.FS}
	if cfg.dir != "" {
		srcs = append(srcs, os.DirFS(cfg.dir))
	}
	lab, err := playworks.NewAuto(core.Default(), playworks.Configs(srcs...))
	if err != nil {
		log.Fatal(err)
	}
	s, err := lab.NewSimulatorWithSeed(cfg.id, cfg.seed)
	if err != nil {
		log.Fatal(err)
	}
	cfg.name = s.LevelName
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	p.Printf("%s[WORKERS:%d] [LEVEL:%s] [GAMES:%d] [SEED:%d]%s\n", green, cfg.worker, cfg.name, cfg.games, cfg.seed, reset)

	st, used, err := s.SimMP(cfg.games, cfg.worker, true)
	if err != nil {
		log.Fatal(err)
	}
	switch cfg.out {
	case "json":
		err = st.WriteWith(os.Stdout, &stats.JsonPlayReportRender{})
	case "yaml":
		err = st.WriteWith(os.Stdout, &stats.YAMLPlayReportRender{})
	default:
		st.StdOut(used)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func (cfg *config) valid() {
	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}
	if cfg.games < 1 {
		log.Fatal("value err : games must > 0")
	}
	switch cfg.out {
	case "table", "json", "yaml":
	default:
		log.Fatal("value err : out must be table, json or yaml")
	}
}
