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
	"log"
	"os"
	"strconv"

	"github.com/wudsh1/playworks-sub001/demo"
	"github.com/wudsh1/playworks-sub001/optimizer"
	"github.com/wudsh1/playworks-sub001/spec"
	"gopkg.in/yaml.v3"
)

var optlid spec.LID = 1
var optfile string
var seed int64

func main() {
	flag.Var(lidFlag{&optlid}, "level", "target level id")
	flag.StringVar(&optfile, "cfg", "opt_cfg.yaml", "tuner setting yaml in current directory")
	flag.Int64Var(&seed, "seed", 4127483647, "int64 seed shared by every trial")
	flag.Parse()
	lab, err := demo.NewLab()
	if err != nil {
		log.Fatal(err)
	}
	tuner, err := optimizer.New(os.DirFS("."), optfile)
	if err != nil {
		log.Fatal(err)
	}
	res, err := tuner.Run(optlid, lab, seed)
	if err != nil {
		log.Fatal(err)
	}
	if err := yaml.NewEncoder(os.Stdout).Encode(res); err != nil {
		log.Fatal(err)
	}
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
