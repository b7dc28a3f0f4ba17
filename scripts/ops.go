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
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
)

// task 是一個開發用指令；args 交給 go 工具鏈。
type task struct {
	desc   string
	args   []string
	filter func(line string) bool // nil 表示全部輸出
	clean  bool                   // 先清 test cache
}

var tasks = map[string]task{
	"test": {
		desc:   "go test ./... -cover, only ok/FAIL lines",
		args:   []string{"test", "./...", "-cover", "-count=1"},
		filter: summaryOnly,
		clean:  true,
	},
	"test-all": {
		desc:  "go test ./... -cover",
		args:  []string{"test", "./...", "-cover"},
		clean: true,
	},
	"test-detail": {
		desc:   "go test ./... -v, skip packages without tests",
		args:   []string{"test", "./...", "-v", "-count=1"},
		filter: hasTests,
		clean:  true,
	},
	"race": {
		desc:   "go test -race on runtime and turn engine",
		args:   []string{"test", "-race", "-count=1", ".", "./sdk/step/...", "./server/..."},
		filter: summaryOnly,
	},
	"sim": {
		desc: "run the batch simulator on the demo levels",
		args: []string{"run", "./cmd/run", "-worker", "4", "-games", "200000"},
	},
	"svr": {
		desc: "start the dev server",
		args: []string{"run", "./cmd/svr"},
	},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	name := os.Args[1]
	t, ok := tasks[name]
	if !ok {
		color.Yellow("Unknown task: %s", name)
		usage()
		os.Exit(1)
	}
	color.Green("running %s", name)
	if err := t.run(os.Args[2:]); err != nil {
		color.Red("%s finished with errors: %v", name, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts [task] [extra args]")
	names := make([]string, 0, len(tasks))
	for n := range tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-12s %s\n", n, tasks[n].desc)
	}
}
