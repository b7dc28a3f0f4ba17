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
	"bufio"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
)

func (t task) run(extra []string) error {
	if t.clean {
		c := exec.Command("go", "clean", "-testcache")
		c.Stdout, c.Stderr = os.Stdout, os.Stderr
		if err := c.Run(); err != nil {
			return err
		}
	}
	cmd := exec.Command("go", append(t.args, extra...)...)
	cmd.Stdin = os.Stdin
	if t.filter == nil {
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
		return cmd.Run()
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	// 編譯錯誤在 stderr，一起過濾
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		if !t.filter(line) {
			continue
		}
		paint(line)
	}
	return cmd.Wait()
}

func paint(line string) {
	switch {
	case strings.HasPrefix(line, "ok"), strings.HasPrefix(line, "--- PASS"):
		color.Green("%s", line)
	case strings.HasPrefix(line, "FAIL"), strings.HasPrefix(line, "--- FAIL"), strings.Contains(line, "DATA RACE"):
		color.Red("%s", line)
	default:
		color.White("%s", line)
	}
}

// summaryOnly 保留 ok/FAIL 與建置失敗的行。
func summaryOnly(line string) bool {
	return strings.HasPrefix(line, "ok") ||
		strings.HasPrefix(line, "FAIL") ||
		strings.Contains(line, "build failed") ||
		strings.Contains(line, "setup failed") ||
		strings.Contains(line, "DATA RACE")
}

func hasTests(line string) bool {
	return !strings.Contains(line, "[no test files]")
}
