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

package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/wudsh1/playworks-sub001/errs"
)

// Dir 是 profile 檔案寫入路徑。
var Dir = "build/profiling"

// Modes 支援的 profile 種類。mutex 與 block 用來看 Runtime 的鎖競爭。
var Modes = []string{"cpu", "heap", "allocs", "mutex", "block"}

// RunPProf 依 mode 包住 exe 執行；空字串或未知 mode 只執行 exe。
// profile 寫檔失敗會 panic，CLI 入口直接中止即可。
func RunPProf(exe func(), mode string) {
	if err := Profile(exe, mode); err != nil {
		panic(err)
	}
}

// Profile 同 RunPProf，但回傳錯誤。
//
// Usage like:
//
//	go run ./cmd/run -p cpu
//	go tool pprof build/profiling/cpu.pprof
func Profile(exe func(), mode string) error {
	switch mode {
	case "cpu":
		return profileCPU(exe)
	case "heap":
		exe()
		// 讓快照貼近 live objects
		runtime.GC()
		return writeProfile("heap")
	case "allocs":
		exe()
		return writeProfile("allocs")
	case "mutex":
		prev := runtime.SetMutexProfileFraction(1)
		defer runtime.SetMutexProfileFraction(prev)
		exe()
		return writeProfile("mutex")
	case "block":
		runtime.SetBlockProfileRate(1)
		defer runtime.SetBlockProfileRate(0)
		exe()
		return writeProfile("block")
	default:
		exe()
		return nil
	}
}

func create(name string) (*os.File, error) {
	if err := os.MkdirAll(Dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "create profiling dir failed")
	}
	f, err := os.Create(filepath.Join(Dir, name+".pprof"))
	if err != nil {
		return nil, errs.Wrap(err, "create "+name+".pprof failed")
	}
	return f, nil
}

func profileCPU(exe func()) error {
	f, err := create("cpu")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "start cpu profile failed")
	}
	defer pprof.StopCPUProfile()
	exe()
	return nil
}

func writeProfile(name string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.Fatalf("unknown profile %s", name)
	}
	f, err := create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "write "+name+" profile failed")
	}
	return nil
}
