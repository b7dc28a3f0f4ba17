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
	"testing"
)

func TestProfileWritesFile(t *testing.T) {
	old := Dir
	Dir = t.TempDir()
	defer func() { Dir = old }()

	for _, mode := range []string{"heap", "allocs", "mutex"} {
		ran := false
		if err := Profile(func() { ran = true }, mode); err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if !ran {
			t.Fatalf("%s: exe not called", mode)
		}
		if _, err := os.Stat(filepath.Join(Dir, mode+".pprof")); err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
	}
}

func TestUnknownModeOnlyRuns(t *testing.T) {
	old := Dir
	Dir = t.TempDir()
	defer func() { Dir = old }()

	n := 0
	if err := Profile(func() { n++ }, "nope"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n != 1 {
		t.Fatalf("exe ran %d times", n)
	}
	ents, _ := os.ReadDir(Dir)
	if len(ents) != 0 {
		t.Fatalf("no profile expected, got %d files", len(ents))
	}
}
