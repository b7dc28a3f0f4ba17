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

package core

import (
	"math"
	"slices"
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := NewWithSeed(7)
	c2 := NewWithSeed(7)
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.IntN(0) != -1 {
		t.Fatalf("IntN(0) must be -1")
	}
}

func TestCorePickAndShuffle(t *testing.T) {
	c := NewWithSeed(9)
	if got := c.Pick(nil); got != -1 {
		t.Fatalf("expected -1 for empty pick, got %d", got)
	}

	src := []int{1, 2, 3, 4}
	c.ShuffleInts(src)
	got := slices.Clone(src)
	slices.Sort(got)
	if !slices.Equal([]int{1, 2, 3, 4}, got) {
		t.Fatalf("shuffle changed elements: %v", src)
	}
}

func TestChanceAndBetween(t *testing.T) {
	c := NewWithSeed(3)
	for i := 0; i < 100; i++ {
		if c.Chance(0) {
			t.Fatalf("Chance(0) returned true")
		}
		if !c.Chance(1) {
			t.Fatalf("Chance(1) returned false")
		}
		v := c.Between(2, 4)
		if v < 2 || v > 4 {
			t.Fatalf("Between out of range: %d", v)
		}
	}
	if c.Between(5, 5) != 5 || c.Between(5, 1) != 5 {
		t.Fatalf("degenerate Between should return lo")
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := NewWithSeed(11)
	snap, err := c.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	a := []uint64{c.Uint64(), c.Uint64(), c.Uint64()}
	if err := c.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	b := []uint64{c.Uint64(), c.Uint64(), c.Uint64()}
	if !slices.Equal(a, b) {
		t.Fatalf("restore did not rewind: %v vs %v", a, b)
	}
}

func TestExpFloat64Deterministic(t *testing.T) {
	v1 := NewWithSeed(11).ExpFloat64()
	v2 := NewWithSeed(11).ExpFloat64()
	if v1 != v2 {
		t.Fatalf("expected deterministic ExpFloat64")
	}
	if v1 <= 0 || math.IsNaN(v1) || math.IsInf(v1, 0) {
		t.Fatalf("unexpected ExpFloat64 value: %v", v1)
	}
}
