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

package sampler

import (
	"math"
	"testing"

	"github.com/wudsh1/playworks-sub001/sdk/core"
)

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, name string, weights []int, samples []int, tolerance float64) {
	t.Helper()
	totalW := 0
	for _, w := range weights {
		totalW += w
	}
	counts := make(map[int]int)
	for _, idx := range samples {
		counts[idx]++
	}
	for i, w := range weights {
		if w == 0 {
			if counts[i] > 0 {
				t.Errorf("[%s] index %d has weight 0 but was sampled %d times", name, i, counts[i])
			}
			continue
		}
		want := float64(w) / float64(totalW)
		got := float64(counts[i]) / float64(len(samples))
		if math.Abs(want-got) > tolerance {
			t.Errorf("[%s] index %d: expected prob %.3f, got %.3f", name, i, want, got)
		}
	}
}

func TestLUTDistribution(t *testing.T) {
	weights := []int{6, 3, 2, 1}
	lut, err := BuildLUT(weights)
	if err != nil {
		t.Fatalf("build lut: %v", err)
	}
	if len(lut) != 12 {
		t.Fatalf("expected lut length 12, got %d", len(lut))
	}
	c := core.NewWithSeed(1)
	samples := make([]int, 50000)
	for i := range samples {
		samples[i] = lut.Pick(c)
	}
	checkDistribution(t, "lut", weights, samples, 0.02)
}

func TestLUTRejectsBadWeights(t *testing.T) {
	if _, err := BuildLUT([]int{0, 0}); err == nil {
		t.Fatalf("expected error for all-zero weights")
	}
	if _, err := BuildLUT([]int{1, -1}); err == nil {
		t.Fatalf("expected error for negative weight")
	}
	lut, err := BuildLUT([]int{})
	if err != nil || lut.Pick(core.NewWithSeed(1)) != -1 {
		t.Fatalf("empty lut should pick -1")
	}
}

func TestAliasTableDistribution(t *testing.T) {
	weights := []int{5, 0, 3, 2}
	at, err := BuildAliasTable(weights)
	if err != nil {
		t.Fatalf("build alias: %v", err)
	}
	c := core.NewWithSeed(2)
	samples := make([]int, 50000)
	for i := range samples {
		samples[i] = at.Pick(c)
	}
	checkDistribution(t, "alias", weights, samples, 0.02)
}

func TestAliasTableSingle(t *testing.T) {
	at, err := BuildAliasTable([]int{0, 4, 0})
	if err != nil {
		t.Fatalf("build alias: %v", err)
	}
	c := core.NewWithSeed(3)
	for i := 0; i < 100; i++ {
		if got := at.Pick(c); got != 1 {
			t.Fatalf("expected only index 1, got %d", got)
		}
	}
}

func TestWeightedSample(t *testing.T) {
	c := core.NewWithSeed(4)
	got := WeightedSample(c, []int{1, 0, 1, 1}, 5)
	if len(got) != 3 {
		t.Fatalf("expected 3 picks (zero weight excluded), got %v", got)
	}
	seen := map[int]bool{}
	for _, idx := range got {
		if idx == 1 {
			t.Fatalf("zero weight index picked: %v", got)
		}
		if seen[idx] {
			t.Fatalf("duplicate pick: %v", got)
		}
		seen[idx] = true
	}
	if len(WeightedSample(c, nil, 3)) != 0 || len(WeightedSample(c, []int{1}, 0)) != 0 {
		t.Fatalf("expected empty sample for degenerate input")
	}
}

func TestWeightedSamplePrefersHeavy(t *testing.T) {
	c := core.NewWithSeed(5)
	heavyFirst := 0
	for i := 0; i < 2000; i++ {
		got := WeightedSample(c, []int{1, 50}, 1)
		if got[0] == 1 {
			heavyFirst++
		}
	}
	if heavyFirst < 1800 {
		t.Fatalf("heavy item should dominate, got %d/2000", heavyFirst)
	}
}
