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

package demo

import "testing"

func TestDemoLevelsLoad(t *testing.T) {
	lab, err := NewLab()
	if err != nil {
		t.Fatalf("new lab: %v", err)
	}
	sums, err := lab.Summary()
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(sums) != 3 {
		t.Fatalf("want 3 levels, got %d", len(sums))
	}
	if !sums[0].Authored || sums[0].Columns != 8 || sums[0].GoalMin != 2 {
		t.Fatalf("tutorial summary %+v", sums[0])
	}
	for _, s := range sums {
		sim, err := lab.NewSimulatorWithSeed(s.LID, 11)
		if err != nil {
			t.Fatalf("%s: %v", s.Name, err)
		}
		st, _, err := sim.Sim(20, false)
		if err != nil {
			t.Fatalf("%s sim: %v", s.Name, err)
		}
		if st.Summary.Games != 20 {
			t.Fatalf("%s games=%d", s.Name, st.Summary.Games)
		}
	}
}
