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

package step

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

func TestSequencerOrderAndPush(t *testing.T) {
	clock := &NoDelay{}
	s := NewSequencer(clock, nil)
	var got []string
	mk := func(name string, r Result) Step {
		return Step{Name: name, Run: func() Result { got = append(got, name); return r }}
	}
	s.Push(
		mk("a", Wait(100*time.Millisecond)),
		Step{Name: "b", Run: func() Result {
			got = append(got, "b")
			s.Push(mk("c", Done()))
			return Wait(50 * time.Millisecond)
		}},
	)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !slices.Equal(got, []string{"a", "b", "c"}) || !slices.Equal(s.Trace(), got) {
		t.Fatalf("unexpected order %v trace %v", got, s.Trace())
	}
	if s.Waited() != 150*time.Millisecond || clock.Elapsed() != 150*time.Millisecond {
		t.Fatalf("unexpected wait %v / %v", s.Waited(), clock.Elapsed())
	}
}

func TestSequencerUntil(t *testing.T) {
	clock := &NoDelay{}
	s := NewSequencer(clock, nil)
	polls := 0
	s.Push(Step{Name: "anim", Run: func() Result {
		return Until(func() bool { polls++; return polls >= 4 }, 10*time.Millisecond, time.Second)
	}})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if polls != 4 || clock.Elapsed() != 30*time.Millisecond {
		t.Fatalf("polls=%d elapsed=%v", polls, clock.Elapsed())
	}

	s.Push(Step{Name: "stuck", Run: func() Result {
		return Until(func() bool { return false }, 10*time.Millisecond, 100*time.Millisecond)
	}})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("timeout must not fail the turn: %v", err)
	}
	if s.Waited() != 100*time.Millisecond {
		t.Fatalf("want 100ms wait, got %v", s.Waited())
	}
}

func TestSequencerFailAndCancel(t *testing.T) {
	s := NewSequencer(&NoDelay{}, nil)
	boom := errors.New("boom")
	ran := false
	s.Push(
		Step{Name: "fail", Run: func() Result { return Fail(boom) }},
		Step{Name: "after", Run: func() Result { ran = true; return Done() }},
	)
	if err := s.Run(context.Background()); !errors.Is(err, boom) || ran {
		t.Fatalf("fail should stop the sequence: %v ran=%v", err, ran)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Push(Step{Name: "x", Run: func() Result { ran = true; return Done() }})
	if err := s.Run(ctx); err != nil || !ran {
		t.Fatalf("cancelled ctx must not stop a started turn")
	}
}
