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

// Package step 把一個回合拆成具名的步驟依序執行。
// 每個步驟可以要求「等待一段時間」或「等到條件成立」再繼續，
// 取代動畫等待，整個回合仍在單一 goroutine 內跑完。
package step

import (
	"context"
	"log/slog"
	"time"
)

type resultKind uint8

const (
	kindDone resultKind = iota
	kindWait
	kindUntil
	kindFail
)

// Result 是步驟執行後的要求。
type Result struct {
	kind  resultKind
	wait  time.Duration
	pred  func() bool
	poll  time.Duration
	limit time.Duration
	err   error
}

// Done 立即執行下一步。
func Done() Result { return Result{kind: kindDone} }

// Wait 暫停 d 後執行下一步；d <= 0 等同 Done。
func Wait(d time.Duration) Result { return Result{kind: kindWait, wait: d} }

// Until 每隔 poll 檢查一次 pred，成立或累計超過 limit 後執行下一步。
func Until(pred func() bool, poll, limit time.Duration) Result {
	return Result{kind: kindUntil, pred: pred, poll: max(poll, time.Millisecond), limit: limit}
}

// Fail 中止整個序列。
func Fail(err error) Result { return Result{kind: kindFail, err: err} }

// Step 是具名步驟。
type Step struct {
	Name string
	Run  func() Result
}

// Sequencer 依序執行步驟；步驟內可以 Push 追加後續步驟。
type Sequencer struct {
	Clock  Clock
	Logger *slog.Logger
	queue  []Step
	trace  []string
	waited time.Duration
}

func NewSequencer(clock Clock, logger *slog.Logger) *Sequencer {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sequencer{Clock: clock, Logger: logger}
}

// Push 追加步驟到佇列尾端。
func (s *Sequencer) Push(steps ...Step) {
	s.queue = append(s.queue, steps...)
}

// Run 執行到佇列清空或某一步 Fail。
// 回合一旦開始就不理會取消，ctx 只用於 log。
func (s *Sequencer) Run(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	s.trace = s.trace[:0]
	s.waited = 0
	for len(s.queue) > 0 {
		st := s.queue[0]
		s.queue = s.queue[1:]
		s.trace = append(s.trace, st.Name)

		r := st.Run()
		switch r.kind {
		case kindFail:
			s.queue = s.queue[:0]
			s.Logger.ErrorContext(ctx, "step failed", slog.String("step", st.Name), slog.Any("err", r.err))
			return r.err
		case kindWait:
			if r.wait > 0 {
				s.Clock.Sleep(r.wait)
				s.waited += r.wait
			}
		case kindUntil:
			start := s.Clock.Now()
			for !r.pred() {
				if r.limit > 0 && s.Clock.Now().Sub(start) >= r.limit {
					s.Logger.WarnContext(ctx, "step wait timed out", slog.String("step", st.Name), slog.Duration("limit", r.limit))
					break
				}
				s.Clock.Sleep(r.poll)
			}
			s.waited += s.Clock.Now().Sub(start)
		}
		s.Logger.DebugContext(ctx, "step done", slog.String("step", st.Name))
	}
	return nil
}

// Trace 回傳上一次 Run 執行過的步驟名稱。
func (s *Sequencer) Trace() []string { return append([]string(nil), s.trace...) }

// Waited 回傳上一次 Run 累計等待的時間。
func (s *Sequencer) Waited() time.Duration { return s.waited }
