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

// Package rules 集中所有「兩種方塊能否重疊」「是否計入消行」的判斷，
// 並以這些純函數實作移動合法性與拖曳上下限。
package rules

import "github.com/wudsh1/playworks-sub001/spec"

// CanOverlap 回報 mover 能否與 other 暫時重疊(合併觸發)。
// 潛伏道具在變身前視同一般方塊，永不重疊。
func CanOverlap(mover, other spec.Kind) bool {
	switch {
	case mover == spec.KindBomb && other == spec.KindBomb:
		return true
	case mover == spec.KindTrigger && isClearer(other):
		return true
	case isClearer(mover) && other == spec.KindTrigger:
		return true
	}
	return false
}

// CountsTowardFill 回報此種類的寬度是否計入消行。
func CountsTowardFill(k spec.Kind) bool { return k.IsOrdinary() }

// CanMoveVertically 目標物以外的道具可以上下移動一格。
func CanMoveVertically(k spec.Kind) bool { return k.IsSpecial() && k != spec.KindGoal }

// ClearerFor 若 a、b 是觸發器與消除器的組合，回傳其中的消除器種類。
func ClearerFor(a, b spec.Kind) (spec.Kind, bool) {
	switch {
	case a == spec.KindTrigger && isClearer(b):
		return b, true
	case b == spec.KindTrigger && isClearer(a):
		return a, true
	}
	return spec.KindNone, false
}

func isClearer(k spec.Kind) bool {
	return k == spec.KindRowClearer || k == spec.KindColClearer
}
