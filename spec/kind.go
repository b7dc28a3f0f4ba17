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

package spec

import "fmt"

// Kind 是方塊種類的封閉集合。
//
// 一般方塊(藍/紅)計入消行寬度、不與任何東西合併；
// 道具(寬度固定 1)不計入消行寬度，合併規則集中在 sdk/rules。
type Kind uint8

const (
	KindNone Kind = iota
	KindBlue
	KindRed
	KindGoal       // 收集目標物，全部消除即獲勝
	KindBomb       // 區域炸彈，兩顆重疊清空整盤
	KindRowClearer // 橫向消除器，配觸發器清 3 行
	KindColClearer // 縱向消除器，配觸發器清 3 列
	KindTrigger    // 觸發器，配任一消除器
	KindLatent     // 潛伏道具，兩步後變成炸彈
	kindCount
)

var kindNames = [kindCount]string{
	KindNone:       "none",
	KindBlue:       "blue",
	KindRed:        "red",
	KindGoal:       "goal",
	KindBomb:       "bomb",
	KindRowClearer: "row_clearer",
	KindColClearer: "col_clearer",
	KindTrigger:    "trigger",
	KindLatent:     "latent",
}

var kindMap = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

// OrdinaryKinds 依固定順序列出一般方塊，權重表以此為索引。
var OrdinaryKinds = []Kind{KindBlue, KindRed}

// ItemKinds 依固定順序列出可由消行隨機生成的道具。
var ItemKinds = []Kind{KindGoal, KindBomb, KindRowClearer, KindColClearer, KindTrigger, KindLatent}

func ParseKind(s string) (Kind, bool) {
	k, ok := kindMap[s]
	return k, ok
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) Valid() bool { return k > KindNone && k < kindCount }

func (k Kind) IsOrdinary() bool { return k == KindBlue || k == KindRed }

func (k Kind) IsSpecial() bool { return k >= KindGoal && k < kindCount }

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown kind %q", string(b))
	}
	*k = v
	return nil
}
