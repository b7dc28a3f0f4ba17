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

import (
	"maps"

	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/sampler"
)

const (
	DefaultItemSpawnChance = 0.35
	DefaultLatentDelay     = 2
)

// DefaultItemWeights 消行後隨機生成道具的預設權重；目標物不會自動生成。
var DefaultItemWeights = map[Kind]int{
	KindBomb:       3,
	KindRowClearer: 2,
	KindColClearer: 2,
	KindTrigger:    3,
	KindLatent:     1,
}

// ItemSetting 道具生成機率、權重與潛伏延遲。
type ItemSetting struct {
	SpawnChance float64      `yaml:"spawn_chance" json:"spawn_chance"`
	Disabled    bool         `yaml:"disabled"     json:"disabled"` // 關閉消行生成道具
	Weights     map[Kind]int `yaml:"weights"      json:"weights"`
	LatentDelay int          `yaml:"latent_delay" json:"latent_delay"`

	Table    *sampler.AliasTable `yaml:"-" json:"-"` // 索引對應 ItemKinds
	initFlag bool
}

func (is *ItemSetting) Init() error {
	if is.initFlag {
		return nil
	}
	if is.SpawnChance == 0 && !is.Disabled {
		is.SpawnChance = DefaultItemSpawnChance
	}
	if is.Disabled {
		is.SpawnChance = 0
	}
	if is.SpawnChance < 0 || is.SpawnChance > 1 {
		return errs.Fatalf("spawn_chance %.3f out of range [0,1]", is.SpawnChance)
	}
	if is.LatentDelay == 0 {
		is.LatentDelay = DefaultLatentDelay
	}
	if len(is.Weights) == 0 {
		is.Weights = maps.Clone(DefaultItemWeights)
	}
	weights := make([]int, len(ItemKinds))
	for k, w := range is.Weights {
		if !k.IsSpecial() {
			return errs.Fatalf("item weight for non-item kind %s", k)
		}
		for i, ik := range ItemKinds {
			if ik == k {
				weights[i] = w
			}
		}
	}
	table, err := sampler.BuildAliasTable(weights)
	if err != nil {
		return errs.Wrap(err, "item weights")
	}
	is.Table = table
	is.initFlag = true
	return nil
}
