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

import (
	playworks "github.com/wudsh1/playworks-sub001"
	"github.com/wudsh1/playworks-sub001/catalog"
	"github.com/wudsh1/playworks-sub001/demo/demo_configs"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/server/logger"
	"github.com/wudsh1/playworks-sub001/server/svrcfg"
)

func New() (*catalog.Catalog, error) {
	return catalog.New(demo_configs.FS)
}

// NewServerConfig 以示範關卡組出開發用 server 設定，/dev 預設開啟。
func NewServerConfig() (*svrcfg.SvrCfg, error) {
	lab, err := NewLab()
	if err != nil {
		return nil, errs.NewFatal("new lab failed:" + err.Error())
	}
	scfg := &svrcfg.SvrCfg{
		Log: logger.NewDefaultAsyncLogger(logger.ModeDev),
		Lab: lab,
		Dev: true,
	}
	return scfg, nil
}

func NewLab() (*playworks.Lab, error) {
	return playworks.NewAuto(core.Default(), playworks.Configs(demo_configs.FS))
}
