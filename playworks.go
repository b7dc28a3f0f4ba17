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

// Package playworks 是盤面引擎的組裝入口與執行入口。
//
// Lab 把兩個地基組裝在一起：
//  1. Catalog：關卡目錄，關卡 id / 名稱對應到 fs.FS 內的設定檔。
//  2. PRNGFactory：亂數核心工廠，同 seed 同操作必須得到同樣的盤面。
//
// 由 Lab 建立的 Session 是一局遊戲，Simulator 是批次自動遊玩，Runtime 是多 session 的服務端容器。
//
//	lab, _ := playworks.NewAuto(core.Default(), playworks.Configs(levels))
//	s, _ := lab.NewSession(1)
//	rep, err := s.Move(ctx, grid.Move{PieceID: 3, DX: 2})
package playworks

import (
	"context"
	"io/fs"
	"path"
	"strings"

	"github.com/wudsh1/playworks-sub001/catalog"
	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/sdk/core"
	"github.com/wudsh1/playworks-sub001/spec"
)

// Configs 把一或多個設定來源打包成 New() 的參數。
// 來源可以是 go:embed 或 os.DirFS，必須是平面目錄。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 持有關卡目錄與亂數工廠。
// 註冊階段結束後呼叫 Freeze，之後才能建立 Session / Simulator。
type Lab struct {
	cat *catalog.Catalog
	cf  core.PRNGFactory
	sum []catalog.Summary
}

func New(cf core.PRNGFactory, cfgs []fs.FS) (*Lab, error) {
	if cf == nil {
		return nil, errs.NewFatal("prng factory required")
	}
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	cat, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	return &Lab{cat: cat, cf: cf}, nil
}

// NewAuto 建立 Lab、註冊所有設定檔並凍結。
func NewAuto(cf core.PRNGFactory, cfgs []fs.FS) (*Lab, error) {
	lab, err := New(cf, cfgs)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

func (l *Lab) Register(ents ...catalog.Entry) error {
	return l.cat.Register(ents...)
}

// RegisterAll 掃描所有設定來源，解析每一個 .yaml/.yml/.json 並以檔內的 level_id / level_name 註冊。
//
//   - 任何一個檔案失敗就整批失敗，不會留下半註冊的目錄。
//   - 依來源與檔名順序處理，結果穩定。
func (l *Lab) RegisterAll() error {
	sources := l.cat.Sources()
	if len(sources) == 0 {
		return errs.NewFatal("configs required")
	}
	var ents []catalog.Entry
	for _, src := range sources {
		err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || strings.HasPrefix(p, ".") {
				return nil
			}
			switch strings.ToLower(path.Ext(p)) {
			case ".yaml", ".yml", ".json":
			default:
				return nil
			}
			raw, err := fs.ReadFile(src, p)
			if err != nil {
				return errs.Wrap(err, "read config failed: "+p)
			}
			gs, err := spec.GetGameSettingByName(p, raw)
			if err != nil {
				return errs.WrapWithExtra(err, "parse level setting failed", p)
			}
			name := strings.TrimSpace(gs.LevelName)
			if name == "" {
				return errs.Fatalf("level name required: %s", p)
			}
			ents = append(ents, catalog.Entry{LID: gs.LevelID, Name: name, ConfigName: p})
			return nil
		})
		if err != nil {
			return err
		}
	}
	if len(ents) == 0 {
		return errs.NewFatal("no config files found to register")
	}
	return l.cat.Register(ents...)
}

func (l *Lab) Freeze() { l.cat.Freeze() }

func (l *Lab) EntryByID(id spec.LID) (catalog.Entry, bool) { return l.cat.GetByID(id) }

func (l *Lab) EntryByName(name string) (catalog.Entry, bool) { return l.cat.GetByName(name) }

func (l *Lab) IDs() []spec.LID { return l.cat.IDs() }

func (l *Lab) All() []catalog.Entry { return l.cat.All() }

func (l *Lab) Factory() core.PRNGFactory { return l.cf }

// Summary 回傳所有關卡的摘要，凍結後才可呼叫，結果會快取。
func (l *Lab) Summary() ([]catalog.Summary, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	if l.sum != nil {
		return l.sum, nil
	}
	ids := l.cat.IDs()
	out := make([]catalog.Summary, 0, len(ids))
	for _, id := range ids {
		gs, err := l.cat.GameSettingByID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, catalog.Summarize(id, gs))
	}
	l.sum = out
	return out, nil
}

// GameSetting 回傳一份新的關卡設定。
func (l *Lab) GameSetting(id spec.LID) (*spec.GameSetting, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewFatal("catalog is not frozen yet")
	}
	return l.cat.GameSettingByID(id)
}

// NextSetting 回傳 id 的下一關設定；沒有下一關時回傳 nil(沿用目前關卡)。
func (l *Lab) NextSetting(id spec.LID) (*spec.GameSetting, error) {
	e, ok := l.cat.Next(id)
	if !ok {
		return nil, nil
	}
	return l.GameSetting(e.LID)
}

// NewSession 以隨機 seed 開一局。
func (l *Lab) NewSession(id spec.LID, opts ...SessionOption) (*Session, error) {
	gs, err := l.GameSetting(id)
	if err != nil {
		return nil, err
	}
	return NewSession(gs, l.cf, opts...)
}

// NewSessionWithSeed 以指定 seed 開一局，可重現。
func (l *Lab) NewSessionWithSeed(id spec.LID, seed int64, opts ...SessionOption) (*Session, error) {
	gs, err := l.GameSetting(id)
	if err != nil {
		return nil, err
	}
	return NewSessionWithSeed(gs, l.cf, seed, opts...)
}

// NewSessionByYAML 以呼叫端提供的設定開一局(關卡調整用)，不需要在目錄內。
func (l *Lab) NewSessionByYAML(raw []byte, seed int64, opts ...SessionOption) (*Session, error) {
	gs, err := spec.GetGameSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	return NewSessionWithSeed(gs, l.cf, seed, opts...)
}

func (l *Lab) NewSessionByJSON(raw []byte, seed int64, opts ...SessionOption) (*Session, error) {
	gs, err := spec.GetGameSettingByJSON(raw)
	if err != nil {
		return nil, err
	}
	return NewSessionWithSeed(gs, l.cf, seed, opts...)
}

// PlayReplay 以目錄內的關卡重跑回放。
func (l *Lab) PlayReplay(ctx context.Context, r Replay, opts ...SessionOption) (*Session, error) {
	gs, err := l.GameSetting(r.Level)
	if err != nil {
		return nil, err
	}
	return PlayReplay(ctx, gs, l.cf, r, opts...)
}

func (l *Lab) NewSimulator(id spec.LID) (*Simulator, error) {
	gs, err := l.GameSetting(id)
	if err != nil {
		return nil, err
	}
	return NewSimulator(gs, l.cf)
}

func (l *Lab) NewSimulatorWithSeed(id spec.LID, seed int64) (*Simulator, error) {
	gs, err := l.GameSetting(id)
	if err != nil {
		return nil, err
	}
	return NewSimulatorWithSeed(gs, l.cf, seed)
}

func (l *Lab) NewSimulatorByYAML(raw []byte, seed int64) (*Simulator, error) {
	gs, err := spec.GetGameSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	return NewSimulatorWithSeed(gs, l.cf, seed)
}

// BuildRuntime 凍結目錄並建立多 session 容器，maxSessions <= 0 表示不設上限。
func (l *Lab) BuildRuntime(maxSessions int, opts ...SessionOption) (*Runtime, error) {
	l.Freeze()
	if len(l.cat.IDs()) == 0 {
		return nil, errs.NewFatal("no levels registered")
	}
	return newRuntime(l, maxSessions, opts...), nil
}

func (l *Lab) NewSimulatorByJSON(raw []byte, seed int64) (*Simulator, error) {
	gs, err := spec.GetGameSettingByJSON(raw)
	if err != nil {
		return nil, err
	}
	return NewSimulatorWithSeed(gs, l.cf, seed)
}
