// Package catalog 是關卡目錄：以關卡 id / 名稱對應到 fs.FS 內的設定檔。
package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/wudsh1/playworks-sub001/errs"
	"github.com/wudsh1/playworks-sub001/spec"
)

var (
	ErrDupID   = errs.NewFatal("duplicate level id")
	ErrDupName = errs.NewFatal("duplicate level name")
	ErrFrozen  = errs.NewWarn("catalog already frozen")
)

type Entry struct {
	LID        spec.LID
	Name       string
	ConfigName string
}

// Summary 是關卡列表用的摘要。
type Summary struct {
	LID        spec.LID `json:"lid"         yaml:"lid"`
	Name       string   `json:"name"        yaml:"name"`
	Columns    int      `json:"columns"     yaml:"columns"`
	Rows       int      `json:"rows"        yaml:"rows"`
	MoveBudget int      `json:"move_budget" yaml:"move_budget"`
	GoalMin    int      `json:"goal_min"    yaml:"goal_min"`
	GoalMax    int      `json:"goal_max"    yaml:"goal_max"`
	Authored   bool     `json:"authored"    yaml:"authored"` // 首局使用手工版面
}

func Summarize(id spec.LID, gs *spec.GameSetting) Summary {
	cols, rows := gs.Board.Columns, gs.Board.Rows
	goalMin, goalMax := gs.Spawn.GoalMin, gs.Spawn.GoalMax
	if gs.Layout != nil {
		cols, rows = gs.Layout.Dims(&gs.Board)
		goalMin = gs.Layout.Goals()
		goalMax = goalMin
	}
	return Summary{
		LID:        id,
		Name:       gs.LevelName,
		Columns:    cols,
		Rows:       rows,
		MoveBudget: gs.Rule.MoveBudget,
		GoalMin:    goalMin,
		GoalMax:    goalMax,
		Authored:   gs.Layout != nil,
	}
}

type Catalog struct {
	byID   map[spec.LID]Entry
	byName map[string]Entry
	ids    []spec.LID
	files  map[string]struct{}
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	m, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byID:   map[spec.LID]Entry{},
		byName: map[string]Entry{},
		files:  map[string]struct{}{},
		config: m,
	}, nil
}

// Register 一次寫入一批關卡；任何一筆不合法則整批不寫入。
func (c *Catalog) Register(ents ...Entry) error {
	if c.frozen {
		return ErrFrozen
	}
	seenID := map[spec.LID]struct{}{}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	for i := range ents {
		e := &ents[i]
		e.Name = normName(e.Name)
		if e.Name == "" {
			return errs.NewFatal("level name required")
		}
		if err := validFileName(e.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.index[e.ConfigName]; !ok {
			return errs.Fatalf("config file not found: %s", e.ConfigName)
		}
		_, dupID := c.byID[e.LID]
		_, seenI := seenID[e.LID]
		if dupID || seenI {
			return ErrDupID
		}
		_, dupName := c.byName[e.Name]
		_, seenN := seenName[e.Name]
		if dupName || seenN {
			return ErrDupName
		}
		_, dupCfg := c.files[e.ConfigName]
		_, seenC := seenCfg[e.ConfigName]
		if dupCfg || seenC {
			return errs.Fatalf("duplicate config name: %s", e.ConfigName)
		}
		seenID[e.LID] = struct{}{}
		seenName[e.Name] = struct{}{}
		seenCfg[e.ConfigName] = struct{}{}
	}
	for _, e := range ents {
		c.files[e.ConfigName] = struct{}{}
		c.byID[e.LID] = e
		c.byName[e.Name] = e
		c.ids = append(c.ids, e.LID)
	}
	slices.Sort(c.ids)
	return nil
}

func normName(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (c *Catalog) GetByID(id spec.LID) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	e, ok := c.byName[normName(name)]
	return e, ok
}

// IDs 回傳排序後的關卡 id。
func (c *Catalog) IDs() []spec.LID {
	if len(c.ids) == 0 {
		return nil
	}
	return slices.Clone(c.ids)
}

func (c *Catalog) All() []Entry {
	out := make([]Entry, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.byID[id])
	}
	return out
}

// Next 回傳 id 之後的下一關；已是最後一關時回傳 false。
func (c *Catalog) Next(id spec.LID) (Entry, bool) {
	i, found := slices.BinarySearch(c.ids, id)
	if found {
		i++
	}
	if i >= len(c.ids) {
		return Entry{}, false
	}
	return c.byID[c.ids[i]], true
}

func (c *Catalog) Sources() []fs.FS { return c.config.Sources() }

func (c *Catalog) Freeze() { c.frozen = true }

func (c *Catalog) IsFrozen() bool { return c.frozen }

func validFileName(file string) error {
	if file == "" {
		return errs.NewFatal("empty config filename")
	}
	if strings.ContainsAny(file, `/\:`) {
		return errs.Fatalf("invalid config filename: %q (must be a basename)", file)
	}
	if strings.HasPrefix(file, ".") {
		return errs.Fatalf("invalid config filename: %q (cannot start with '.')", file)
	}
	if !isConfigFile(file) {
		return errs.Fatalf("invalid config filename: %q (must end with .yaml, .yml, or .json)", file)
	}
	return nil
}

func isConfigFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// GameSettingByID 讀取並初始化關卡設定；每次呼叫都回傳新的實例，可自由修改。
func (c *Catalog) GameSettingByID(id spec.LID) (*spec.GameSetting, error) {
	e, ok := c.GetByID(id)
	if !ok {
		return nil, errs.Warnf("level %d does not exist in catalog", id)
	}
	return c.load(e)
}

func (c *Catalog) GameSettingByName(name string) (*spec.GameSetting, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.Warnf("level %q does not exist in catalog", name)
	}
	return c.load(e)
}

func (c *Catalog) load(e Entry) (*spec.GameSetting, error) {
	src, ok := c.config.GetFS(e.ConfigName)
	if !ok {
		return nil, errs.Warnf("config %s does not exist in catalog", e.ConfigName)
	}
	raw, err := fs.ReadFile(src, e.ConfigName)
	if err != nil {
		return nil, errs.Wrap(err, "catalog read file error")
	}
	return spec.GetGameSettingByName(e.ConfigName, raw)
}

// multiFS 合併多個平面(無子目錄)的設定來源，檔名跨來源必須唯一。
type multiFS struct {
	src   []fs.FS
	index map[string]int
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	m := &multiFS{src: src, index: make(map[string]int, 64)}
	for i, s := range src {
		if s == nil {
			return nil, errs.Fatalf("fs[%d] is nil", i)
		}
		err := fs.WalkDir(s, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p == "." {
					return nil
				}
				return errs.Fatalf("config FS must be flat (no subdirectories): %q", p)
			}
			if !isConfigFile(p) {
				return nil
			}
			if prev, ok := m.index[p]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate config %q in fs[%d] and fs[%d]", p, prev, i))
			}
			m.index[p] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if i, ok := m.index[name]; ok {
		return m.src[i], true
	}
	return nil, false
}

func (m *multiFS) Sources() []fs.FS {
	if m == nil {
		return nil
	}
	return slices.Clone(m.src)
}
