package spec

// TimingSetting 各動畫步驟的等待時間，全為 0 時回合不會暫停。
// 只影響節奏，不影響盤面結果。
type TimingSetting struct {
	Settle      Duration `yaml:"settle"       json:"settle"`
	Clear       Duration `yaml:"clear"        json:"clear"`
	Rise        Duration `yaml:"rise"         json:"rise"`
	Fly         Duration `yaml:"fly"          json:"fly"`
	PreviewTick Duration `yaml:"preview_tick" json:"preview_tick"`
}
