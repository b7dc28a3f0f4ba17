package spec

import "github.com/wudsh1/playworks-sub001/errs"

const (
	DefaultMoveBudget   = 20
	DefaultRowScore     = 100
	DefaultScriptedMove = 5
)

// RuleSetting 回合規則：步數、計分與腳本事件。
type RuleSetting struct {
	MoveBudget     int  `yaml:"move_budget"      json:"move_budget"`
	RowScore       int  `yaml:"row_score"        json:"row_score"`
	ScriptedMove   int  `yaml:"scripted_move"    json:"scripted_move"`    // 首次遊玩第 N 步後注入炸彈對
	NoScript       bool `yaml:"no_script"        json:"no_script"`        // 關閉腳本炸彈
	MoveBudgetStep int  `yaml:"move_budget_step" json:"move_budget_step"` // 下一關增加的步數
	initFlag       bool
}

func (rs *RuleSetting) Init() error {
	if rs.initFlag {
		return nil
	}
	if rs.MoveBudget == 0 {
		rs.MoveBudget = DefaultMoveBudget
	}
	if rs.RowScore == 0 {
		rs.RowScore = DefaultRowScore
	}
	if rs.ScriptedMove == 0 {
		rs.ScriptedMove = DefaultScriptedMove
	}
	if rs.MoveBudget < 1 || rs.MoveBudgetStep < 0 {
		return errs.Fatalf("invalid move budget %d (+%d)", rs.MoveBudget, rs.MoveBudgetStep)
	}
	rs.initFlag = true
	return nil
}
