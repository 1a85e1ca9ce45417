package spec

import (
	"github.com/zintix-labs/scratchlab/errs"
)

// SymbolSetting 是設定檔中單一符號的原始宣告（map 的 value）。
//
// 欄位對應設定檔 wire 格式：
//   - reward_multiplier: standard 符號的賠率，bonus multiply_reward 的倍率
//   - type: "standard" 或 "bonus"
//   - impact: bonus 符號的效果（multiply_reward / extra_bonus / miss）
//   - extra: extra_bonus 的固定加碼金額
type SymbolSetting struct {
	RewardMultiplier float64 `yaml:"reward_multiplier" json:"reward_multiplier"`
	TypeStr          string  `yaml:"type"              json:"type"`
	ImpactStr        string  `yaml:"impact"            json:"impact"`
	Extra            float64 `yaml:"extra"             json:"extra"`
}

// SymbolType 符號類別：standard 參與得分判定，bonus 只影響最終獎金。
type SymbolType int

const (
	SymbolTypeNone SymbolType = iota
	SymbolTypeStandard
	SymbolTypeBonus
)

var symbolTypeMap = map[string]SymbolType{
	"standard": SymbolTypeStandard,
	"bonus":    SymbolTypeBonus,
}

// ParseSymbolType 解析設定檔中的符號類別字串。
func ParseSymbolType(s string) (SymbolType, bool) {
	t, ok := symbolTypeMap[s]
	return t, ok
}

// Impact bonus 符號對總獎金的效果。
type Impact int

const (
	ImpactNone Impact = iota
	ImpactMultiplyReward
	ImpactExtraBonus
	ImpactMiss
)

var impactMap = map[string]Impact{
	"multiply_reward": ImpactMultiplyReward,
	"extra_bonus":     ImpactExtraBonus,
	"miss":            ImpactMiss,
}

// ParseImpact 解析設定檔中的 bonus 效果字串。
func ParseImpact(s string) (Impact, bool) {
	i, ok := impactMap[s]
	return i, ok
}

// SymbolInfo 是符號在 Init 階段解析完成後的型別化結果。
// 符號 arena 以「名稱排序」決定索引，熱路徑一律用 int16 索引存取，
// 不再做字串雜湊。
type SymbolInfo struct {
	Name   string
	Type   SymbolType
	Mult   float64 // standard 賠率或 bonus multiply 倍率
	Impact Impact
	Extra  float64
}

// ApplyImpact 套用 bonus 效果到獎金上。miss 原樣回傳。
func (s SymbolInfo) ApplyImpact(reward float64) float64 {
	switch s.Impact {
	case ImpactMultiplyReward:
		return reward * s.Mult
	case ImpactExtraBonus:
		return reward + s.Extra
	default:
		return reward
	}
}

func (s SymbolSetting) resolve(name string) (SymbolInfo, error) {
	t, ok := ParseSymbolType(s.TypeStr)
	if !ok {
		return SymbolInfo{}, errs.Configf("unknown symbol type for %q: %q", name, s.TypeStr)
	}
	info := SymbolInfo{
		Name:  name,
		Type:  t,
		Mult:  s.RewardMultiplier,
		Extra: s.Extra,
	}
	if t == SymbolTypeBonus {
		imp, ok := ParseImpact(s.ImpactStr)
		if !ok {
			return SymbolInfo{}, errs.Configf("unknown bonus impact for %q: %q", name, s.ImpactStr)
		}
		info.Impact = imp
	}
	return info, nil
}
