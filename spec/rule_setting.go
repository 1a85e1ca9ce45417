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
	"strconv"
	"strings"

	"github.com/zintix-labs/scratchlab/errs"
)

// RuleSetting 設定檔中單一得分規則的原始宣告（map 的 value）。
//
//   - when: "same_symbols"（同符號顆數）或 "linear_symbols"（固定座標連線）
//   - count: same_symbols 的最低顆數門檻
//   - group: 互斥群組標籤，同群組對同一符號最多只套用一條規則
//   - covered_areas: linear_symbols 要檢查的座標串列表，座標格式 "row:column"
type RuleSetting struct {
	RewardMultiplier float64    `yaml:"reward_multiplier" json:"reward_multiplier"`
	WhenStr          string     `yaml:"when"              json:"when"`
	Count            int        `yaml:"count"             json:"count"`
	Group            string     `yaml:"group"             json:"group"`
	CoveredAreas     [][]string `yaml:"covered_areas"     json:"covered_areas"`
}

// RuleKind 規則族系。
type RuleKind int

const (
	RuleKindNone RuleKind = iota
	RuleSameSymbols
	RuleLinearSymbols
)

var ruleKindMap = map[string]RuleKind{
	"same_symbols":   RuleSameSymbols,
	"linear_symbols": RuleLinearSymbols,
}

// ParseRuleKind 解析設定檔中的規則族系字串。
func ParseRuleKind(s string) (RuleKind, bool) {
	k, ok := ruleKindMap[s]
	return k, ok
}

// RuleInfo 是規則在 Init 階段解析完成後的型別化結果。
//
// 規則 arena 以「規則名稱排序」決定索引，使偵測順序可重現
// （原始宣告是 map，本身沒有穩定順序）。Group 為群組 arena 索引，
// Areas 是座標串展開後的格子索引（row*cols+column）。
type RuleInfo struct {
	Name  string
	Kind  RuleKind
	Mult  float64
	Count int
	Group int16
	Areas [][]int
}

// parseCoord 解析 "row:column" 座標字串並檢查邊界。
// 錯誤訊息需指出出錯的規則與座標，供設定者直接定位。
func parseCoord(coord string, rows, cols int, rule string) (int, error) {
	rs, cs, ok := strings.Cut(coord, ":")
	if !ok {
		return 0, errs.Configf("invalid coordinate format in rule %s: %q", rule, coord)
	}
	r, err := strconv.Atoi(rs)
	if err != nil {
		return 0, errs.Configf("invalid coordinate format in rule %s: %q", rule, coord)
	}
	c, err := strconv.Atoi(cs)
	if err != nil {
		return 0, errs.Configf("invalid coordinate format in rule %s: %q", rule, coord)
	}
	if r < 0 || r >= rows || c < 0 || c >= cols {
		return 0, errs.Configf("coordinate out of bounds in rule %s: %q (matrix is %dx%d)", rule, coord, rows, cols)
	}
	return r*cols + c, nil
}

func (rs RuleSetting) resolve(name string, rows, cols int, groupID int16) (RuleInfo, error) {
	kind, ok := ParseRuleKind(rs.WhenStr)
	if !ok {
		return RuleInfo{}, errs.Configf("unknown rule kind for %s: %q", name, rs.WhenStr)
	}
	info := RuleInfo{
		Name:  name,
		Kind:  kind,
		Mult:  rs.RewardMultiplier,
		Count: rs.Count,
		Group: groupID,
	}
	switch kind {
	case RuleSameSymbols:
		if rs.Count < 1 {
			return RuleInfo{}, errs.Configf("rule %s: count must be >= 1, got %d", name, rs.Count)
		}
	case RuleLinearSymbols:
		if len(rs.CoveredAreas) == 0 {
			return RuleInfo{}, errs.Configf("rule %s: covered_areas required for linear_symbols", name)
		}
		info.Areas = make([][]int, len(rs.CoveredAreas))
		for i, area := range rs.CoveredAreas {
			if len(area) == 0 {
				return RuleInfo{}, errs.Configf("rule %s: empty covered area", name)
			}
			cells := make([]int, len(area))
			for j, coord := range area {
				cell, err := parseCoord(coord, rows, cols, name)
				if err != nil {
					return RuleInfo{}, err
				}
				cells[j] = cell
			}
			info.Areas[i] = cells
		}
	}
	return info, nil
}
