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
	"sort"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/sampler"
)

// CellWeights 設定檔中單一格子的 standard 符號權重。
type CellWeights struct {
	Row     int            `yaml:"row"     json:"row"`
	Column  int            `yaml:"column"  json:"column"`
	Symbols map[string]int `yaml:"symbols" json:"symbols"`
}

// BonusWeights 全盤面共用的 bonus 符號權重。
type BonusWeights struct {
	Symbols map[string]int `yaml:"symbols" json:"symbols"`
}

// ProbSetting 機率表：每格的 standard 權重列表 + 一張全域 bonus 權重。
//
// 列表中未覆蓋的格子沿用「第一個條目」的權重（fallback），
// 無論該條目自身宣告的座標為何。
type ProbSetting struct {
	StandardSymbols []CellWeights `yaml:"standard_symbols" json:"standard_symbols"`
	BonusSymbols    *BonusWeights `yaml:"bonus_symbols"    json:"bonus_symbols"`
}

// WeightTable 是權重 map 解析後的型別化抽樣表。
//
// Syms 與 Weights 以「符號名稱排序」的固定順序建立，
// 搭配 CDF 保證同一份設定的抽樣順序完全可重現。
// bonus 表允許出現目錄中不存在的名稱：該項 Syms 為 -1，
// 權重照常佔據抽樣空間，抽中時由生成端跳過（消耗一次嘗試）。
type WeightTable struct {
	Syms    []int16
	Weights []int
	CDF     *sampler.CDF
}

// buildWeightTable 依名稱排序展開權重 map 並建好 CDF。
// resolve 將名稱轉為符號索引；回傳 false 時依 allowUnknown 決定
// 是「設定錯誤」還是「以 -1 佔位、執行期跳過」。
func buildWeightTable(w map[string]int, resolve func(string) (int16, bool), allowUnknown bool, where string) (*WeightTable, error) {
	if len(w) == 0 {
		return nil, errs.Configf("%s: empty weight map", where)
	}
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	sort.Strings(names)

	t := &WeightTable{
		Syms:    make([]int16, len(names)),
		Weights: make([]int, len(names)),
	}
	for i, name := range names {
		v := w[name]
		if v <= 0 {
			return nil, errs.Configf("%s: weight for %q must be a positive integer, got %d", where, name, v)
		}
		id, ok := resolve(name)
		if !ok {
			if !allowUnknown {
				return nil, errs.Configf("%s: unknown symbol %q", where, name)
			}
			id = -1
		}
		t.Syms[i] = id
		t.Weights[i] = v
	}
	cdf, err := sampler.BuildCDF(t.Weights)
	if err != nil {
		return nil, errs.Wrap(err, where)
	}
	t.CDF = cdf
	return t, nil
}
