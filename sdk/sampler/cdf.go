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

// 本檔案 (cdf.go) 實作累積分佈表 (CDF) 加權抽樣。
//
// 演算法原理：
//   - 建表：對固定順序的權重列表做前綴和，bounds[i] = w[0]+...+w[i]。
//   - 抽樣：產生 [0, total) 的均勻整數 x，二分搜尋第一個「嚴格大於 x」
//     的累積上界，該索引即為抽樣結果。
//
// 特性：
//   - 建表時間 O(N)，抽樣時間 O(log N)，空間 O(N)。
//   - 同一個建表順序 + 同一個亂數序列，抽樣結果完全可重現。
//
// 適用場景：
//   - 每格符號權重這類「權重總和不大、抽樣極頻繁」的場景。
//   - 相較 LUT 不受權重總和限制，相較 AliasTable 少一次亂數生成。
package sampler

import (
	"math"
	"sort"

	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/core"
)

// CDF 累積分佈加權抽樣表。
//
// bounds 為嚴格遞增的累積權重上界，total 為權重總和。
// 建表後不再修改，可被多個讀取方共享（抽樣本身只依賴傳入的 Core）。
type CDF struct {
	bounds []int
	total  int
}

// BuildCDF 依固定順序的權重列表建表。
//
// 權重必須全為正整數；列表為空或出現 <= 0 的權重回傳錯誤
// （對應設定檔驗證的「每個權重都是正整數」不變量）。
func BuildCDF[T Integers](weights []T) (*CDF, error) {
	if len(weights) == 0 {
		return nil, errs.NewConfig("cdf: empty weights")
	}
	bounds := make([]int, len(weights))
	total := 0
	for i, w := range weights {
		v := int(w)
		if v <= 0 {
			return nil, errs.Configf("cdf: weight must be positive, got %d at index %d", v, i)
		}
		if total > math.MaxInt-v {
			return nil, errs.NewConfig("cdf: total weight overflow")
		}
		total += v
		bounds[i] = total
	}
	return &CDF{bounds: bounds, total: total}, nil
}

// Pick 抽出一個索引：抽 [0,total) 均勻整數，回傳第一個累積上界 > 抽值的索引。
// 消耗 Core 恰好一次 IntN。
func (t *CDF) Pick(c *core.Core) int {
	x := c.IntN(t.total)
	return sort.SearchInts(t.bounds, x+1)
}

// Total 回傳權重總和。
func (t *CDF) Total() int { return t.total }

// Len 回傳項目數。
func (t *CDF) Len() int { return len(t.bounds) }
