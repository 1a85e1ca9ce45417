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

package recorder

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/scratchlab/corefmt"
	"github.com/zintix-labs/scratchlab/dto"
	"github.com/zintix-labs/scratchlab/errs"
)

// 單筆紀錄的解碼上限，避免讀取壞檔時的無界配置
const maxRecordBytes uint64 = 1 << 20

// RoundRecorder 遊戲紀錄員
//
// 逐局收集 RoundResult 的 JSON 編碼，供稽核或離線重播分析。
// 紀錄在記憶體累積，最後以 WriteZstd 一次輸出壓縮檔：
//
//	zstd( frame(json) || frame(json) || ... )
//
// frame 為 corefmt 的 uvarint 長度前綴格式。
type RoundRecorder struct {
	records [][]byte
	rounds  int
}

func NewRoundRecorder() *RoundRecorder {
	return &RoundRecorder{records: make([][]byte, 0, 1024)}
}

// Rounds 回傳已收集的局數。
func (r *RoundRecorder) Rounds() int { return r.rounds }

// Record 收錄一局結果。
func (r *RoundRecorder) Record(res *dto.RoundResult) error {
	if res == nil {
		return errs.NewWarn("record failed: nil round result")
	}
	b, err := json.Marshal(res)
	if err != nil {
		return errs.Wrap(err, "marshal round result failed")
	}
	r.records = append(r.records, b)
	r.rounds++
	return nil
}

// WriteZstd 將所有紀錄以 zstd 壓縮串流寫出。
func (r *RoundRecorder) WriteZstd(w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return errs.Wrap(err, "create zstd writer failed")
	}
	for _, rec := range r.records {
		if err := corefmt.WriteBlobFrame(zw, rec); err != nil {
			zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return errs.WrapIO(err, "close zstd writer failed")
	}
	return nil
}

// ReadZstd 讀回 WriteZstd 產生的串流，還原為 RoundResult 序列。
func ReadZstd(rd io.Reader) ([]*dto.RoundResult, error) {
	zr, err := zstd.NewReader(rd)
	if err != nil {
		return nil, errs.WrapIO(err, "create zstd reader failed")
	}
	defer zr.Close()

	br := bufio.NewReader(zr)
	out := make([]*dto.RoundResult, 0, 1024)
	for {
		payload, err := corefmt.ReadBlobFrame(br, maxRecordBytes)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		res := new(dto.RoundResult)
		if err := json.Unmarshal(payload, res); err != nil {
			return nil, errs.Wrap(err, "unmarshal round result failed")
		}
		out = append(out, res)
	}
}
