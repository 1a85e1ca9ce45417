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

package scratchlab

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/scratchlab/dto"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/recorder"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/spec"
	"github.com/zintix-labs/scratchlab/stats"
)

const capPrepare int = 100

// Simulator 用於大量獨立局數的模擬統計，可建立多台機台平行執行。
//
// 每局彼此獨立（無狀態延續），因此多 worker 合併統計不影響結果分佈；
// 但亂數序列相依於機台，故每台機台只屬於一個 worker。
type Simulator struct {
	gs        *spec.GameSetting
	cf        core.PRNGFactory
	initSeed  int64
	seedmaker *seedMaker              // 衍生各機台 seed
	mBuf      []*Machine              // 併發執行機台實例
	sBuf      []*stats.RoundReport    // 各 worker 的統計分片
	rec       *recorder.RoundRecorder // 選配：逐局紀錄（僅單線模式）
}

func newSimulator(gs *spec.GameSetting, cf core.PRNGFactory, seed int64) (*Simulator, error) {
	s := &Simulator{
		gs:        gs,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		mBuf:      make([]*Machine, 1, capPrepare),
		sBuf:      make([]*stats.RoundReport, 0, capPrepare),
	}
	m, err := newMachine(gs, cf, seed)
	if err != nil {
		return nil, err
	}
	s.mBuf[0] = m
	return s, nil
}

// InitSeed 回傳模擬器的 baseSeed。
func (s *Simulator) InitSeed() int64 { return s.initSeed }

// AttachRecorder 掛上逐局紀錄員。只在單線 Sim 生效；
// SimMP 為避免紀錄順序不確定不做逐局紀錄。
func (s *Simulator) AttachRecorder(r *recorder.RoundRecorder) {
	s.rec = r
}

// Sim 單線模擬器：以一台機台連續跑指定 rounds 並回傳統計結果與用時
func (s *Simulator) Sim(bet float64, rounds int, showpb bool) (*stats.RoundReport, time.Duration, error) {
	defer s.reset()
	if bet <= 0 {
		return nil, 0, errs.Betf("betting amount must be positive, got: %v", bet)
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("rounds must > 0")
	}
	m := s.mBuf[0]
	st := stats.NewRoundReport()

	bar := pb.StartNew(rounds)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < rounds; i++ {
		pr, err := m.Play(bet)
		if err != nil {
			return nil, 0, errs.Wrap(err, "play failed")
		}
		st.Record(bet, pr.Reward, pr.AppliedBonus >= 0)
		if s.rec != nil {
			rr, err := dto.NewRoundResult(s.gs, pr.Screen, pr.Reward, pr.Wins, pr.AppliedBonus)
			if err != nil {
				return nil, 0, err
			}
			if err := s.rec.Record(&rr); err != nil {
				return nil, 0, err
			}
		}
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	st.Done()

	return st, used, nil
}

// SimMP 平行執行多個機台，總計 rounds*mp 局，合併統計結果後回傳統計結果與用時
func (s *Simulator) SimMP(bet float64, rounds int, mp int, showpb bool) (*stats.RoundReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if bet <= 0 {
		return nil, 0, errs.Betf("betting amount must be positive, got: %v", bet)
	}
	if rounds < 1 {
		return nil, 0, errs.NewWarn("rounds must > 0")
	}
	for len(s.mBuf) < mp {
		m, err := newMachine(s.gs, s.cf, s.seedmaker.next())
		if err != nil {
			return nil, 0, err
		}
		s.mBuf = append(s.mBuf, m)
	}
	for len(s.sBuf) < mp {
		s.sBuf = append(s.sBuf, stats.NewRoundReport())
	}

	var playErr atomic.Value
	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := pb.StartNew(rounds * mp)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			m := s.mBuf[i]
			st := s.sBuf[i]
			for r := 0; r < rounds; r++ {
				pr, err := m.Play(bet)
				if err != nil {
					playErr.Store(err)
					return
				}
				st.Record(bet, pr.Reward, pr.AppliedBonus >= 0)
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	if err, ok := playErr.Load().(error); ok && err != nil {
		return nil, 0, errs.Wrap(err, "play failed")
	}

	result := stats.NewRoundReport()
	for _, st := range s.sBuf {
		result.Merge(st)
	}
	result.Done()

	return result, used, nil
}

func (s *Simulator) reset() {
	s.sBuf = s.sBuf[:0]
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// 注意：此方法可能在併發環境下被多 goroutines 同時呼叫。
// 因此 state 的推進必須是原子的：
//   - 使用 CAS（Compare-And-Swap）迴圈確保每次呼叫都會取得唯一的下一個 state。
//   - 回傳值使用推進後的 state 經 mix63 打散後的結果。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
