package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/demo/demo_configs"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/recorder"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/spec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	configPath string
	bet        float64
	worker     int
	spins      int
	seed       int64
	record     string
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.configPath, "config", "", "game config path; empty uses the embedded demo config")
	flag.Float64Var(&cfg.bet, "bet", 100, "betting amount per round")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.IntVar(&cfg.spins, "spins", 10000000, "rounds per worker")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.record, "record", "", "write a zstd round log to this path (single worker only)")

	flag.Parse()
}

// 這裡解析並分支要執行的模擬器
func executeSimulator() {
	cfg.valid() // 基本檢查

	gs, err := loadSetting(cfg.configPath)
	if err != nil {
		fatal(err)
	}
	lab, err := scratchlab.New(core.Default(), gs)
	if err != nil {
		fatal(err)
	}

	var s *scratchlab.Simulator
	if cfg.seed >= 0 {
		s, err = lab.NewSimulatorWithSeed(cfg.seed)
	} else {
		s, err = lab.NewSimulator()
	}
	if err != nil {
		fatal(err)
	}

	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	if cfg.worker == 1 { // 單線程
		var rec *recorder.RoundRecorder
		if cfg.record != "" {
			rec = recorder.NewRoundRecorder()
			s.AttachRecorder(rec)
		}
		p.Printf("%s[SEED:%d] [BET:%v] [ROUNDS:%d]%s\n", green, s.InitSeed(), cfg.bet, cfg.spins, reset)
		st, used, err := s.Sim(cfg.bet, cfg.spins, true)
		if err != nil {
			fatal(err)
		}
		st.StdOut(used)
		if rec != nil {
			if err := writeRecord(cfg.record, rec); err != nil {
				fatal(err)
			}
			p.Printf("round log: %s (%d rounds)\n", cfg.record, rec.Rounds())
		}
	} else {
		p.Printf("%s[WORKERS:%d] [SEED:%d] [BET:%v] [ROUNDS:%d]%s\n", green, cfg.worker, s.InitSeed(), cfg.bet, cfg.worker*cfg.spins, reset)
		st, used, err := s.SimMP(cfg.bet, cfg.spins, cfg.worker, true) // 併發
		if err != nil {
			fatal(err)
		}
		st.StdOut(used)
	}
}

// fatal 統一收斂錯誤出口：本包錯誤帶上等級標籤，其餘原樣輸出。
func fatal(err error) {
	if e, ok := errs.AsErr(err); ok {
		log.Fatalf("[%s] %v", errs.ErrLv(e.ErrLv), e)
	}
	log.Fatal(err)
}

func (cfg *config) valid() {
	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}
	// 轉數檢查
	if cfg.spins < 1 {
		log.Fatal("value err : spins must > 0")
	}
	// 押注檢查
	if cfg.bet <= 0 {
		log.Fatal("value err : bet must > 0")
	}
	// 逐局紀錄需要確定性的單線順序
	if cfg.record != "" && cfg.worker != 1 {
		log.Fatal("value err : -record requires -worker=1")
	}
}

func loadSetting(path string) (*spec.GameSetting, error) {
	if path == "" {
		raw, err := demo_configs.FS.ReadFile("scratch.yaml")
		if err != nil {
			return nil, err
		}
		return spec.GetGameSettingByYAML(raw)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return spec.GetGameSettingByJSON(raw)
	}
	return spec.GetGameSettingByYAML(raw)
}

func writeRecord(path string, rec *recorder.RoundRecorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return rec.WriteZstd(f)
}
