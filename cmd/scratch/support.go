package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/scratchlab"
	"github.com/zintix-labs/scratchlab/dto"
	"github.com/zintix-labs/scratchlab/errs"
	"github.com/zintix-labs/scratchlab/sdk/core"
	"github.com/zintix-labs/scratchlab/spec"
)

type config struct {
	configPath string
	bet        float64
	seed       int64
	state      string
}

// bindVar 綁定 Flag。押注金額提供三個別名（歷史相容）：
// --bet_amount / --betting-amount / --betting_amount 任一皆可。
func bindVar(fs *flag.FlagSet, cfg *config) {
	fs.StringVar(&cfg.configPath, "config", "", "path to the game config file (.json/.yaml/.yml)")
	fs.Float64Var(&cfg.bet, "bet_amount", 0, "betting amount for this round")
	fs.Float64Var(&cfg.bet, "betting-amount", 0, "alias of --bet_amount")
	fs.Float64Var(&cfg.bet, "betting_amount", 0, "alias of --bet_amount")
	fs.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator (random when < 0)")
	fs.StringVar(&cfg.state, "state", "", "base64 RNG state from Machine.SnapshotState; replays that exact round (overrides -seed)")
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := new(config)
	fs := flag.NewFlagSet("scratch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	bindVar(fs, cfg)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1 // flag 套件已輸出錯誤與 usage
	}

	if err := execute(cfg, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// execute 讀檔 → 解析 → 跑一局 → 輸出 JSON 結果到 stdout。
func execute(cfg *config, stdout io.Writer) error {
	if cfg.configPath == "" {
		return errors.New("--config is required")
	}
	gs, err := loadSetting(cfg.configPath)
	if err != nil {
		return err
	}

	lab, err := scratchlab.New(core.Default(), gs)
	if err != nil {
		return err
	}
	var m *scratchlab.Machine
	if cfg.seed >= 0 {
		m, err = lab.NewMachineWithSeed(cfg.seed)
	} else {
		m, err = lab.NewMachine()
	}
	if err != nil {
		return err
	}
	if cfg.state != "" {
		if err := m.RestoreState(cfg.state); err != nil {
			return err
		}
	}

	pr, err := m.Play(cfg.bet)
	if err != nil {
		return err
	}
	rr, err := dto.NewRoundResult(gs, pr.Screen, pr.Reward, pr.Wins, pr.AppliedBonus)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(out))
	return nil
}

func loadSetting(path string) (*spec.GameSetting, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return spec.GetGameSettingByJSON(raw)
	case ".yaml", ".yml":
		return spec.GetGameSettingByYAML(raw)
	default:
		return nil, errs.NewIO(fmt.Sprintf("unsupported config extension: %s", filepath.Ext(path)))
	}
}
