package spec

import (
	"sort"
	"strconv"

	"github.com/zintix-labs/scratchlab/errs"
)

const (
	defaultRows    = 3
	defaultColumns = 3
)

// GameSetting 包含跑一局刮刮卡所需的所有設定。
//
// 前半是設定檔的原始宣告（yaml/json tag 欄位）；Init 之後可用的
// 解析結果（arena 與抽樣表）存於後半，熱路徑只走索引。
type GameSetting struct {
	Columns         int                      `yaml:"columns"          json:"columns"`
	Rows            int                      `yaml:"rows"             json:"rows"`
	Symbols         map[string]SymbolSetting `yaml:"symbols"          json:"symbols"`
	Probabilities   ProbSetting              `yaml:"probabilities"    json:"probabilities"`
	WinCombinations map[string]RuleSetting   `yaml:"win_combinations" json:"win_combinations"`

	// 解析結果（Init 後可用）
	SymbolInfos []SymbolInfo   `yaml:"-" json:"-"` // 符號 arena，索引即符號 ID
	RuleInfos   []RuleInfo     `yaml:"-" json:"-"` // 規則 arena，索引即規則 ID
	GroupNames  []string       `yaml:"-" json:"-"` // 群組 arena
	CellTables  []*WeightTable `yaml:"-" json:"-"` // 每格抽樣表，未宣告的格子共享 fallback
	BonusTable  *WeightTable   `yaml:"-" json:"-"` // nil 代表不做 bonus 插入

	symbolIdx map[string]int16
	initFlag  bool
}

// Init 套用預設值、解析全部字串鍵為型別化索引並執行驗證。
// 重複呼叫是 no-op。任何錯誤都屬於設定檔驗證期，Play 期不再檢查。
func (gs *GameSetting) Init() error {
	if gs.initFlag {
		return nil
	}

	// 預設盤面尺寸
	if gs.Rows == 0 {
		gs.Rows = defaultRows
	}
	if gs.Columns == 0 {
		gs.Columns = defaultColumns
	}
	if gs.Rows < 1 || gs.Columns < 1 {
		return errs.Configf("invalid matrix dimensions: rows=%d columns=%d", gs.Rows, gs.Columns)
	}

	if err := gs.resolveSymbols(); err != nil {
		return err
	}
	if err := gs.resolveRules(); err != nil {
		return err
	}
	if err := gs.resolveProbabilities(); err != nil {
		return err
	}

	gs.initFlag = true
	return nil
}

// SymbolID 依名稱取得符號索引（只供載入期與測試使用）。
func (gs *GameSetting) SymbolID(name string) (int16, bool) {
	id, ok := gs.symbolIdx[name]
	return id, ok
}

// RuleID 依名稱取得規則索引（只供載入期與測試使用）。
func (gs *GameSetting) RuleID(name string) (int16, bool) {
	for i := range gs.RuleInfos {
		if gs.RuleInfos[i].Name == name {
			return int16(i), true
		}
	}
	return -1, false
}

// IsStandard 回傳符號索引是否為 standard 類別。
func (gs *GameSetting) IsStandard(id int16) bool {
	return id >= 0 && int(id) < len(gs.SymbolInfos) && gs.SymbolInfos[id].Type == SymbolTypeStandard
}

// resolveSymbols 建立符號 arena：名稱排序決定索引。
func (gs *GameSetting) resolveSymbols() error {
	if len(gs.Symbols) == 0 {
		return errs.NewConfig("configuration must define symbols")
	}
	names := make([]string, 0, len(gs.Symbols))
	for name := range gs.Symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	gs.SymbolInfos = make([]SymbolInfo, len(names))
	gs.symbolIdx = make(map[string]int16, len(names))
	for i, name := range names {
		info, err := gs.Symbols[name].resolve(name)
		if err != nil {
			return err
		}
		gs.SymbolInfos[i] = info
		gs.symbolIdx[name] = int16(i)
	}
	return nil
}

// resolveRules 建立規則與群組 arena：名稱排序決定索引與偵測順序。
func (gs *GameSetting) resolveRules() error {
	if len(gs.WinCombinations) == 0 {
		return errs.NewConfig("configuration must define win combinations")
	}
	names := make([]string, 0, len(gs.WinCombinations))
	for name := range gs.WinCombinations {
		names = append(names, name)
	}
	sort.Strings(names)

	groupIdx := make(map[string]int16)
	gs.GroupNames = gs.GroupNames[:0]
	gs.RuleInfos = make([]RuleInfo, len(names))
	for i, name := range names {
		rs := gs.WinCombinations[name]
		if rs.Group == "" {
			return errs.Configf("rule %s: group required", name)
		}
		gid, ok := groupIdx[rs.Group]
		if !ok {
			gid = int16(len(gs.GroupNames))
			gs.GroupNames = append(gs.GroupNames, rs.Group)
			groupIdx[rs.Group] = gid
		}
		info, err := rs.resolve(name, gs.Rows, gs.Columns, gid)
		if err != nil {
			return err
		}
		gs.RuleInfos[i] = info
	}
	return nil
}

// resolveProbabilities 建立每格抽樣表與 bonus 抽樣表。
//
// 格子權重只接受已註冊的 standard 符號；bonus 權重允許未知名稱
// （以 -1 佔位，抽中時由生成端跳過）。機率表第一個條目同時是
// 未宣告格子的 fallback。
func (gs *GameSetting) resolveProbabilities() error {
	std := gs.Probabilities.StandardSymbols
	if len(std) == 0 {
		return errs.NewConfig("configuration must define standard symbol probabilities")
	}
	if gs.Probabilities.BonusSymbols == nil {
		return errs.NewConfig("configuration must define bonus symbol probabilities")
	}

	resolveStandard := func(name string) (int16, bool) {
		id, ok := gs.symbolIdx[name]
		if !ok || gs.SymbolInfos[id].Type != SymbolTypeStandard {
			return -1, false
		}
		return id, true
	}

	fallback, err := buildWeightTable(std[0].Symbols, resolveStandard, false, "standard_symbols[0]")
	if err != nil {
		return err
	}

	size := gs.Rows * gs.Columns
	gs.CellTables = make([]*WeightTable, size)
	for i := range std {
		cw := &std[i]
		if cw.Row < 0 || cw.Row >= gs.Rows || cw.Column < 0 || cw.Column >= gs.Columns {
			return errs.Configf("standard_symbols[%d]: cell %d:%d outside %dx%d matrix", i, cw.Row, cw.Column, gs.Rows, gs.Columns)
		}
		t := fallback
		if i > 0 {
			t, err = buildWeightTable(cw.Symbols, resolveStandard, false, "standard_symbols["+cw.coordLabel()+"]")
			if err != nil {
				return err
			}
		}
		gs.CellTables[cw.Row*gs.Columns+cw.Column] = t
	}
	for i := range gs.CellTables {
		if gs.CellTables[i] == nil {
			gs.CellTables[i] = fallback
		}
	}

	resolveAny := func(name string) (int16, bool) {
		id, ok := gs.symbolIdx[name]
		return id, ok
	}
	if len(gs.Probabilities.BonusSymbols.Symbols) > 0 {
		gs.BonusTable, err = buildWeightTable(gs.Probabilities.BonusSymbols.Symbols, resolveAny, true, "bonus_symbols")
		if err != nil {
			return err
		}
	}
	return nil
}

func (cw *CellWeights) coordLabel() string {
	return strconv.Itoa(cw.Row) + ":" + strconv.Itoa(cw.Column)
}
