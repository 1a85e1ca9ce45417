package stats

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// CI 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// RoundReport 多局模擬的統計報告。
//
// 紀錄時只做計數累加（熱路徑），統計完成後呼叫 Done()
// 一次性換算 RTP / 命中率 / 信賴區間等衍生值。
type RoundReport struct {
	Rounds      int     `json:"Rounds"`
	TotalBet    float64 `json:"TotalBet"`
	TotalWin    float64 `json:"TotalWin"`
	WinRounds   int     `json:"WinRounds"`   // reward > 0 的局數
	BonusRounds int     `json:"BonusRounds"` // 有套用 bonus 的局數

	// 贏倍分佈：reward/bet 落在哪個桶（上界為開區間，最後一桶無上界）
	BucketBounds []float64 `json:"BucketBounds"`
	BucketHits   []int     `json:"BucketHits"`

	// 衍生值（Done 後可用）
	RTP       float64 `json:"RTP"`
	HitRate   float64 `json:"HitRate"`
	HitCI     CI      `json:"HitCI"`
	BonusRate float64 `json:"BonusRate"`

	isDone bool
}

// 預設贏倍桶：0 表示未中，其後依倍數遞增。
var defaultBounds = []float64{0, 1, 2, 5, 10, 50}

func NewRoundReport() *RoundReport {
	return &RoundReport{
		BucketBounds: defaultBounds,
		BucketHits:   make([]int, len(defaultBounds)+1),
	}
}

// Record 紀錄一局。熱路徑：只有加法與一次桶查找。
func (s *RoundReport) Record(bet, reward float64, bonusApplied bool) {
	s.Rounds++
	s.TotalBet += bet
	s.TotalWin += reward
	if reward > 0 {
		s.WinRounds++
	}
	if bonusApplied {
		s.BonusRounds++
	}
	mult := 0.0
	if bet > 0 {
		mult = reward / bet
	}
	s.BucketHits[s.bucketOf(mult)]++
}

// bucketOf 回傳 mult 落點：第 i 桶代表 (bounds[i-1], bounds[i]]，
// 首桶為 mult <= 0，末桶為超過最後一個上界。
func (s *RoundReport) bucketOf(mult float64) int {
	n := len(s.BucketBounds)
	i := sort.SearchFloat64s(s.BucketBounds, mult)
	if i < n && s.BucketBounds[i] == mult {
		return i
	}
	return i
}

// Merge 併入另一份報告（多 worker 模擬聚合用）。桶定義必須一致。
func (s *RoundReport) Merge(o *RoundReport) {
	s.Rounds += o.Rounds
	s.TotalBet += o.TotalBet
	s.TotalWin += o.TotalWin
	s.WinRounds += o.WinRounds
	s.BonusRounds += o.BonusRounds
	for i := range s.BucketHits {
		s.BucketHits[i] += o.BucketHits[i]
	}
}

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
func (s *RoundReport) Done() {
	if s.isDone {
		return
	}
	if s.TotalBet > 0 {
		s.RTP = s.TotalWin / s.TotalBet
	}
	if s.Rounds > 0 {
		s.HitRate = float64(s.WinRounds) / float64(s.Rounds)
		s.BonusRate = float64(s.BonusRounds) / float64(s.Rounds)
	}
	s.HitCI = hitCI(s.WinRounds, s.Rounds, 0.95)
	s.isDone = true
}

// StdOut 將報告渲染到標準輸出。
func (s *RoundReport) StdOut(used time.Duration) {
	s.Out(os.Stdout, used)
}

// Out 以對齊表格輸出報告（runewidth 對齊，千分位格式）。
func (s *RoundReport) Out(w io.Writer, used time.Duration) {
	s.Done()
	p := message.NewPrinter(lang)

	keys := []string{
		"Rounds", "TotalBet", "TotalWin", "RTP", "HitRate", "HitCI(95%)", "BonusRate", "Used",
	}
	vals := map[string]string{
		"Rounds":     p.Sprintf("%d", s.Rounds),
		"TotalBet":   p.Sprintf("%.2f", s.TotalBet),
		"TotalWin":   p.Sprintf("%.2f", s.TotalWin),
		"RTP":        p.Sprintf("%.4f%%", s.RTP*100),
		"HitRate":    p.Sprintf("%.4f%%", s.HitRate*100),
		"HitCI(95%)": p.Sprintf("[%.4f%%, %.4f%%]", s.HitCI.Lo*100, s.HitCI.Hi*100),
		"BonusRate":  p.Sprintf("%.4f%%", s.BonusRate*100),
		"Used":       used.Round(time.Millisecond).String(),
	}
	renderTable(w, "ROUND REPORT", keys, vals)

	// 贏倍分佈
	bKeys := make([]string, 0, len(s.BucketHits))
	bVals := make(map[string]string, len(s.BucketHits))
	for i, hits := range s.BucketHits {
		label := bucketLabel(s.BucketBounds, i)
		bKeys = append(bKeys, label)
		rate := 0.0
		if s.Rounds > 0 {
			rate = float64(hits) / float64(s.Rounds) * 100
		}
		bVals[label] = p.Sprintf("%d (%.4f%%)", hits, rate)
	}
	renderTable(w, "WIN MULT DIST", bKeys, bVals)
}

func bucketLabel(bounds []float64, i int) string {
	switch {
	case i == 0:
		return "x = 0"
	case i < len(bounds):
		return fmt.Sprintf("x <= %g", bounds[i])
	default:
		return fmt.Sprintf("x > %g", bounds[len(bounds)-1])
	}
}

// renderTable 依 runewidth 計算寬度，輸出鍵值對齊的框線表。
func renderTable(w io.Writer, title string, keys []string, vals map[string]string) {
	maxKeyLen, maxValLen := 0, 0
	for _, k := range keys {
		if kw := runewidth.StringWidth(k); kw > maxKeyLen {
			maxKeyLen = kw
		}
		if vw := runewidth.StringWidth(vals[k]); vw > maxValLen {
			maxValLen = vw
		}
	}
	titleW := runewidth.StringWidth(title)
	inner := maxKeyLen + maxValLen + 7
	if titleW+4 > inner {
		inner = titleW + 4
		maxValLen = inner - maxKeyLen - 7
	}

	line := "+" + strings.Repeat("-", inner-2) + "+"
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "| %s%s |\n", title, blank(inner-4-titleW))
	fmt.Fprintln(w, line)
	for _, k := range keys {
		v := vals[k]
		fmt.Fprintf(w, "| %s%s | %s%s |\n",
			k, blank(maxKeyLen-runewidth.StringWidth(k)),
			v, blank(maxValLen-runewidth.StringWidth(v)))
	}
	fmt.Fprintln(w, line)
}

func blank(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
