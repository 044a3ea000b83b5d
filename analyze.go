package calllog

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Report sheet names.
const (
	SheetCounts         = "1.着信件数"
	SheetStaff          = "2.従業員別"
	SheetSites          = "3.関数_拠点別"
	SheetReducedHours   = "4.時短勤務"
	SheetBusinessFinal  = "5.営業時間内集計"
	SheetBusinessTarget = "6.時間内集計"
)

// TotalLabel marks total rows.
const TotalLabel = "合計"

// ReportName returns the file name of the report generated on day.
func ReportName(day time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", reportMarker, day.Format("2006-01-02"))
}

// Analyzer builds the aggregated call report.
type Analyzer struct {
	Config *Config
	// Roster replaces Config.ReducedHours when non-nil.
	Roster []Staff
	Log    *zap.Logger
}

type personKey = siteName

type personStats struct {
	intCount, extCount int64
	intSum, extSum     float64
	days               map[int]int64
}

type analysis struct {
	cfg *Config
	log *zap.Logger

	ints, exts []Call

	yearMonth    time.Time
	hasMonth     bool
	operatingDay int
	sites        []string

	intIn, intAns, extIn, extAns map[string]int64

	persons   map[personKey]*personStats
	staffKeys []personKey
	staffRows *Table
	headcount map[string]int64
}

// Analyze aggregates internal and external inbound call logs. Either table
// may be nil, but not both.
func (a *Analyzer) Analyze(internal, external *Table) (*Report, error) {
	cfg := a.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := a.Log
	if log == nil {
		log = zap.NewNop()
	}
	if (internal == nil || internal.Len() == 0) && (external == nil || external.Len() == 0) {
		return nil, ErrNoData
	}

	an := &analysis{
		cfg:  cfg,
		log:  log,
		ints: cfg.Calls(internal),
		exts: cfg.Calls(external),
	}
	an.prepare()

	roster := a.Roster
	if roster == nil {
		roster = cfg.ReducedHours
	}

	rep := &Report{}
	rep.Sheets = append(rep.Sheets, an.counts())
	staff := an.staff(hasColumn(internal, ColDuration), hasColumn(external, ColDuration))
	rep.Sheets = append(rep.Sheets, staff)
	sites := an.sitesSheet()
	rep.Sheets = append(rep.Sheets, sites)
	rep.Sheets = append(rep.Sheets, an.reducedHours(roster))
	rep.Sheets = append(rep.Sheets, an.businessFinal())
	rep.Sheets = append(rep.Sheets, an.businessTarget())
	return rep, nil
}

func hasColumn(t *Table, col string) bool {
	return t != nil && t.Has(col)
}

func (an *analysis) prepare() {
	for _, calls := range [][]Call{an.ints, an.exts} {
		if an.hasMonth {
			break
		}
		for _, c := range calls {
			if c.HasTime {
				an.yearMonth = c.Time
				an.hasMonth = true
				break
			}
		}
	}

	dates := make(map[string]bool)
	var extra []string
	for _, calls := range [][]Call{an.ints, an.exts} {
		for _, c := range calls {
			if c.HasTime {
				dates[c.Time.Format("2006-01-02")] = true
			}
			if c.TargetSite != "" {
				extra = append(extra, c.TargetSite)
			}
		}
	}
	an.operatingDay = max(len(dates), 1)
	an.sites = an.cfg.SortSites(extra...)

	an.intIn = countBy(an.ints, byTarget, nil)
	an.intAns = countBy(an.ints, byFinal, answered)
	an.extIn = countBy(an.exts, byTarget, nil)
	an.extAns = countBy(an.exts, byFinal, answered)

	an.log.Debug("Prepared call data",
		zap.Int("internal", len(an.ints)),
		zap.Int("external", len(an.exts)),
		zap.Int("operatingDays", an.operatingDay),
		zap.Int("sites", len(an.sites)))
}

// counts builds sheet 1: per-site inbound/answered counts for both channels
// plus the 24h region-group subtotals.
func (an *analysis) counts() Sheet {
	cols := []string{"内線_入電", "内線_着電", "外線_入電", "外線_着電", "他拠点へ転送", "他拠点から転送"}
	t := NewTable(SheetCounts, cols...)
	labels := make([]string, 0, len(an.sites)+1)
	var sum [4]int64
	for _, site := range an.sites {
		vals := [4]int64{an.intIn[site], an.intAns[site], an.extIn[site], an.extAns[site]}
		for i := range vals {
			sum[i] += vals[i]
		}
		t.AppendRow(vals[0], vals[1], vals[2], vals[3], an.cfg.TransferTo[site], an.cfg.TransferFrom[site])
		labels = append(labels, site)
	}
	t.AppendRow(sum[0], sum[1], sum[2], sum[3], "", "")
	labels = append(labels, TotalLabel)
	_ = t.SetLabels(labels)

	groups := an.groupSummary("追加集計(24H)", "電話が入った数", an.extIn, an.extAns)

	return Sheet{
		Name: SheetCounts,
		Blocks: []Block{
			{Table: t, Row: 1, Col: 1, LabelHeader: "拠点", Groups: []string{"内線", "内線", "外線", "外線", "", ""}},
			{Table: groups, Row: 22, Col: 10},
		},
	}
}

// groupSummary subtotals the external counts of each region group. Only
// member sites present in the site list contribute.
func (an *analysis) groupSummary(title, inLabel string, in, ans map[string]int64) *Table {
	t := NewTable(title, title, inLabel, "とった数", "％")
	var totalIn, totalAns int64
	for _, g := range an.cfg.Groups {
		var sumIn, sumAns int64
		for _, m := range g.Members {
			if m == TotalLabel || !slices.Contains(an.sites, m) {
				continue
			}
			sumIn += in[m]
			sumAns += ans[m]
		}
		t.AppendRow(g.Name, sumIn, sumAns, ratio(float64(sumAns), float64(sumIn)))
		totalIn += sumIn
		totalAns += sumAns
	}
	t.AppendRow(TotalLabel, totalIn, totalAns, ratio(float64(totalAns), float64(totalIn)))
	return t
}

// staff builds sheet 2: per-person answered calls, average durations and a
// day-of-month activity pivot.
func (an *analysis) staff(intDur, extDur bool) Sheet {
	an.persons = make(map[personKey]*personStats)
	get := func(c Call) *personStats {
		k := personKey{c.FinalSite, c.FinalName}
		p, ok := an.persons[k]
		if !ok {
			p = &personStats{days: make(map[int]int64)}
			an.persons[k] = p
		}
		return p
	}
	keep := func(c Call) bool { return c.Answered && c.FinalSite != "" }

	if intDur {
		for _, c := range an.ints {
			if keep(c) {
				p := get(c)
				p.intCount++
				p.intSum += c.Duration
				if c.HasTime {
					p.days[c.Time.Day()]++
				}
			}
		}
	}
	if extDur {
		for _, c := range an.exts {
			if keep(c) {
				p := get(c)
				p.extCount++
				p.extSum += c.Duration
				if c.HasTime {
					p.days[c.Time.Day()]++
				}
			}
		}
	}

	var dayCols []string
	var dayNums []int
	if an.hasMonth {
		y, m, _ := an.yearMonth.Date()
		for d := 1; d <= 31; d++ {
			date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
			if date.Month() != m {
				break
			}
			dayCols = append(dayCols, date.Format("2006-01-02"))
			dayNums = append(dayNums, d)
		}
	}

	cols := []string{"名前", "拠点", "受発注", "内線", "通話時間／秒", "外線", "外線_時間／秒"}
	cols = append(cols, dayCols...)
	cols = append(cols, "稼働日", "内外線計", "1日平均")
	t := NewTable(SheetStaff, cols...)

	keys := make([]personKey, 0, len(an.persons))
	for k := range an.persons {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b personKey) int {
		if d := an.cfg.siteRank(a.site) - an.cfg.siteRank(b.site); d != 0 {
			return d
		}
		return strings.Compare(a.name, b.name)
	})

	desk := an.cfg.orderDesk()
	an.headcount = make(map[string]int64)
	for _, k := range keys {
		p := an.persons[k]
		flag := ""
		if desk[k] {
			flag = "受発注"
		}
		var worked int64
		days := make([]any, len(dayNums))
		for i, d := range dayNums {
			n := p.days[d]
			days[i] = n
			if n > 0 {
				worked++
			}
		}
		total := p.intCount + p.extCount
		perDay := 0.0
		if worked > 0 {
			perDay = Round1(float64(total) / float64(worked))
		}

		row := []any{
			k.name, k.site, flag,
			p.intCount, Round1(p.intSum / float64(max(p.intCount, 1))),
			p.extCount, Round1(p.extSum / float64(max(p.extCount, 1))),
		}
		row = append(row, days...)
		row = append(row, worked, total, perDay)
		t.AppendRow(row...)
		an.headcount[k.site]++
	}
	an.staffRows = t
	an.staffKeys = keys
	return SimpleSheet(t)
}

func (an *analysis) totalColumn() string {
	if an.hasMonth {
		return fmt.Sprintf("%d年%d月から外線のみ", an.yearMonth.Year(), int(an.yearMonth.Month()))
	}
	return "期間計"
}

// sitesSheet builds sheet 3: per-site external answered totals, daily
// average, headcount and share, plus the order-desk subtotal block.
func (an *analysis) sitesSheet() Sheet {
	totalCol := an.totalColumn()
	t := NewTable(SheetSites, "拠点名", totalCol, "外線のみ", "人員", "1人当たり／月", "全体からの比率")
	var total int64
	for _, site := range an.sites {
		total += an.extAns[site]
	}
	for _, site := range an.sites {
		n := an.extAns[site]
		staff := an.headcount[site]
		perPerson := 0.0
		if staff > 0 {
			perPerson = Round1(float64(n) / float64(staff))
		}
		t.AppendRow(site, n, Round1(float64(n)/float64(an.operatingDay)), staff, perPerson, ratio(float64(n), float64(total)))
	}

	sheet := SimpleSheet(t)
	if desk := an.orderDeskBlock(); desk != nil {
		sheet.Blocks = append(sheet.Blocks, Block{Table: desk, Row: 1, Col: 9})
	}
	return sheet
}

func (an *analysis) orderDeskBlock() *Table {
	desk := an.cfg.orderDesk()
	calls := make(map[string]int64)
	people := make(map[string]int64)
	var sites []string
	for k, p := range an.persons {
		if !desk[k] {
			continue
		}
		if _, ok := people[k.site]; !ok {
			sites = append(sites, k.site)
		}
		calls[k.site] += p.extCount
		people[k.site]++
	}
	if len(sites) == 0 {
		return nil
	}
	// sorted by name, unlike the site-ranked tables around it
	slices.Sort(sites)
	t := NewTable(SheetSites, "拠点名", "受発注_外線", "受発注_人員")
	for _, s := range sites {
		t.AppendRow(s, calls[s], people[s])
	}
	return t
}

// reducedHours builds sheet 4: the reduced-hours roster with its scaling
// coefficient and projected full-time call volume.
func (an *analysis) reducedHours(roster []Staff) Sheet {
	if len(roster) == 0 {
		t := NewTable(SheetReducedHours, "info")
		t.AppendRow("データなし")
		return SimpleSheet(t)
	}

	// A name present at several sites takes the count of its last row on
	// the staff sheet.
	actual := make(map[string]int64)
	for _, k := range an.staffKeys {
		actual[NormalizeName(k.name)] = an.persons[k].extCount
	}

	t := NewTable(SheetReducedHours, "氏名", "部署", "勤務時間", "係数", "外線(実績)", "外線(見込)")
	for _, s := range roster {
		coeff := 0.0
		if s.Hours > 0 {
			coeff = Round2(an.cfg.StandardHours / s.Hours)
		}
		calls := float64(actual[NormalizeName(s.Name)])
		t.AppendRow(s.Name, s.Department, Round1(s.Hours), coeff, Round1(calls), Round1(calls*coeff))
	}
	return SimpleSheet(t)
}

// businessFinal builds sheet 5: answered external calls inside business
// hours, attributed to the site of whoever answered.
func (an *analysis) businessFinal() Sheet {
	biz := countBy(an.exts, byFinal, func(c Call) bool {
		return c.Answered && an.cfg.InBusinessHours(c)
	})
	var total int64
	for _, site := range an.sites {
		total += biz[site]
	}

	t := NewTable(SheetBusinessFinal, "拠点名", "営業時間内_外線のみ", "人員", "1人当たり／月", "全体からの比率")
	for _, site := range an.sites {
		n := biz[site]
		staff := an.headcount[site]
		perPerson := 0.0
		if staff > 0 {
			perPerson = Round1(float64(n) / float64(staff))
		}
		t.AppendRow(site, n, staff, perPerson, ratio(float64(n), float64(total)))
	}
	return SimpleSheet(t)
}

// businessTarget builds sheet 6: business-hours counts attributed to the
// site that was dialled, with answer rates, an overall summary and region
// group subtotals.
func (an *analysis) businessTarget() Sheet {
	inHours := an.cfg.InBusinessHours
	intIn := countBy(an.ints, byTarget, inHours)
	intAns := countBy(an.ints, byTarget, func(c Call) bool { return inHours(c) && c.Answered })
	extIn := countBy(an.exts, byTarget, inHours)
	extAns := countBy(an.exts, byTarget, func(c Call) bool { return inHours(c) && c.Answered })

	t := NewTable(SheetBusinessTarget, "内線_入電", "内線_着電", "内線_応答率", "外線_入電", "外線_着電", "外線_応答率")
	labels := make([]string, 0, len(an.sites)+1)
	var sum [4]int64
	for _, site := range an.sites {
		v := [4]int64{intIn[site], intAns[site], extIn[site], extAns[site]}
		for i := range v {
			sum[i] += v[i]
		}
		t.AppendRow(v[0], v[1], ratio(float64(v[1]), float64(v[0])), v[2], v[3], ratio(float64(v[3]), float64(v[2])))
		labels = append(labels, site)
	}
	t.AppendRow(sum[0], sum[1], ratio(float64(sum[1]), float64(sum[0])), sum[2], sum[3], ratio(float64(sum[3]), float64(sum[2])))
	labels = append(labels, TotalLabel)
	_ = t.SetLabels(labels)

	var all, missed int64
	for _, c := range an.exts {
		if inHours(c) {
			all++
			if !c.Answered {
				missed++
			}
		}
	}
	head := NewTable("summary", "表計(入電)", "全入電(N1)", "全不在(O1)", "全着電(P1)", "全応答率(Q1)")
	head.AppendRow(sum[2], all, missed, all-missed, ratio(float64(all-missed), float64(all)))

	groups := an.groupSummary("追加集計(時間内)", "入った数", extIn, extAns)

	return Sheet{
		Name: SheetBusinessTarget,
		Blocks: []Block{
			{Table: head, Row: 1, Col: 13},
			{Table: t, Row: 4, Col: 1, LabelHeader: "拠点", Groups: []string{"内線", "内線", "内線", "外線", "外線", "外線"}},
			{Table: groups, Row: 5, Col: 13},
		},
	}
}
