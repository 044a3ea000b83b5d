package calllog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Group is a named cluster of sites whose external-line counts are
// subtotalled together.
type Group struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// Staff is one entry of the reduced-hours roster.
type Staff struct {
	Name       string  `yaml:"name"`
	Department string  `yaml:"department"`
	Hours      float64 `yaml:"hours"`
}

type BusinessHours struct {
	Start Clock `yaml:"start"`
	End   Clock `yaml:"end"`
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (b BusinessHours) Contains(c Clock) bool {
	return b.Start <= c && c <= b.End
}

// Config holds the fixed rosters and keywords the pipelines run against.
// The defaults are compiled in; a YAML file may override any field.
type Config struct {
	Sites           []string          `yaml:"sites"`
	ExcludeKeywords []string          `yaml:"exclude_keywords"`
	BusinessHours   BusinessHours     `yaml:"business_hours"`
	TransferTo      map[string]string `yaml:"transfer_to"`
	TransferFrom    map[string]string `yaml:"transfer_from"`
	Groups          []Group           `yaml:"groups"`
	ReducedHours    []Staff           `yaml:"reduced_hours"`
	OrderDesk       []string          `yaml:"order_desk"`
	StandardHours   float64           `yaml:"standard_hours"`

	AppendSheets    []string `yaml:"append_sheets"`
	ReplaceSheets   []string `yaml:"replace_sheets"`
	InternalSheet   string   `yaml:"internal_sheet"`
	InternalHeaders []string `yaml:"internal_headers"`

	Font string `yaml:"font"`
}

const DefaultConfigFile = "calllog.yaml"

func DefaultConfig() *Config {
	return &Config{
		Sites: []string{
			"東京", "横浜", "埼玉", "滋賀", "大阪",
			"千葉", "福岡", "岡山", "名古屋", "仙台", "流山",
		},
		ExcludeKeywords: []string{"不在", "未応答", "応答なし", "放棄", "留守電"},
		BusinessHours: BusinessHours{
			Start: NewClock(8, 45, 0),
			End:   NewClock(17, 45, 0),
		},
		TransferTo: map[string]string{"千葉": "埼玉", "大阪": "岡山"},
		TransferFrom: map[string]string{
			"東京": "流山", "横浜": "多摩", "埼玉": "千葉・北関東",
			"滋賀": "金沢", "福岡": "広島・熊本", "岡山": "大阪・静岡", "仙台": "札幌",
		},
		Groups: []Group{
			{"東京+流山", []string{"東京", "流山"}},
			{"埼玉+千葉+北関東", []string{"埼玉", "千葉", "北関東"}},
			{"横浜+多摩", []string{"横浜", "多摩"}},
			{"仙台+札幌", []string{"仙台", "札幌"}},
			{"滋賀+金沢", []string{"滋賀", "金沢"}},
			{"名古屋", []string{"名古屋"}},
			{"福岡+熊本+広島", []string{"福岡", "熊本", "広島"}},
			{"岡山+大阪+静岡", []string{"岡山", "大阪", "静岡"}},
		},
		ReducedHours: []Staff{
			{"玉腰　千恵", "名古屋営業所(業務)", 5.75},
			{"石川　恵理", "埼玉支店(業務)", 6.25},
			{"矢島　静音", "埼玉支店(業務)", 6},
			{"河原　由布子", "岡山営業所(業務)", 6},
		},
		OrderDesk: []string{
			"【流山】鴻池千紗都", "【横浜】奥秋素子", "【横浜】山﨑啓右", "【横浜】青木観奈",
			"【横浜】川崎瞳", "【横浜】中山満里奈", "【横浜】萩原直美", "【横浜】舞智江",
			"【岡山】伊藤優", "【岡山】河原由布子", "【岡山】岸本麻衣子", "【岡山】岩佐寛子",
			"【岡山】武政彩果", "【岡山】矢野夏絵", "【埼玉】竹内梓", "【埼玉】吉田夏子",
			"【埼玉】金子友希", "【埼玉】細田昌子", "【埼玉】石川恵理", "【埼玉】池田千恵子",
			"【埼玉】豊田里花", "【埼玉】矢島静音", "【滋賀】松井治美", "【滋賀】梅原薫",
			"【滋賀】筆坂雪子", "【滋賀】北出智子", "【仙台】阿部かおり", "【仙台】真壁彰子",
			"【仙台】仁藤佳美", "【仙台】齋藤詩織", "【千葉】小島佳菜", "【大阪】松下愛",
			"【東京】高澤早紀", "【東京】佐々木美咲", "【東京】坂田智世", "【東京】西垣彩",
			"【東京】北林友希", "【東京】林まど佳", "【福岡】奥薗美和", "【福岡】山崎芹奈",
			"【福岡】重松宝成", "【福岡】松添愛", "【福岡】松尾明日香", "【名古屋】稲垣みちる",
			"【名古屋】玉腰千恵", "【名古屋】水島奈美", "【名古屋】大渕温子",
		},
		StandardHours: 8,

		AppendSheets:  []string{"内線通話", "外線発信", "外線着信"},
		ReplaceSheets: []string{"着信件数", "電話端末"},
		InternalSheet: "内線通話",
		InternalHeaders: []string{
			"時刻",
			"発信番号",
			"発信者",
			"最終着信者名",
			"着信者",
			"最終着信番号",
			"最終着信者",
			"通話時間（応答までの時間を含む）",
			"通話時間",
			"メモ",
			"リクエストID",
		},

		Font: "BIZ UDゴシック",
	}
}

// LoadConfig returns the defaults overridden by the YAML file at path. A
// missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	bs, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.BusinessHours.End < cfg.BusinessHours.Start {
		return nil, fmt.Errorf("parse %s: business hours end before start", path)
	}
	return cfg, nil
}

// SortSites returns the configured site order followed by every site in
// extra that is not part of it, in first-seen order.
func (c *Config) SortSites(extra ...string) []string {
	sites := slices.Clone(c.Sites)
	for _, s := range extra {
		if s == "" || slices.Contains(sites, s) {
			continue
		}
		sites = append(sites, s)
	}
	return sites
}

// siteRank orders sites by their roster position; unknown sites sort last.
func (c *Config) siteRank(site string) int {
	if i := slices.Index(c.Sites, site); i >= 0 {
		return i
	}
	return len(c.Sites)
}

type siteName struct {
	site, name string
}

func (c *Config) orderDesk() map[siteName]bool {
	set := make(map[siteName]bool, len(c.OrderDesk))
	for _, raw := range c.OrderDesk {
		site, name := SplitTag(raw)
		if site != "" && name != "" {
			set[siteName{site, name}] = true
		}
	}
	return set
}
