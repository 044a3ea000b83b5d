package excel

import (
	"fmt"
	"slices"
	"strings"

	"dario.cat/mergo"
	"github.com/xuri/excelize/v2"
)

const (
	navy        = "#1F497D"
	paleBlue    = "#DCE6F1"
	lightYellow = "#FFF2CC"
	white       = "#FFFFFF"
	grayBorder  = "#BFBFBF"
	noteRed     = "#FF0000"
	templateHdr = "#4472C4"
)

const (
	fmtPercent = "0.0%"
	fmtDecimal = "#,##0.0"
	fmtInteger = "#,##0"
)

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func colName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}

func baseFont(family string) *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Family: family,
		},
	}
}

func fill(color string) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
	}
}

func fontBold() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	}
}

func fontColor(color string) *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Color: color,
		},
	}
}

func fontSize(size float64) *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Size: size,
		},
	}
}

func textAlignment(a string) *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: a,
		},
	}
}

func centered(wrap bool) *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   wrap,
		},
	}
}

func border(color string, style int, where ...string) *excelize.Style {
	s := &excelize.Style{}
	for _, w := range where {
		s.Border = append(s.Border, excelize.Border{
			Type:  w,
			Color: color,
			Style: style,
		})
	}
	return s
}

func thinBorder(where ...string) *excelize.Style {
	return border(grayBorder, 1, where...)
}

func allBorders() *excelize.Style {
	return thinBorder("left", "right", "top", "bottom")
}

func numberFormat(format string) *excelize.Style {
	return &excelize.Style{
		CustomNumFmt: &format,
	}
}

func mergeStyles(ext ...*excelize.Style) *excelize.Style {
	if len(ext) == 0 {
		return nil
	}
	for _, e := range ext[1:] {
		_ = mergo.Merge(ext[0], e, mergo.WithOverride, mergo.WithAppendSlice)
	}
	return ext[0]
}

// cellKind selects the look of a cell in a decorated report.
type cellKind int

const (
	kindData cellKind = iota
	kindHeader
	kindSubHeader
	kindTotal
	kindTotalBold
	kindPlain
)

// styleCache creates each distinct style once per workbook.
type styleCache struct {
	f      *excelize.File
	font   string
	styles map[string]int
}

func newStyleCache(f *excelize.File, font string) *styleCache {
	return &styleCache{f: f, font: font, styles: make(map[string]int)}
}

// id returns the style for kind with the given number format ("" for none).
func (c *styleCache) id(kind cellKind, format string) (int, error) {
	key := fmt.Sprintf("%d|%s", kind, format)
	if id, ok := c.styles[key]; ok {
		return id, nil
	}

	parts := []*excelize.Style{baseFont(c.font)}
	switch kind {
	case kindHeader:
		parts = append(parts, allBorders(), fill(navy), fontBold(), fontColor(white), centered(true))
	case kindSubHeader:
		parts = append(parts, allBorders(), fill(paleBlue), fontBold(), centered(false))
	case kindTotal:
		parts = append(parts, allBorders(), fill(lightYellow), fontBold())
	case kindTotalBold:
		parts = append(parts, allBorders(), fill(white), fontBold())
	case kindData:
		parts = append(parts, allBorders(), fill(white))
	}
	if format != "" {
		parts = append(parts, numberFormat(format))
	}

	id, err := c.f.NewStyle(mergeStyles(parts...))
	if err != nil {
		return 0, err
	}
	c.styles[key] = id
	return id, nil
}

// noteStyle is the red call-out used for explanatory rows.
func (c *styleCache) noteStyle() (int, error) {
	const key = "note"
	if id, ok := c.styles[key]; ok {
		return id, nil
	}
	id, err := c.f.NewStyle(mergeStyles(baseFont(c.font), fontBold(), fontColor(noteRed), fontSize(10)))
	if err != nil {
		return 0, err
	}
	c.styles[key] = id
	return id, nil
}

// decimalHeaders name the report columns holding averages and other
// fractional figures, which keep one decimal even when a value is whole.
var decimalHeaders = []string{
	"通話時間／秒", "外線_時間／秒", "1日平均", "外線のみ", "1人当たり／月",
	"勤務時間", "外線(実績)", "外線(見込)",
}

func decimalHeader(header string) bool {
	return slices.Contains(decimalHeaders, header)
}

// percentHeader reports whether a column with this header holds rates.
func percentHeader(header string) bool {
	return strings.ContainsAny(header, "率％比")
}
