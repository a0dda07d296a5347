package style

import "strings"

// 该文件定义样式模型：RunStyle/ParStyle 属性包、组合 Style、编号与表格样式，
// 以及按整数句柄寻址的样式仓库 Sheet。所有属性字段为指针，nil 表示“交给级联”。

// ID 是 Sheet 中 Style 记录的句柄，NoID 表示不存在的引用。
type ID int

// TableID 是 Sheet 中 TableStyle 记录的句柄，NoTable 表示不存在的引用。
type TableID int

const (
	NoID    ID      = 0
	NoTable TableID = 0
)

// Ptr 返回 v 的指针，便于构造可选属性。
func Ptr[T any](v T) *T { return &v }

// RunStyle 为字符级属性。
type RunStyle struct {
	Bold         *bool      `json:"bold,omitempty"`
	Italic       *bool      `json:"italic,omitempty"`
	Underline    *Underline `json:"underline,omitempty"`
	Strike       *bool      `json:"strike,omitempty"`
	DoubleStrike *bool      `json:"doubleStrike,omitempty"`
	FontFamily   *string    `json:"fontFamily,omitempty"`
	FontSize     *float64   `json:"fontSize,omitempty"`    // px
	CharSpacing  *float64   `json:"charSpacing,omitempty"` // px，逐字符追加
	CharStretch  *float64   `json:"charStretch,omitempty"` // 百分比，100 为原宽
	Color        *string    `json:"color,omitempty"`       // RRGGBB
	Caps         *bool      `json:"caps,omitempty"`
	SmallCaps    *bool      `json:"smallCaps,omitempty"`
	Invisible    *bool      `json:"invisible,omitempty"`
	Shading      *string    `json:"shading,omitempty"`
	BasedOn      ID         `json:"basedOn,omitempty"`
}

// ParStyle 为段落级属性。
type ParStyle struct {
	Justification *Justification  `json:"justification,omitempty"`
	Indentation   *float64        `json:"indentation,omitempty"` // px
	Hanging       *float64        `json:"hanging,omitempty"`     // px
	LineSpacing   *float64        `json:"lineSpacing,omitempty"` // twips，auto 规则下为 1/240 行
	LineRule      *LineRule       `json:"lineRule,omitempty"`
	LinesBefore   *float64        `json:"linesBefore,omitempty"`
	LinesAfter    *float64        `json:"linesAfter,omitempty"`
	SpacingBefore *float64        `json:"spacingBefore,omitempty"` // px
	SpacingAfter  *float64        `json:"spacingAfter,omitempty"`  // px
	AutoBefore    *bool           `json:"autoBefore,omitempty"`
	AutoAfter     *bool           `json:"autoAfter,omitempty"`
	Numbering     *NumberingStyle `json:"numbering,omitempty"`
	Tabs          []TabStop       `json:"tabs,omitempty"` // nil 表示未设置
	Shading       *string         `json:"shading,omitempty"`
	BasedOn       ID              `json:"basedOn,omitempty"`
}

// Style 是 RunStyle 与 ParStyle 的组合，可带有命名样式继承与所属表格样式。
type Style struct {
	Name    string   `json:"name,omitempty"`
	Run     RunStyle `json:"run"`
	Par     ParStyle `json:"par"`
	BasedOn ID       `json:"basedOn,omitempty"`
	Table   TableID  `json:"table,omitempty"`
}

// NumberingLevel 为编号定义中的一个级别。
type NumberingLevel struct {
	Index  int          `json:"index"`
	Format NumberFormat `json:"format"`
	Start  int          `json:"start"`
	Suffix Suffix       `json:"suffix"`
	Text   string       `json:"text"`
	Style  ID           `json:"style,omitempty"`
}

// NumberingStyle 将 (numId, level) 绑定到具体的 NumberingLevel。
// Level 在编号定义可用之后才会被绑定，未绑定时为 nil。
type NumberingStyle struct {
	NumID string          `json:"numId"`
	Index int             `json:"level"`
	Level *NumberingLevel `json:"-"`
}

// TableKind 标识 TableStyle 所处的层级。
type TableKind int

const (
	TableKindTable TableKind = iota
	TableKindRow
	TableKindCell
)

// TableStyle 为表格/行/单元格层级的属性，通过 Higher 形成 cell→row→table 链。
type TableStyle struct {
	Kind          TableKind      `json:"kind"`
	Justification *Justification `json:"justification,omitempty"`
	Indentation   *float64       `json:"indentation,omitempty"`
	Borders       BorderSet      `json:"borders"`
	Margins       MarginSet      `json:"margins"`
	CellSpacing   *float64       `json:"cellSpacing,omitempty"`
	ColumnSpan    *int           `json:"columnSpan,omitempty"`
	RowSpan       *RowSpan       `json:"rowSpan,omitempty"`
	Shading       *string        `json:"shading,omitempty"`
	CellWidth     *float64       `json:"cellWidth,omitempty"`
	Run           RunStyle       `json:"run"`
	Par           ParStyle       `json:"par"`
	Higher        TableID        `json:"higher,omitempty"`
}

// Defaults 为级联全部落空时使用的内建默认值。
type Defaults struct {
	FontFamily     string  `json:"fontFamily"`
	FontSize       float64 `json:"fontSize"` // px
	Color          string  `json:"color"`
	LineSpacing    float64 `json:"lineSpacing"` // auto 规则下的 240ths
	TabInterval    float64 `json:"tabInterval"` // px
	CellMarginSide float64 `json:"cellMarginSide"`
	CellMarginVert float64 `json:"cellMarginVertical"`
}

// DefaultDefaults 返回 Word 的默认值：Calibri 11pt、单倍行距、0.5 英寸默认制表位、5.4pt 单元格左右边距。
func DefaultDefaults() Defaults {
	return Defaults{
		FontFamily:     "Calibri",
		FontSize:       11 * PxPerPt,
		Color:          "000000",
		LineSpacing:    240,
		TabInterval:    48,
		CellMarginSide: 108 / TwipsPerPx,
	}
}

// Unit conversions used by the derived policies.
const (
	PxPerPt    = 96.0 / 72.0
	TwipsPerPx = 15.0
)

// Sheet 是样式记录的仓库。句柄从 1 开始分配，0 保留为“不存在”。
type Sheet struct {
	Defaults Defaults

	styles    []Style
	tables    []TableStyle
	names     map[string]ID
	numbering map[string][]NumberingLevel
}

// NewSheet 创建一个使用内建默认值的空仓库。
func NewSheet() *Sheet {
	return &Sheet{
		Defaults:  DefaultDefaults(),
		styles:    []Style{{}},
		tables:    []TableStyle{{}},
		names:     map[string]ID{},
		numbering: map[string][]NumberingLevel{},
	}
}

// Add 存入一个样式并返回其句柄；带名称的样式可通过 ByName 查找。
func (s *Sheet) Add(st Style) ID {
	s.styles = append(s.styles, st)
	id := ID(len(s.styles) - 1)
	if st.Name != "" {
		s.names[strings.ToLower(st.Name)] = id
	}
	return id
}

// AddTable 存入一个表格样式并返回其句柄。
func (s *Sheet) AddTable(ts TableStyle) TableID {
	s.tables = append(s.tables, ts)
	return TableID(len(s.tables) - 1)
}

// Style 返回句柄对应的样式；句柄无效时 ok 为 false。
func (s *Sheet) Style(id ID) (*Style, bool) {
	if s == nil || id <= NoID || int(id) >= len(s.styles) {
		return nil, false
	}
	return &s.styles[id], true
}

// Table 返回句柄对应的表格样式；句柄无效时 ok 为 false。
func (s *Sheet) Table(id TableID) (*TableStyle, bool) {
	if s == nil || id <= NoTable || int(id) >= len(s.tables) {
		return nil, false
	}
	return &s.tables[id], true
}

// ByName 按名称（忽略大小写）查找样式。
func (s *Sheet) ByName(name string) (ID, bool) {
	id, ok := s.names[strings.ToLower(name)]
	return id, ok
}

// Len 返回已存入的样式数量。
func (s *Sheet) Len() int { return len(s.styles) - 1 }

// AddNumbering 登记一个编号定义的全部级别，level.Index 需与其下标一致。
func (s *Sheet) AddNumbering(numID string, levels ...NumberingLevel) {
	s.numbering[numID] = append([]NumberingLevel(nil), levels...)
}

// NumberingLevel 返回编号定义 numID 的第 level 级。
func (s *Sheet) NumberingLevel(numID string, level int) (*NumberingLevel, bool) {
	if s == nil {
		return nil, false
	}
	levels := s.numbering[numID]
	for i := range levels {
		if levels[i].Index == level {
			return &levels[i], true
		}
	}
	return nil, false
}

// BindNumbering 为所有样式中尚未绑定的 NumberingStyle 绑定级别定义，返回无法绑定的引用。
func (s *Sheet) BindNumbering() []NumberingStyle {
	var missing []NumberingStyle
	bind := func(n *NumberingStyle) {
		if n == nil || n.Level != nil {
			return
		}
		if lvl, ok := s.NumberingLevel(n.NumID, n.Index); ok {
			n.Level = lvl
			return
		}
		missing = append(missing, *n)
	}
	for i := range s.styles {
		bind(s.styles[i].Par.Numbering)
	}
	for i := range s.tables {
		bind(s.tables[i].Par.Numbering)
	}
	return missing
}
