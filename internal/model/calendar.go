package model

// PriceCell is one calendar day as presented by a month grid.
type PriceCell struct {
	DateLabel    string `json:"label" yaml:"label"`
	RawPriceText string `json:"price" yaml:"price"`
}

// MonthHandle identifies one visible month panel, in left-to-right display order.
type MonthHandle struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

// MonthGrid is one month panel with its cells, as captured from a calendar.
type MonthGrid struct {
	Title string      `json:"title" yaml:"title"`
	Cells []PriceCell `json:"cells" yaml:"cells"`
}
