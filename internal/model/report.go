package model

// ReportPeriod bounds a sales report, dates formatted YYYY-MM-DD.
type ReportPeriod struct {
	Start string `json:"inicio"`
	End   string `json:"fim"`
}

// EventSales is one row of a sales report.
type EventSales struct {
	Event    string  `json:"evento"`
	Quantity int     `json:"quantidade"`
	Revenue  float64 `json:"receita"`
}

// SalesReport aggregates sales over a period.
type SalesReport struct {
	ByEvent      []EventSales `json:"vendas_por_evento"`
	TotalSales   int          `json:"total_vendas"`
	TotalRevenue float64      `json:"total_receita"`
	Period       ReportPeriod `json:"periodo"`
}
