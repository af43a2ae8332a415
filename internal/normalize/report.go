package normalize

import (
	"encoding/json"

	"github.com/devpureza/liga-expo/internal/model"
)

type salesReportDTO struct {
	ByEvent []struct {
		Event    flexString `json:"evento"`
		Quantity flexInt    `json:"quantidade"`
		Revenue  flexFloat  `json:"receita"`
	} `json:"vendas_por_evento"`
	TotalSales   flexInt   `json:"total_vendas"`
	TotalRevenue flexFloat `json:"total_receita"`
	Period       struct {
		Start string `json:"inicio"`
		End   string `json:"fim"`
	} `json:"periodo"`
}

// SalesReport normalizes a sales report response.
func SalesReport(raw json.RawMessage) (model.SalesReport, error) {
	item, err := One(raw, "relatorio", HasAnyField("vendas_por_evento", "total_vendas"), "Erro ao carregar relatório de vendas")
	if err != nil {
		return model.SalesReport{}, err
	}
	var dto salesReportDTO
	if err := decodeLenient(item, &dto); err != nil {
		return model.SalesReport{}, model.NewShapeError(model.MsgInvalidShape)
	}

	report := model.SalesReport{
		ByEvent:      make([]model.EventSales, 0, len(dto.ByEvent)),
		TotalSales:   dto.TotalSales.value,
		TotalRevenue: float64(dto.TotalRevenue),
		Period:       model.ReportPeriod{Start: dto.Period.Start, End: dto.Period.End},
	}
	for _, row := range dto.ByEvent {
		report.ByEvent = append(report.ByEvent, model.EventSales{
			Event:    string(row.Event),
			Quantity: row.Quantity.value,
			Revenue:  float64(row.Revenue),
		})
	}
	return report, nil
}
