package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/normalize"
)

const defaultReportDays = 30

// Reports reads sales reports.
type Reports struct {
	api    model.Requester
	logger *logger.Logger
}

func NewReports(api model.Requester, logger *logger.Logger) *Reports {
	return &Reports{api: api, logger: logger}
}

// DefaultPeriod covers the 30 days ending at now.
func DefaultPeriod(now time.Time) model.ReportPeriod {
	return model.ReportPeriod{
		Start: now.AddDate(0, 0, -defaultReportDays).Format(apiDateLayout),
		End:   now.Format(apiDateLayout),
	}
}

// Sales fetches the sales report for period.
func (r *Reports) Sales(ctx context.Context, period model.ReportPeriod) (model.SalesReport, error) {
	query := url.Values{}
	query.Set("data_inicio", period.Start)
	query.Set("data_fim", period.End)

	raw, err := r.api.Do(ctx, model.EndpointSalesReport, model.APIRequest{Query: query})
	if err != nil {
		r.logger.Error("Reports service: failed to load sales report",
			"start", period.Start,
			"end", period.End,
			"error", err.Error())
		return model.SalesReport{}, err
	}
	return normalize.SalesReport(raw)
}

// SalesForEvent returns the report row whose event name matches, ignoring case.
func (r *Reports) SalesForEvent(ctx context.Context, eventName string, period model.ReportPeriod) (model.EventSales, error) {
	report, err := r.Sales(ctx, period)
	if err != nil {
		return model.EventSales{}, err
	}
	for _, row := range report.ByEvent {
		if strings.EqualFold(row.Event, eventName) {
			return row, nil
		}
	}
	r.logger.Debug("Reports service: event not present in report",
		"event", eventName,
		"rows", len(report.ByEvent))
	return model.EventSales{}, fmt.Errorf("%w: dados de vendas não encontrados para %q", model.ErrNotFound, eventName)
}
