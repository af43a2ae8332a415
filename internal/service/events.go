package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/normalize"
)

// Events reads and edits the operator's events.
type Events struct {
	api    model.Requester
	logger *logger.Logger
}

func NewEvents(api model.Requester, logger *logger.Logger) *Events {
	return &Events{api: api, logger: logger}
}

// Active lists events currently on sale.
func (e *Events) Active(ctx context.Context) ([]model.Event, error) {
	raw, err := e.api.Do(ctx, model.EndpointActiveEvents, model.APIRequest{})
	if err != nil {
		e.logger.Error("Events service: failed to list active events",
			"error", err.Error())
		return nil, err
	}
	return normalize.Events(raw)
}

// Details fetches one event.
func (e *Events) Details(ctx context.Context, id string) (model.Event, error) {
	raw, err := e.api.Do(ctx, model.EventEndpoint(id), model.APIRequest{})
	if err != nil {
		e.logger.Error("Events service: failed to get event",
			"event_id", id,
			"error", err.Error())
		return model.Event{}, err
	}

	event, err := normalize.Event(raw)
	if errors.Is(err, model.ErrNotFound) {
		return model.Event{}, model.ErrEventNotFound
	}
	return event, err
}

// Update edits an event. When the backend does not echo the event back, the
// result is built from id and params.
func (e *Events) Update(ctx context.Context, id string, params model.UpdateEventParams) (model.Event, error) {
	raw, err := e.api.Do(ctx, model.EventEndpoint(id), model.APIRequest{
		Method: http.MethodPut,
		Body:   params,
	})
	if err != nil {
		e.logger.Error("Events service: failed to update event",
			"event_id", id,
			"error", err.Error())
		return model.Event{}, err
	}
	if err := normalize.CheckFailure(raw, "Erro ao atualizar evento"); err != nil {
		return model.Event{}, err
	}

	event, err := normalize.Event(raw)
	if err == nil {
		return event, nil
	}

	e.logger.Debug("Events service: update response carried no event",
		"event_id", id)
	return model.Event{
		ID:          id,
		Name:        params.Name,
		Date:        normalize.Time(params.Date),
		Description: params.Description,
		Venue:       params.Venue,
		City:        params.City,
		State:       params.State,
	}, nil
}

// EntryTotals returns gate check-in counters for an event.
func (e *Events) EntryTotals(ctx context.Context, id string) (model.EntryTotals, error) {
	raw, err := e.api.Do(ctx, model.EntryTotalsEndpoint(id), model.APIRequest{})
	if err != nil {
		e.logger.Error("Events service: failed to get entry totals",
			"event_id", id,
			"error", err.Error())
		return model.EntryTotals{}, err
	}
	return normalize.EntryTotals(raw)
}
