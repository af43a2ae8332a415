package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/devpureza/liga-expo/internal/logger"
	"github.com/devpureza/liga-expo/internal/model"
	"github.com/devpureza/liga-expo/internal/normalize"
	"github.com/devpureza/liga-expo/internal/status"
)

// Courtesies manages complimentary tickets.
type Courtesies struct {
	api    model.Requester
	logger *logger.Logger
	now    func() time.Time
}

func NewCourtesies(api model.Requester, logger *logger.Logger) *Courtesies {
	return &Courtesies{api: api, logger: logger, now: time.Now}
}

func (c *Courtesies) All(ctx context.Context) ([]model.Courtesy, error) {
	raw, err := c.api.Do(ctx, model.EndpointCourtesies, model.APIRequest{})
	if err != nil {
		c.logger.Error("Courtesies service: failed to list courtesies",
			"error", err.Error())
		return nil, err
	}
	return normalize.Courtesies(raw)
}

// ByEvent matches on the nested event id or on evento_id.
func (c *Courtesies) ByEvent(ctx context.Context, eventID string) ([]model.Courtesy, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Courtesy, 0, len(all))
	for _, courtesy := range all {
		if courtesy.Event.ID == eventID || courtesy.EventID == eventID {
			out = append(out, courtesy)
		}
	}
	return out, nil
}

func (c *Courtesies) Summaries(ctx context.Context, eventID string) ([]model.CourtesySummary, error) {
	var (
		list []model.Courtesy
		err  error
	)
	if eventID == "" {
		list, err = c.All(ctx)
	} else {
		list, err = c.ByEvent(ctx, eventID)
	}
	if err != nil {
		return nil, err
	}

	now := c.now()
	out := make([]model.CourtesySummary, 0, len(list))
	for _, courtesy := range list {
		out = append(out, model.CourtesySummary{
			Courtesy:      courtesy,
			Status:        status.Courtesy(courtesy, now),
			RecipientName: RecipientName(courtesy),
			TicketName:    TicketName(courtesy),
		})
	}
	return out, nil
}

// Send dispatches courtesies to recipients and returns the backend message.
func (c *Courtesies) Send(ctx context.Context, params model.SendCourtesyParams) (string, error) {
	params.CourtesyID = strings.TrimSpace(params.CourtesyID)
	recipients := params.Recipients[:0:0]
	for _, r := range params.Recipients {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	params.Recipients = recipients

	switch {
	case params.CourtesyID == "":
		return "", fmt.Errorf("%w: cortesia é obrigatória", model.ErrInvalidInput)
	case params.Quantity <= 0:
		return "", fmt.Errorf("%w: quantidade deve ser maior que zero", model.ErrInvalidInput)
	case len(params.Recipients) == 0:
		return "", fmt.Errorf("%w: informe ao menos um destinatário", model.ErrInvalidInput)
	}

	raw, err := c.api.Do(ctx, model.EndpointSendCourtesy, model.APIRequest{Method: http.MethodPost, Body: params})
	if err != nil {
		c.logger.Error("Courtesies service: failed to send courtesy",
			"courtesy_id", params.CourtesyID,
			"error", err.Error())
		return "", err
	}
	if err := normalize.CheckFailure(raw, "Erro ao disparar cortesia"); err != nil {
		return "", err
	}

	c.logger.Info("Courtesies service: courtesy sent",
		"courtesy_id", params.CourtesyID,
		"recipients", len(params.Recipients))
	return normalize.Message(raw), nil
}

// RecipientName is the display name of the courtesy recipient.
func RecipientName(c model.Courtesy) string {
	if c.Recipient.Name != "" {
		return c.Recipient.Name
	}
	if c.Recipient.ID != "" {
		return model.DefaultUserName
	}
	return "Usuário não identificado"
}

// TicketName is the display name of the courtesy ticket.
func TicketName(c model.Courtesy) string {
	if c.Ticket.Name != "" {
		return c.Ticket.Name
	}
	if c.Ticket.ID != "" {
		return "Ingresso"
	}
	return "Ingresso não especificado"
}
