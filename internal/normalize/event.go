package normalize

import (
	"encoding/json"

	"github.com/devpureza/liga-expo/internal/model"
)

type eventDTO struct {
	ID          flexString `json:"id"`
	Name        string     `json:"nome"`
	Date        string     `json:"data_evento"`
	Status      flexString `json:"status"`
	Venue       string     `json:"nome_local"`
	City        string     `json:"cidade"`
	State       string     `json:"estado"`
	Description string     `json:"descricao"`
	StartDate   string     `json:"data_inicio"`
	EndDate     string     `json:"data_fim"`
	StartTime   string     `json:"horario_inicio"`
	EndTime     string     `json:"horario_fim"`
	Capacity    flexInt    `json:"capacidade_maxima"`
	SalesActive flexBool   `json:"vendas_ativas"`
	ImageURL    string     `json:"imagem_url"`
}

var eventShape = HasFields("id", "nome")

func (d eventDTO) toModel() model.Event {
	return model.Event{
		ID:          string(d.ID),
		Name:        d.Name,
		Date:        parseTime(d.Date),
		Status:      string(d.Status),
		Venue:       d.Venue,
		City:        d.City,
		State:       d.State,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		Capacity:    d.Capacity.value,
		SalesActive: bool(d.SalesActive),
		ImageURL:    d.ImageURL,
	}
}

// Events normalizes an event list response.
func Events(raw json.RawMessage) ([]model.Event, error) {
	items, err := List(raw, "eventos", eventShape, "Erro ao carregar eventos")
	if err != nil {
		return nil, err
	}
	events := make([]model.Event, 0, len(items))
	for _, item := range items {
		var dto eventDTO
		if err := decodeLenient(item, &dto); err != nil {
			continue
		}
		events = append(events, dto.toModel())
	}
	return events, nil
}

// Event normalizes an event details response.
func Event(raw json.RawMessage) (model.Event, error) {
	item, err := One(raw, "evento", eventShape, "Erro ao carregar detalhes do evento")
	if err != nil {
		return model.Event{}, err
	}
	var dto eventDTO
	if err := decodeLenient(item, &dto); err != nil {
		return model.Event{}, model.NewShapeError(model.MsgInvalidShape)
	}
	return dto.toModel(), nil
}

type entryTotalsDTO struct {
	TotalTickets     flexInt `json:"total_bilhetes"`
	RemainingTickets flexInt `json:"bilhetes_restantes"`
	UsedTickets      flexInt `json:"bilhetes_usuados"`
}

// EntryTotals normalizes the gate check-in totals of an event.
func EntryTotals(raw json.RawMessage) (model.EntryTotals, error) {
	item, err := One(raw, "totalizadores", HasAnyField("total_bilhetes"), "Erro ao carregar totalizadores")
	if err != nil {
		return model.EntryTotals{}, err
	}
	var dto entryTotalsDTO
	if err := decodeLenient(item, &dto); err != nil {
		return model.EntryTotals{}, model.NewShapeError(model.MsgInvalidShape)
	}
	return model.EntryTotals{
		TotalTickets:     dto.TotalTickets.value,
		RemainingTickets: dto.RemainingTickets.value,
		UsedTickets:      dto.UsedTickets.value,
	}, nil
}
