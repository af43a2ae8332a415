package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/devpureza/liga-expo/internal/model"
)

// ref decodes a related entity sent either as an object, a bare name or a bare id.
type ref model.Ref

func (r *ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '{':
		var obj struct {
			ID   flexString `json:"id"`
			Nome string     `json:"nome"`
			Name string     `json:"name"`
		}
		if err := decodeLenient(data, &obj); err != nil {
			return nil
		}
		r.ID = string(obj.ID)
		r.Name = firstNonEmpty(obj.Nome, obj.Name)
	case '"':
		var s string
		_ = json.Unmarshal(data, &s)
		r.Name = s
	default:
		var s flexString
		_ = s.UnmarshalJSON(data)
		r.ID = string(s)
	}
	return nil
}

type courtesyDTO struct {
	ID            flexString `json:"id"`
	Event         ref        `json:"evento"`
	Ticket        ref        `json:"ingresso"`
	Lot           ref        `json:"lote"`
	Recipient     ref        `json:"usuario"`
	EventID       flexString `json:"evento_id"`
	TicketID      flexString `json:"ingresso_id"`
	RecipientID   flexString `json:"usuario_id"`
	RecipientName string     `json:"nome_usuario"`
	TicketName    string     `json:"nome_ingresso"`
	CreatedAt     string     `json:"data_criacao"`
	CreatedAtAlt  string     `json:"created_at"`
	Status        string     `json:"status"`
	UsedAt        string     `json:"data_utilizacao"`
	ExpiresAt     string     `json:"data_expiracao"`
	Quantity      flexInt    `json:"quantidade"`
	Notes         string     `json:"observacoes"`
}

var courtesyShape = HasFields("id")

func (d courtesyDTO) toModel() model.Courtesy {
	c := model.Courtesy{
		ID:        string(d.ID),
		Event:     model.Ref(d.Event),
		Ticket:    model.Ref(d.Ticket),
		Lot:       model.Ref(d.Lot),
		Recipient: model.Ref(d.Recipient),
		EventID:   firstNonEmpty(string(d.EventID), d.Event.ID),
		Status:    d.Status,
		UsedAt:    parseTime(d.UsedAt),
		ExpiresAt: parseTime(d.ExpiresAt),
		CreatedAt: parseTime(firstNonEmpty(d.CreatedAt, d.CreatedAtAlt)),
		Quantity:  d.Quantity.value,
		Notes:     d.Notes,
	}
	if c.Ticket.ID == "" {
		c.Ticket.ID = string(d.TicketID)
	}
	if c.Ticket.Name == "" {
		c.Ticket.Name = d.TicketName
	}
	if c.Recipient.ID == "" {
		c.Recipient.ID = string(d.RecipientID)
	}
	if c.Recipient.Name == "" {
		c.Recipient.Name = d.RecipientName
	}
	return c
}

// Courtesies normalizes a courtesy list response.
func Courtesies(raw json.RawMessage) ([]model.Courtesy, error) {
	items, err := List(raw, "cortesias", courtesyShape, "Erro ao carregar cortesias")
	if err != nil {
		return nil, err
	}
	courtesies := make([]model.Courtesy, 0, len(items))
	for _, item := range items {
		var dto courtesyDTO
		if err := decodeLenient(item, &dto); err != nil {
			continue
		}
		courtesies = append(courtesies, dto.toModel())
	}
	return courtesies, nil
}
