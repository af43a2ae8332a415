package model

import "time"

// Event is a ticketed event managed by the operator.
type Event struct {
	ID          string
	Name        string
	Date        *time.Time
	Status      string
	Venue       string
	City        string
	State       string
	Description string
	StartDate   string
	EndDate     string
	StartTime   string
	EndTime     string
	Capacity    int
	SalesActive bool
	ImageURL    string
}

// UpdateEventParams carries the editable event fields. Empty fields are omitted.
type UpdateEventParams struct {
	Name        string `json:"nome,omitempty"`
	Description string `json:"descricao,omitempty"`
	Date        string `json:"data_evento,omitempty"`
	Venue       string `json:"nome_local,omitempty"`
	City        string `json:"cidade,omitempty"`
	State       string `json:"estado,omitempty"`
}

// EntryTotals summarises gate check-ins for an event.
type EntryTotals struct {
	TotalTickets     int `json:"total_bilhetes"`
	RemainingTickets int `json:"bilhetes_restantes"`
	UsedTickets      int `json:"bilhetes_usuados"`
}
