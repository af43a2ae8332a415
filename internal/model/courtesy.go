package model

import "time"

// CourtesyStatus is derived from courtesy fields on every read.
type CourtesyStatus string

const (
	CourtesyActive  CourtesyStatus = "active"
	CourtesyUsed    CourtesyStatus = "used"
	CourtesyExpired CourtesyStatus = "expired"
	CourtesyPending CourtesyStatus = "pending"
)

// Ref is a loosely typed reference to a related entity.
type Ref struct {
	ID   string
	Name string
}

// Courtesy is a complimentary ticket issued to a recipient.
type Courtesy struct {
	ID        string
	Event     Ref
	Ticket    Ref
	Lot       Ref
	Recipient Ref
	EventID   string
	CreatedAt *time.Time
	Status    string
	UsedAt    *time.Time
	ExpiresAt *time.Time
	Quantity  int
	Notes     string
}

// CourtesySummary pairs a courtesy with its derived status for list screens.
type CourtesySummary struct {
	Courtesy      Courtesy
	Status        CourtesyStatus
	RecipientName string
	TicketName    string
}

// SendCourtesyParams is the payload for dispatching courtesies.
type SendCourtesyParams struct {
	CourtesyID string   `json:"cortesia_id"`
	Quantity   int      `json:"quantidade"`
	Recipients []string `json:"destinatarios"`
}
