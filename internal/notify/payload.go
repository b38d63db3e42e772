package notify

import (
	"github.com/diagnosis/lighthouse-point/internal/inquiry"
)

// Payload is the JSON body the mail relay accepts on /api/booking-notify.
type Payload struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	Room            string `json:"room"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	SpecialRequests string `json:"specialRequests"`

	// Newer relays also record these; older ones ignore them.
	Reference     string `json:"reference,omitempty"`
	Occasion      string `json:"occasion,omitempty"`
	ReceiveOffers bool   `json:"receiveOffers,omitempty"`
}

// Response is what the relay answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func FromNotification(n inquiry.Notification) Payload {
	f := n.Fields
	p := Payload{
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Email:           f.Email,
		Phone:           f.Phone,
		CheckIn:         f.CheckIn.String(),
		CheckOut:        f.CheckOut.String(),
		Room:            n.RoomName,
		Adults:          f.Adults,
		Children:        f.Children,
		SpecialRequests: f.SpecialRequests,
		Reference:       n.Reference,
		ReceiveOffers:   f.ReceiveOffers,
	}
	if f.Occasion != inquiry.OccasionNone {
		p.Occasion = string(f.Occasion)
	}
	return p
}
