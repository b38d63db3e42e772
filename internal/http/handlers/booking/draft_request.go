package booking

import (
	"encoding/json"
	"net/http"

	"github.com/diagnosis/lighthouse-point/internal/http/response"
	"github.com/diagnosis/lighthouse-point/internal/inquiry"
)

// draftRequest mirrors the form. Omitted counts keep the draft defaults.
type draftRequest struct {
	CheckIn         inquiry.Date `json:"checkIn"`
	CheckOut        inquiry.Date `json:"checkOut"`
	Adults          *int         `json:"adults"`
	Children        *int         `json:"children"`
	Occasion        string       `json:"occasion"`
	SelectedRoomID  string       `json:"selectedRoomId"`
	FirstName       string       `json:"firstName"`
	LastName        string       `json:"lastName"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone"`
	SpecialRequests string       `json:"specialRequests"`
	ReceiveOffers   bool         `json:"receiveOffers"`
	AgreeTerms      bool         `json:"agreeTerms"`
}

func (in draftRequest) apply(d *inquiry.Draft) {
	d.SetCheckIn(in.CheckIn)
	d.SetCheckOut(in.CheckOut)
	if in.Adults != nil {
		d.SetAdults(*in.Adults)
	}
	if in.Children != nil {
		d.SetChildren(*in.Children)
	}
	if in.Occasion != "" {
		d.SetOccasion(in.Occasion)
	}
	if in.SelectedRoomID != "" {
		d.SelectRoom(in.SelectedRoomID)
	}
	d.SetFirstName(in.FirstName)
	d.SetLastName(in.LastName)
	d.SetEmail(in.Email)
	d.SetPhone(in.Phone)
	d.SetSpecialRequests(in.SpecialRequests)
	d.SetReceiveOffers(in.ReceiveOffers)
	d.SetAgreeTerms(in.AgreeTerms)
}

func (h *Handler) decodeDraft(w http.ResponseWriter, r *http.Request) (*inquiry.Draft, bool) {
	var in draftRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		response.WriteErrorWithDetails(w, http.StatusBadRequest, "invalid json", response.CodeInvalidInput, err.Error())
		return nil, false
	}

	d := inquiry.NewDraft(h.catalog)
	in.apply(d)
	return d, true
}
