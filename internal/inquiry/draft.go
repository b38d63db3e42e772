package inquiry

import (
	"github.com/diagnosis/lighthouse-point/internal/utils"
)

// Guest count limits offered by the form.
const (
	MinAdults       = 1
	MaxAdults       = 6
	DefaultAdults   = 2
	MinChildren     = 0
	MaxChildren     = 4
	MaxRequestRunes = 2000
)

// Fields is a read-only copy of everything the guest has entered.
type Fields struct {
	CheckIn         Date     `json:"checkIn"`
	CheckOut        Date     `json:"checkOut"`
	Adults          int      `json:"adults"`
	Children        int      `json:"children"`
	Occasion        Occasion `json:"occasion"`
	SelectedRoomID  string   `json:"selectedRoomId,omitempty"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	SpecialRequests string   `json:"specialRequests,omitempty"`
	ReceiveOffers   bool     `json:"receiveOffers"`
	AgreeTerms      bool     `json:"agreeTerms"`
}

// Draft holds an in-progress inquiry. Setters never fail: out-of-range counts are
// clamped and unknown rooms are ignored. Once the owning flow confirms, the draft
// is frozen and every setter is a no-op.
type Draft struct {
	catalog *Catalog
	f       Fields
	frozen  bool
}

func NewDraft(catalog *Catalog) *Draft {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Draft{
		catalog: catalog,
		f: Fields{
			Adults:   DefaultAdults,
			Children: MinChildren,
			Occasion: OccasionNone,
		},
	}
}

func (d *Draft) Fields() Fields {
	return d.f
}

func (d *Draft) Catalog() *Catalog {
	return d.catalog
}

func (d *Draft) Frozen() bool {
	return d.frozen
}

func (d *Draft) freeze() {
	d.frozen = true
}

func (d *Draft) SetCheckIn(date Date) {
	if d.frozen {
		return
	}
	d.f.CheckIn = date
}

func (d *Draft) SetCheckOut(date Date) {
	if d.frozen {
		return
	}
	d.f.CheckOut = date
}

// CheckInMin is the earliest check-in the form offers.
func (d *Draft) CheckInMin(today Date) Date {
	return today
}

// CheckOutMin is the earliest check-out the form offers: the night after check-in,
// or today when no check-in is set. The stored check-out is left alone.
func (d *Draft) CheckOutMin(today Date) Date {
	if d.f.CheckIn.IsZero() {
		return today
	}
	return d.f.CheckIn.AddDays(1)
}

func (d *Draft) SetAdults(n int) {
	if d.frozen {
		return
	}
	d.f.Adults = clamp(n, MinAdults, MaxAdults)
}

func (d *Draft) IncrementAdults() { d.SetAdults(d.f.Adults + 1) }
func (d *Draft) DecrementAdults() { d.SetAdults(d.f.Adults - 1) }

func (d *Draft) SetChildren(n int) {
	if d.frozen {
		return
	}
	d.f.Children = clamp(n, MinChildren, MaxChildren)
}

func (d *Draft) IncrementChildren() { d.SetChildren(d.f.Children + 1) }
func (d *Draft) DecrementChildren() { d.SetChildren(d.f.Children - 1) }

// SetOccasion falls back to None for text outside the known list.
func (d *Draft) SetOccasion(s string) {
	if d.frozen {
		return
	}
	o, err := ParseOccasion(s)
	if err != nil {
		o = OccasionNone
	}
	d.f.Occasion = o
}

// SelectRoom reports whether id named a catalog room. Other fields are untouched.
func (d *Draft) SelectRoom(id string) bool {
	if d.frozen || !d.catalog.Has(id) {
		return false
	}
	d.f.SelectedRoomID = id
	return true
}

func (d *Draft) SetFirstName(s string) {
	if !d.frozen {
		d.f.FirstName = utils.NormalizeString(s)
	}
}

func (d *Draft) SetLastName(s string) {
	if !d.frozen {
		d.f.LastName = utils.NormalizeString(s)
	}
}

func (d *Draft) SetEmail(s string) {
	if !d.frozen {
		d.f.Email = utils.NormalizeEmail(s)
	}
}

func (d *Draft) SetPhone(s string) {
	if !d.frozen {
		d.f.Phone = utils.NormalizeString(s)
	}
}

func (d *Draft) SetSpecialRequests(s string) {
	if !d.frozen {
		d.f.SpecialRequests = utils.Clip(utils.NormalizeString(s), MaxRequestRunes)
	}
}

func (d *Draft) SetReceiveOffers(v bool) {
	if !d.frozen {
		d.f.ReceiveOffers = v
	}
}

func (d *Draft) SetAgreeTerms(v bool) {
	if !d.frozen {
		d.f.AgreeTerms = v
	}
}

// Summary recomputes the pricing summary from the current fields.
func (d *Draft) Summary() Summary {
	return Summarize(d, d.catalog)
}

// Validate collects every required-field failure against the given day.
func (d *Draft) Validate(today Date) error {
	ve := newValidationError()
	f := d.f

	switch {
	case f.CheckIn.IsZero():
		ve.addError("checkIn", "check-in date is required")
	case f.CheckIn.Before(today):
		ve.addError("checkIn", "check-in date cannot be in the past")
	}

	switch {
	case f.CheckOut.IsZero():
		ve.addError("checkOut", "check-out date is required")
	case !f.CheckIn.IsZero() && !f.CheckOut.After(f.CheckIn):
		ve.addError("checkOut", "check-out must be after check-in")
	}

	if f.Adults < MinAdults || f.Adults > MaxAdults {
		ve.addError("adults", "adults must be between 1 and 6")
	}
	if f.Children < MinChildren || f.Children > MaxChildren {
		ve.addError("children", "children must be between 0 and 4")
	}

	if f.SelectedRoomID == "" {
		ve.addError("selectedRoomId", "please select a room")
	} else if !d.catalog.Has(f.SelectedRoomID) {
		ve.addError("selectedRoomId", "selected room is not available")
	}

	if f.FirstName == "" {
		ve.addError("firstName", "first name is required")
	}
	if f.LastName == "" {
		ve.addError("lastName", "last name is required")
	}

	if f.Email == "" {
		ve.addError("email", "email is required")
	} else if !utils.IsValidEmail(f.Email) {
		ve.addError("email", "provide a valid email address")
	}

	if f.Phone == "" {
		ve.addError("phone", "phone is required")
	}

	if !f.AgreeTerms {
		ve.addError("agreeTerms", "you must agree to the terms")
	}

	if ve.empty() {
		return nil
	}
	return ve
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
