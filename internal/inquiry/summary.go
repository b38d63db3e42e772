package inquiry

type Summary struct {
	Nights         int    `json:"nights"`
	RoomRate       Money  `json:"roomRate"`
	EstimatedTotal Money  `json:"estimatedTotal"`
	RoomName       string `json:"roomName,omitempty"`
}

// Summarize derives nights and the estimated total from the draft. Day counts use
// calendar dates only, so a non-positive span or a missing date gives zero nights.
func Summarize(d *Draft, catalog *Catalog) Summary {
	f := d.Fields()

	var s Summary
	if !f.CheckIn.IsZero() && !f.CheckOut.IsZero() {
		s.Nights = max(0, f.CheckIn.DaysUntil(f.CheckOut))
	}

	if catalog == nil {
		catalog = d.Catalog()
	}
	if room, err := catalog.Lookup(f.SelectedRoomID); err == nil {
		s.RoomRate = room.NightlyRate
		s.RoomName = room.Name
	}

	s.EstimatedTotal = s.RoomRate.Mul(s.Nights)
	return s
}
