package inquiry

import (
	"fmt"
	"slices"
	"sync"
)

// Room views used by the rooms page filter.
const (
	ViewAll    = "All"
	ViewOcean  = "Ocean View"
	ViewHarbor = "Harbor View"
	ViewGarden = "Garden"
)

type SortOrder string

const (
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

type RoomOption struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	NightlyRate Money    `json:"price"`
	Amenities   []string `json:"amenities"`
	View        string   `json:"view"`
}

func (r RoomOption) clone() RoomOption {
	r.Amenities = slices.Clone(r.Amenities)
	return r
}

// Catalog is a read-only set of rooms in display order.
type Catalog struct {
	rooms []RoomOption
	index map[string]int
}

func NewCatalog(rooms []RoomOption) (*Catalog, error) {
	c := &Catalog{
		rooms: make([]RoomOption, 0, len(rooms)),
		index: make(map[string]int, len(rooms)),
	}
	for _, r := range rooms {
		if r.ID == "" {
			return nil, fmt.Errorf("room %q has no id", r.Name)
		}
		if r.NightlyRate <= 0 {
			return nil, fmt.Errorf("room %q: nightly rate must be positive", r.ID)
		}
		if _, dup := c.index[r.ID]; dup {
			return nil, fmt.Errorf("duplicate room id %q", r.ID)
		}
		c.index[r.ID] = len(c.rooms)
		c.rooms = append(c.rooms, r.clone())
	}
	return c, nil
}

var DefaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog([]RoomOption{
		{ID: "garden", Name: "Garden Retreat", NightlyRate: Dollars(199), Amenities: []string{"Garden View", "King Bed", "Free WiFi"}, View: ViewGarden},
		{ID: "harbor", Name: "Harbor View Room", NightlyRate: Dollars(259), Amenities: []string{"Harbor View", "Queen Bed", "Balcony"}, View: ViewHarbor},
		{ID: "coastal", Name: "Coastal Deluxe King", NightlyRate: Dollars(319), Amenities: []string{"Partial Ocean View", "King Bed", "Soaking Tub"}, View: ViewOcean},
		{ID: "ocean", Name: "Ocean View Suite", NightlyRate: Dollars(389), Amenities: []string{"Ocean View", "King Bed", "Living Area"}, View: ViewOcean},
		{ID: "family", Name: "Family Seaside Suite", NightlyRate: Dollars(459), Amenities: []string{"2 Bedrooms", "Ocean View", "Kitchenette"}, View: ViewOcean},
		{ID: "penthouse", Name: "Lighthouse Penthouse", NightlyRate: Dollars(899), Amenities: []string{"360° Views", "Private Terrace", "Butler Service"}, View: ViewOcean},
	})
	if err != nil {
		panic(err)
	}
	return c
})

func (c *Catalog) Len() int {
	return len(c.rooms)
}

func (c *Catalog) Rooms() []RoomOption {
	out := make([]RoomOption, len(c.rooms))
	for i, r := range c.rooms {
		out[i] = r.clone()
	}
	return out
}

func (c *Catalog) Lookup(id string) (RoomOption, error) {
	i, ok := c.index[id]
	if !ok {
		return RoomOption{}, fmt.Errorf("%w: %q", ErrUnknownRoom, id)
	}
	return c.rooms[i].clone(), nil
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Filter returns the rooms with the given view. An empty view or ViewAll returns every room.
func (c *Catalog) Filter(view string) []RoomOption {
	if view == "" || view == ViewAll {
		return c.Rooms()
	}
	var out []RoomOption
	for _, r := range c.rooms {
		if r.View == view {
			out = append(out, r.clone())
		}
	}
	return out
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortPriceAsc:
		return SortPriceAsc, nil
	case SortPriceDesc:
		return SortPriceDesc, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// SortRooms sorts in place by nightly rate; ties keep catalog order.
func SortRooms(rooms []RoomOption, order SortOrder) {
	slices.SortStableFunc(rooms, func(a, b RoomOption) int {
		if order == SortPriceDesc {
			a, b = b, a
		}
		switch {
		case a.NightlyRate < b.NightlyRate:
			return -1
		case a.NightlyRate > b.NightlyRate:
			return 1
		default:
			return 0
		}
	})
}
