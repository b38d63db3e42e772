package inquiry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_NightsMatchCalendarSpan(t *testing.T) {
	starts := []Date{
		DateOf(2025, time.January, 1),
		DateOf(2025, time.March, 8), // US daylight saving starts overnight
		DateOf(2025, time.October, 31),
		DateOf(2024, time.February, 28),
		DateOf(2025, time.December, 30),
	}

	for _, start := range starts {
		for n := 1; n <= 45; n++ {
			d := NewDraft(nil)
			d.SetCheckIn(start)
			d.SetCheckOut(start.AddDays(n))
			require.Equal(t, n, d.Summary().Nights, "start %s n %d", start, n)
		}
	}
}

func TestSummarize_NonPositiveSpanIsZero(t *testing.T) {
	start := DateOf(2025, time.June, 10)

	for _, n := range []int{0, -1, -7} {
		d := NewDraft(nil)
		d.SelectRoom("ocean")
		d.SetCheckIn(start)
		d.SetCheckOut(start.AddDays(n))

		s := d.Summary()
		assert.Zero(t, s.Nights)
		assert.Zero(t, s.EstimatedTotal)
		assert.Equal(t, Dollars(389), s.RoomRate)
	}
}

func TestSummarize_UnsetDates(t *testing.T) {
	d := NewDraft(nil)
	d.SelectRoom("harbor")
	d.SetCheckOut(DateOf(2025, time.June, 4))

	s := d.Summary()
	assert.Zero(t, s.Nights)
	assert.Zero(t, s.EstimatedTotal)

	d = NewDraft(nil)
	d.SetCheckIn(DateOf(2025, time.June, 1))
	s = d.Summary()
	assert.Zero(t, s.Nights)
	assert.Zero(t, s.RoomRate)
	assert.Empty(t, s.RoomName)
}

func TestSummarize_TotalIsRateTimesNights(t *testing.T) {
	start := DateOf(2025, time.July, 1)
	for _, room := range DefaultCatalog().Rooms() {
		for n := 0; n <= 14; n++ {
			d := NewDraft(nil)
			require.True(t, d.SelectRoom(room.ID))
			d.SetCheckIn(start)
			d.SetCheckOut(start.AddDays(n))

			s := d.Summary()
			assert.Equal(t, room.NightlyRate, s.RoomRate)
			assert.Equal(t, room.NightlyRate.Mul(n), s.EstimatedTotal, "%s for %d nights", room.ID, n)
		}
	}
}

func TestSummarize_HarborThreeNights(t *testing.T) {
	d := NewDraft(nil)
	d.SetCheckIn(DateOf(2025, time.June, 1))
	d.SetCheckOut(DateOf(2025, time.June, 4))
	d.SelectRoom("harbor")

	s := d.Summary()
	assert.Equal(t, 3, s.Nights)
	assert.Equal(t, Dollars(259), s.RoomRate)
	assert.Equal(t, Dollars(777), s.EstimatedTotal)
	assert.Equal(t, "Harbor View Room", s.RoomName)
	assert.Equal(t, "$777.00", s.EstimatedTotal.String())
}

func TestSummarize_RecomputedOnEveryEdit(t *testing.T) {
	d := NewDraft(nil)
	d.SetCheckIn(DateOf(2025, time.June, 1))
	d.SetCheckOut(DateOf(2025, time.June, 3))
	d.SelectRoom("garden")
	assert.Equal(t, Dollars(398), d.Summary().EstimatedTotal)

	d.SelectRoom("penthouse")
	assert.Equal(t, Dollars(1798), d.Summary().EstimatedTotal)

	d.SetCheckOut(DateOf(2025, time.June, 2))
	assert.Equal(t, Dollars(899), d.Summary().EstimatedTotal)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(0).String())
	assert.Equal(t, "$199.00", Dollars(199).String())
	assert.Equal(t, "$1,234.50", Money(123450).String())
	assert.Equal(t, "$1,000,000.00", Dollars(1000000).String())
	assert.Equal(t, "-$5.25", Money(-525).String())

	out, err := json.Marshal(Summary{Nights: 3, RoomRate: Dollars(259), EstimatedTotal: Money(77750)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"nights":3,"roomRate":259,"estimatedTotal":777.5}`, string(out))

	var m Money
	require.NoError(t, json.Unmarshal([]byte("389.99"), &m))
	assert.Equal(t, Money(38999), m)
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, DateOf(2025, time.June, 1), d)
	assert.Equal(t, 3, d.DaysUntil(DateOf(2025, time.June, 4)))
	assert.Equal(t, -1, d.DaysUntil(DateOf(2025, time.May, 31)))

	_, err = ParseDate("06/01/2025")
	assert.Error(t, err)

	var parsed struct {
		CheckIn  Date `json:"checkIn"`
		CheckOut Date `json:"checkOut"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"checkIn":"2025-06-01","checkOut":""}`), &parsed))
	assert.Equal(t, d, parsed.CheckIn)
	assert.True(t, parsed.CheckOut.IsZero())

	out, err := json.Marshal(parsed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"checkIn":"2025-06-01","checkOut":""}`, string(out))

	assert.True(t, Date{}.AddDays(3).IsZero())
}

func TestDate_LongSpansAreExact(t *testing.T) {
	in := DateOf(2025, time.June, 1)
	out := DateOf(2400, time.June, 1)
	assert.Equal(t, 136966, in.DaysUntil(out))
	assert.Equal(t, -136966, out.DaysUntil(in))

	d := validDraft(in)
	d.SetCheckIn(in)
	d.SetCheckOut(out)
	assert.Equal(t, 136966, d.Summary().Nights)
}

func TestDate_FirstDayOfYearOneIsSet(t *testing.T) {
	d, err := ParseDate("0001-01-01")
	require.NoError(t, err)
	assert.False(t, d.IsZero())
	assert.Equal(t, "0001-01-01", d.String())
	assert.Equal(t, 1, d.DaysUntil(d.AddDays(1)))
	assert.True(t, Date{}.IsZero())
}

func TestToday_UsesClockLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	clock := Clock(func() time.Time { return time.Date(2025, time.June, 1, 23, 30, 0, 0, ny) })
	assert.Equal(t, DateOf(2025, time.June, 1), Today(clock))
}
