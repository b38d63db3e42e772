package relay

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/diagnosis/lighthouse-point/internal/notify"
	"github.com/diagnosis/lighthouse-point/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type emailData struct {
	P          notify.Payload
	HotelName  string
	HotelPhone string
	PhoneHref  template.URL
	Guests     string
	Year       int
}

func guestsLine(adults, children int) string {
	if children > 0 {
		return fmt.Sprintf("%d Adults, %d Children", adults, children)
	}
	return fmt.Sprintf("%d Adults", adults)
}

func telHref(phone string) template.URL {
	digits := utils.PhoneDigits(phone)
	if !strings.HasPrefix(digits, "+") {
		digits = "+1" + digits
	}
	return template.URL("tel:" + digits)
}

func render(name string, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func guestText(d emailData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank You, %s!\n\n", d.P.FirstName)
	b.WriteString("We've received your booking inquiry and our reservations team will confirm availability within 2 hours.\n\n")
	if d.P.Reference != "" {
		fmt.Fprintf(&b, "Reference: %s\n", d.P.Reference)
	}
	fmt.Fprintf(&b, "Room: %s\nCheck-in: %s\nCheck-out: %s\nGuests: %s\n", d.P.Room, d.P.CheckIn, d.P.CheckOut, d.Guests)
	if d.P.SpecialRequests != "" {
		fmt.Fprintf(&b, "Special Requests: %s\n", d.P.SpecialRequests)
	}
	fmt.Fprintf(&b, "\nQuestions? Call us at %s\n", d.HotelPhone)
	return b.String()
}

func staffText(d emailData) string {
	requests := d.P.SpecialRequests
	if requests == "" {
		requests = "None"
	}
	return fmt.Sprintf("New Booking Inquiry %s\n\nName: %s %s\nEmail: %s\nPhone: %s\nRoom: %s\nCheck-in: %s\nCheck-out: %s\nGuests: %d Adults, %d Children\nRequests: %s\n",
		d.P.Reference, d.P.FirstName, d.P.LastName, d.P.Email, d.P.Phone, d.P.Room, d.P.CheckIn, d.P.CheckOut, d.P.Adults, d.P.Children, requests)
}
