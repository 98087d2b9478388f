package events

import (
	"fmt"
	"net/url"
	"strings"

	"eventstay/pkg/locale"
	"eventstay/pkg/model"
	"eventstay/pkg/sanitizer"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "January 2, 2006"

// Notification is what the organiser receives about a booking: the text and
// ready-made WhatsApp and e-mail links carrying it.
type Notification struct {
	Type      Type   `json:"type"`
	BookingID string `json:"booking_id"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	WhatsApp  string `json:"whatsapp,omitempty"`
	Email     string `json:"email"`
}

var headlines = map[Type]string{
	BookingCreated:   "Is this still available?",
	BookingConfirmed: "This booking is now confirmed.",
	BookingCancelled: "This booking has been cancelled.",
	BookingExpired:   "This booking expired before it was confirmed.",
}

func Compose(cfg model.EventConfig, event Event) Notification {
	b := event.Booking
	title := event.PropertyTitle
	if title == "" {
		title = event.PropertyID
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello, my name is %s.\n\n", b.GuestName)
	fmt.Fprintf(&sb, "I want to book: %s\n", title)
	fmt.Fprintf(&sb, "For the program: %s\n", cfg.EventName)
	fmt.Fprintf(&sb, "Venue: %s\n", cfg.VenueName)
	fmt.Fprintf(&sb, "Check-in: %s\n", b.CheckIn.Format(dateLayout))
	fmt.Fprintf(&sb, "Check-out: %s\n", b.CheckOut.Format(dateLayout))
	fmt.Fprintf(&sb, "Units: %d\n", b.Units)
	fmt.Fprintf(&sb, "Driver: %s\n", driverLine(b))
	fmt.Fprintf(&sb, "Total: %s\n\n", totalLine(cfg.Currency, b.Price))
	sb.WriteString(headlines[event.Type])

	text := sb.String()
	subject := fmt.Sprintf("Booking Request - %s for %s", title, cfg.EventName)

	n := Notification{
		Type:      event.Type,
		BookingID: b.ID,
		Subject:   subject,
		Message:   text,
		Email:     "mailto:?subject=" + componentEscape(subject) + "&body=" + componentEscape(text),
	}
	if target := sanitizer.WhatsAppTarget(cfg.WhatsAppNumber); target != "" {
		n.WhatsApp = "https://wa.me/" + target + "?text=" + url.QueryEscape(text)
	}
	return n
}

// componentEscape escapes s for a mailto query value. Spaces become %20
// since mail clients do not read + as a space.
func componentEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func driverLine(b model.Booking) string {
	if !b.DriverService {
		return "No"
	}
	tier := string(b.CarTier)
	if tier == "" {
		tier = string(model.CarStandard)
	}
	return fmt.Sprintf("Yes - %s%s Car (Airport pickup, daily event transfers, airport drop-off)",
		strings.ToUpper(tier[:1]), tier[1:])
}

func totalLine(currency string, q model.Quote) string {
	if q.QuotePending {
		return FormatMoney(currency, q.Total) + " + Luxury car service (price to be discussed)"
	}
	return FormatMoney(currency, q.Total)
}

// FormatMoney renders amount with digit grouping, e.g. ₦270,000.
func FormatMoney(currency string, amount model.Money) string {
	country, known := locale.ForCurrency(currency)
	tag := language.English
	if known {
		tag = country.Language
	}
	digits := message.NewPrinter(tag).Sprintf("%d", int64(amount))
	switch {
	case known:
		return country.CurrencySymbol + digits
	case currency == "":
		return digits
	}
	return currency + " " + digits
}
