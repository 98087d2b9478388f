package model

// EventConfig describes the event the lodging is sold for. It is read once at
// startup and does not change while the service runs. Dates are YYYY-MM-DD.
type EventConfig struct {
	EventName                string `json:"event_name"`
	VenueName                string `json:"venue_name"`
	StartDate                string `json:"start_date"`
	EndDate                  string `json:"end_date"`
	WhatsAppNumber           string `json:"whatsapp_number,omitempty"`
	DriverCostStandardPerDay Money  `json:"driver_cost_standard_per_day"`
	Currency                 string `json:"currency"`
}
