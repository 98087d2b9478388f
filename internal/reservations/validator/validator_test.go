package validator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"eventstay/pkg/logger"
	"eventstay/pkg/model"
)

var checkIn = time.Date(2026, 12, 18, 14, 0, 0, 0, time.UTC)

func validReservation() *model.ReservationRequest {
	return &model.ReservationRequest{
		PropertyID:    "villa-1",
		GuestName:     "Adaeze O'Neil-Okafor",
		CheckIn:       checkIn,
		CheckOut:      checkIn.Add(72 * time.Hour),
		Units:         2,
		DriverService: true,
		CarTier:       model.CarComfort,
	}
}

func TestValidateReservation(t *testing.T) {
	v := NewReservationValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(*model.ReservationRequest)
		wantField string
	}{
		{"valid", func(*model.ReservationRequest) {}, ""},
		{"valid without driver", func(r *model.ReservationRequest) { r.DriverService = false; r.CarTier = "" }, ""},
		{"missing property", func(r *model.ReservationRequest) { r.PropertyID = "" }, "property_id"},
		{"short guest name", func(r *model.ReservationRequest) { r.GuestName = "A" }, "guest_name"},
		{"guest name with markup", func(r *model.ReservationRequest) { r.GuestName = "<script>" }, "guest_name"},
		{"zero units", func(r *model.ReservationRequest) { r.Units = 0 }, "units"},
		{"negative units", func(r *model.ReservationRequest) { r.Units = -1 }, "units"},
		{"check-out equals check-in", func(r *model.ReservationRequest) { r.CheckOut = r.CheckIn }, "check_out"},
		{"check-out before check-in", func(r *model.ReservationRequest) { r.CheckOut = r.CheckIn.Add(-time.Hour) }, "check_out"},
		{"missing check-in", func(r *model.ReservationRequest) { r.CheckIn = time.Time{} }, "check_in"},
		{"unknown tier", func(r *model.ReservationRequest) { r.CarTier = "helicopter" }, "car_tier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validReservation()
			tt.mutate(req)

			err := v.ValidateReservation(req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateReservation() unexpected error = %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if _, ok := verrs.Details()[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestValidateReservation_MessagesUseJSONNames(t *testing.T) {
	v := NewReservationValidator(logger.Discard())
	req := validReservation()
	req.CheckOut = req.CheckIn

	err := v.ValidateReservation(req)
	if err == nil || !strings.Contains(err.Error(), "check_out must be after check_in") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestValidateQuote(t *testing.T) {
	v := NewReservationValidator(logger.Discard())

	ok := &model.QuoteRequest{PropertyID: "villa-1", CheckIn: checkIn, CheckOut: checkIn.Add(24 * time.Hour), Units: 1}
	if err := v.ValidateQuote(ok); err != nil {
		t.Errorf("ValidateQuote() unexpected error = %v", err)
	}

	bad := *ok
	bad.Units = 0
	if err := v.ValidateQuote(&bad); err == nil {
		t.Errorf("ValidateQuote() expected error for zero units")
	}
}

func TestValidateProperty(t *testing.T) {
	v := NewReservationValidator(logger.Discard())

	tests := []struct {
		name    string
		req     model.PropertyCreate
		wantErr bool
	}{
		{"valid", model.PropertyCreate{Title: "Lagoon Villa", PricePerNight: 20000, TotalUnits: 4}, false},
		{"no units is allowed", model.PropertyCreate{Title: "Closed Wing", TotalUnits: 0}, false},
		{"missing title", model.PropertyCreate{PricePerNight: 20000, TotalUnits: 4}, true},
		{"negative price", model.PropertyCreate{Title: "Lagoon Villa", PricePerNight: -1, TotalUnits: 4}, true},
		{"negative units", model.PropertyCreate{Title: "Lagoon Villa", TotalUnits: -4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateProperty(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProperty() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUnitsOverride(t *testing.T) {
	v := NewReservationValidator(logger.Discard())

	if err := v.ValidateUnitsOverride(&model.UnitsOverride{TotalUnits: 5, AvailableUnits: 5}); err != nil {
		t.Errorf("unexpected error = %v", err)
	}

	err := v.ValidateUnitsOverride(&model.UnitsOverride{TotalUnits: 2, AvailableUnits: 3})
	if err == nil || !strings.Contains(err.Error(), "available_units must not exceed total_units") {
		t.Errorf("expected ltefield error, got %v", err)
	}
}
