package locale

import (
	"testing"
)

func TestForCurrency(t *testing.T) {
	tests := []struct {
		name       string
		currency   string
		wantCode   string
		wantSymbol string
		wantOK     bool
	}{
		{name: "naira", currency: "NGN", wantCode: "NG", wantSymbol: "₦", wantOK: true},
		{name: "lower case", currency: " usd ", wantCode: "US", wantSymbol: "$", wantOK: true},
		{name: "euro", currency: "EUR", wantCode: "DE", wantSymbol: "€", wantOK: true},
		{name: "unknown", currency: "XYZ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ForCurrency(tt.currency)
			if ok != tt.wantOK {
				t.Fatalf("ForCurrency(%q) ok = %v, want %v", tt.currency, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Code != tt.wantCode || got.CurrencySymbol != tt.wantSymbol {
				t.Errorf("ForCurrency(%q) = %s %s, want %s %s", tt.currency, got.Code, got.CurrencySymbol, tt.wantCode, tt.wantSymbol)
			}
		})
	}
}

func TestInferCountryFromPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		wantCode string
		wantOK   bool
	}{
		{name: "nigerian number", phone: "+2348012345678", wantCode: "NG", wantOK: true},
		{name: "without plus", phone: "2348012345678", wantCode: "NG", wantOK: true},
		{name: "ghana beats shorter prefixes", phone: "+233201234567", wantCode: "GH", wantOK: true},
		{name: "us number", phone: "+12125551234", wantCode: "US", wantOK: true},
		{name: "unknown", phone: "+999123", wantOK: false},
		{name: "empty", phone: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := InferCountryFromPhone(tt.phone)
			if ok != tt.wantOK {
				t.Fatalf("InferCountryFromPhone(%q) ok = %v, want %v", tt.phone, ok, tt.wantOK)
			}
			if ok && got.Code != tt.wantCode {
				t.Errorf("InferCountryFromPhone(%q) = %s, want %s", tt.phone, got.Code, tt.wantCode)
			}
		})
	}
}
