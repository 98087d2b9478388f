package pricing

import (
	"math"
	"testing"
	"time"

	reservationserrors "eventstay/internal/reservations/errors"
	"eventstay/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name          string
		nights, units int
		price         model.Money
		driver        bool
		tier          model.CarTier
		wantAccom     model.Money
		wantDriver    *model.Charge
		wantTotal     model.Money
		wantPending   bool
	}{
		{
			name: "standard driver", nights: 3, units: 2, price: 20000, driver: true, tier: model.CarStandard,
			wantAccom: 120000, wantDriver: &model.Charge{Kind: model.ChargeFixed, Amount: 150000}, wantTotal: 270000,
		},
		{
			name: "comfort driver uses published rate", nights: 2, units: 3, price: 10000, driver: true, tier: model.CarComfort,
			wantAccom: 60000, wantDriver: &model.Charge{Kind: model.ChargeFixed, Amount: 140000}, wantTotal: 200000,
		},
		{
			name: "luxury requires a quote", nights: 2, units: 1, price: 30000, driver: true, tier: model.CarLuxury,
			wantAccom: 60000, wantDriver: &model.Charge{Kind: model.ChargeQuoteRequired}, wantTotal: 60000, wantPending: true,
		},
		{
			name: "no driver omits the charge", nights: 4, units: 1, price: 25000, driver: false, tier: model.CarLuxury,
			wantAccom: 100000, wantTotal: 100000,
		},
		{
			name: "empty tier is standard", nights: 1, units: 1, price: 5000, driver: true,
			wantAccom: 5000, wantDriver: &model.Charge{Kind: model.ChargeFixed, Amount: 50000}, wantTotal: 55000,
		},
		{
			name: "zero nights", nights: 0, units: 2, price: 20000, driver: true, tier: model.CarStandard,
			wantAccom: 0, wantDriver: &model.Charge{Kind: model.ChargeFixed, Amount: 0}, wantTotal: 0,
		},
		{
			name: "free property", nights: 2, units: 2, price: 0,
			wantAccom: 0, wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Quote(tt.nights, tt.units, tt.price, tt.driver, tt.tier, 50000)
			require.NoError(t, err)

			assert.Equal(t, tt.nights, q.Nights)
			assert.Equal(t, tt.wantAccom, q.Accommodation)
			assert.Equal(t, tt.wantDriver, q.Driver)
			assert.Equal(t, tt.wantTotal, q.Total)
			assert.Equal(t, tt.wantPending, q.QuotePending)
		})
	}
}

func TestQuote_LuxuryNeverCarriesAnAmount(t *testing.T) {
	q, err := Quote(5, 4, 99999, true, model.CarLuxury, 50000)
	require.NoError(t, err)

	require.NotNil(t, q.Driver)
	assert.True(t, q.Driver.IsQuoteRequired())
	assert.Zero(t, q.Driver.Amount)
	assert.Equal(t, q.Accommodation, q.Total)
}

func TestQuote_RejectsBadArguments(t *testing.T) {
	tests := []struct {
		name          string
		nights, units int
		price         model.Money
		tier          model.CarTier
		standard      model.Money
	}{
		{"negative nights", -1, 1, 100, model.CarStandard, 50000},
		{"zero units", 1, 0, 100, model.CarStandard, 50000},
		{"negative price", 1, 1, -5, model.CarStandard, 50000},
		{"unknown tier", 1, 1, 100, "helicopter", 50000},
		{"negative standard rate", 1, 1, 100, model.CarStandard, -1},
		{"overflow", 2, 2, model.Money(math.MaxInt64 / 2), model.CarStandard, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Quote(tt.nights, tt.units, tt.price, true, tt.tier, tt.standard)
			assert.ErrorIs(t, err, reservationserrors.ErrInvalidArgument)
		})
	}
}

func TestNights(t *testing.T) {
	base := time.Date(2026, 12, 18, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		checkOut time.Time
		want     int
	}{
		{"exact days", base.Add(72 * time.Hour), 3},
		{"partial day rounds up", base.Add(49 * time.Hour), 3},
		{"one hour is one night", base.Add(time.Hour), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Nights(base, tt.checkOut)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Nights(base, base)
	assert.ErrorIs(t, err, reservationserrors.ErrInvalidArgument)

	_, err = Nights(base, base.Add(-time.Hour))
	assert.ErrorIs(t, err, reservationserrors.ErrInvalidArgument)
}
