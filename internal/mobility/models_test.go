package mobility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wayfinder/wayfinder/internal/mobility"
)

func intPtr(i int) *int {
	return &i
}

func TestOption_TotalTimeMin(t *testing.T) {
	tests := []struct {
		name   string
		option mobility.Option
		want   int
	}{
		{
			name:   "duration only",
			option: mobility.Option{DurationMin: 20},
			want:   20,
		},
		{
			name:   "pickup eta plus duration",
			option: mobility.Option{ETAPickupMin: intPtr(5), DurationMin: 20},
			want:   25,
		},
		{
			name:   "boarding wait plus duration plus walk",
			option: mobility.Option{WaitMin: intPtr(5), DurationMin: 20, WalkMin: 8},
			want:   33,
		},
		{
			name:   "pickup eta wins over wait when both set",
			option: mobility.Option{ETAPickupMin: intPtr(3), WaitMin: intPtr(10), DurationMin: 10},
			want:   13,
		},
		{
			name:   "zero everything",
			option: mobility.Option{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.option.TotalTimeMin())
		})
	}
}

func TestOption_EffectiveCostUSD(t *testing.T) {
	assert.Equal(t, 0.0, mobility.Option{}.EffectiveCostUSD())
	assert.Equal(t, 12.5, mobility.Option{CostUSD: 12.5}.EffectiveCostUSD())
}

func TestLocation_Validate(t *testing.T) {
	assert.NoError(t, mobility.Location{Lat: 37.77, Lng: -122.42}.Validate())
	assert.NoError(t, mobility.Location{Lat: -90, Lng: 180}.Validate())

	err := mobility.Location{Lat: 91, Lng: 0}.Validate()
	assert.ErrorIs(t, err, mobility.ErrInvalidCoordinates)

	err = mobility.Location{Lat: 0, Lng: -181}.Validate()
	assert.ErrorIs(t, err, mobility.ErrInvalidCoordinates)
}
