package pricing

import (
	"math"
	"testing"

	"github.com/openhail/dispatchd/core/model"
)

func TestEstimate(t *testing.T) {
	cases := []struct {
		name    string
		pickup  float64
		dropoff float64
		vt      model.VehicleType
		want    float64
	}{
		{"small", 0, 5, model.VehicleSmall, 50},
		{"medium", 0, 5, model.VehicleMedium, 70},
		{"large", 0, 5, model.VehicleLarge, 100},
		{"reversed distance", 5, 0, model.VehicleMedium, 70},
		{"zero distance", 3, 3, model.VehicleLarge, 50},
		{"unknown class", 0, 2, model.VehicleType("Rickshaw"), 20},
		{"empty class", 0, 2, "", 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Estimate(tc.pickup, tc.dropoff, tc.vt)
			if got != tc.want {
				t.Fatalf("Estimate(%v, %v, %q) = %v, want %v", tc.pickup, tc.dropoff, tc.vt, got, tc.want)
			}
		})
	}
}

func TestEstimateDeterministic(t *testing.T) {
	first := Estimate(1.5, 9.25, model.VehicleMedium)
	for i := 0; i < 100; i++ {
		if got := Estimate(1.5, 9.25, model.VehicleMedium); got != first {
			t.Fatalf("estimate changed between calls: %v != %v", got, first)
		}
	}
}

func TestEstimateDegenerateInput(t *testing.T) {
	if got := Estimate(math.NaN(), 5, model.VehicleSmall); !math.IsNaN(got) {
		t.Fatalf("expected NaN cost for NaN pickup, got %v", got)
	}
	if got := Estimate(0, math.Inf(1), model.VehicleLarge); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf cost for infinite dropoff, got %v", got)
	}
}
