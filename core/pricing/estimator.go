// Package pricing computes fare estimates. The estimator is pure and
// deterministic: identical inputs always yield the identical cost.
package pricing

import (
	"math"

	"github.com/openhail/dispatchd/core/model"
)

// BaseRate is the cost per unit of distance.
const BaseRate = 10

// surcharges maps vehicle classes to their fixed fare addition. Unknown
// classes intentionally take the zero branch rather than being rejected.
var surcharges = map[model.VehicleType]float64{
	model.VehicleSmall:  0,
	model.VehicleMedium: 20,
	model.VehicleLarge:  50,
}

// Estimate returns the fare for a ride between the two points. The cost is
// monotonic in distance with an additive per-class surcharge. Malformed
// numeric input (NaN, Inf) propagates into the result instead of failing.
func Estimate(pickup, dropoff float64, vt model.VehicleType) float64 {
	return math.Abs(dropoff-pickup)*BaseRate + Surcharge(vt)
}

// Surcharge returns the fixed fare addition for the vehicle class.
func Surcharge(vt model.VehicleType) float64 {
	return surcharges[vt]
}
