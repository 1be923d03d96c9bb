// Package export writes booking snapshots in formats consumed by reporting
// tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/openhail/dispatchd/core/model"
)

// WriteJSON writes the bookings to w in JSON format.
func WriteJSON(w io.Writer, bookings []model.Booking) error {
	enc := json.NewEncoder(w)
	return enc.Encode(bookings)
}

// WriteCSV writes the bookings to w in CSV format.
func WriteCSV(w io.Writer, bookings []model.Booking) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "user_id", "vehicle_type", "estimated_cost", "status", "driver_id"}); err != nil {
		return err
	}
	for _, b := range bookings {
		rec := []string{
			strconv.FormatInt(b.ID, 10),
			b.UserID,
			string(b.VehicleType),
			strconv.FormatFloat(b.EstimatedCost, 'f', -1, 64),
			string(b.Status),
			b.DriverID,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
