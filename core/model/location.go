package model

// Location is a driver position attached to status updates. It travels on
// the event channel only and is never persisted on the booking record.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
