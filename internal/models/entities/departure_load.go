package entities

// DepartureLoadRow is one line of the daily load board.
type DepartureLoadRow struct {
	RouteID       string `db:"route_id" json:"route_id"`
	VesselID      string `db:"vessel_id" json:"vessel_id"`
	TravelDate    string `db:"travel_date" json:"travel_date"`
	DepartureTime string `db:"departure_time" json:"departure_time"`
	Sold          int    `db:"sold" json:"sold"`
	Capacity      int    `db:"capacity" json:"capacity"`
}
