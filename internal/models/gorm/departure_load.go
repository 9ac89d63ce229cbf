package gorm

import "time"

// DepartureLoad is the materialized sold count of one departure instance.
// The admission and annulment paths lock this row before touching sales of
// the departure.
type DepartureLoad struct {
	RouteID       string    `gorm:"column:route_id;primaryKey;type:uuid"`
	VesselID      string    `gorm:"column:vessel_id;primaryKey;type:uuid"`
	TravelDate    string    `gorm:"column:travel_date;primaryKey;type:varchar(10)"`
	DepartureTime string    `gorm:"column:departure_time;primaryKey;type:varchar(5)"`
	Sold          int       `gorm:"column:sold;not null;default:0;check:chk_departure_load_sold,sold >= 0"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DepartureLoad) TableName() string {
	return "departure_loads"
}
