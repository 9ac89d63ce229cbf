package constants

// Raw SQL used through sqlx. Written with '?' bindvars and rebound per driver.
const (
	GetApiKey = `
	SELECT key, label, role, status FROM api_keys WHERE key = ?
	`

	ListDepartureLoadsByDate = `
	SELECT dl.route_id, dl.vessel_id, dl.travel_date, dl.departure_time, dl.sold, v.passenger_capacity AS capacity
	FROM departure_loads dl
	JOIN vessels v ON v.id = dl.vessel_id
	WHERE dl.travel_date = ?
	ORDER BY dl.departure_time, dl.route_id
	`
)
