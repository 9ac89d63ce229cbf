package dtos

// AvailabilityCheckRequest asks whether quantity seats can be sold.
type AvailabilityCheckRequest struct {
	RouteID  string `json:"route_id"`
	VesselID string `json:"vessel_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Quantity int    `json:"quantity"`
}

type PaymentRequest struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// CreateSaleRequest is the body of POST /sales. Payments is only read for
// HIBRIDO sales; UNICO sales take their method from PaymentMethod.
type CreateSaleRequest struct {
	ClientID       string           `json:"client_id"`
	RouteID        string           `json:"route_id"`
	VesselID       string           `json:"vessel_id"`
	EmbarkPortID   string           `json:"embark_port_id"`
	TravelDate     string           `json:"travel_date"`
	TravelTime     string           `json:"travel_time"`
	EmbarkTime     string           `json:"embark_time"`
	PassengerCount int              `json:"passenger_count"`
	CustomPrice    *float64         `json:"custom_price,omitempty"`
	PaymentType    string           `json:"payment_type"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	Payments       []PaymentRequest `json:"payments,omitempty"`
}

type SaleTransitionRequest struct {
	Reason string `json:"reason"`
}

type CreatePortRequest struct {
	Name string `json:"name"`
	City string `json:"city"`
}

type CreateVesselRequest struct {
	Name              string `json:"name"`
	Registration      string `json:"registration"`
	PassengerCapacity int    `json:"passenger_capacity"`
	Type              string `json:"type"`
	Status            string `json:"status,omitempty"`
}

type UpdateVesselStatusRequest struct {
	Status string `json:"status"`
}

type CreateRouteRequest struct {
	Name              string  `json:"name"`
	OriginPortID      string  `json:"origin_port_id"`
	DestinationPortID string  `json:"destination_port_id"`
	Price             float64 `json:"price"`
}

type CreateAssignmentRequest struct {
	VesselID       string   `json:"vessel_id"`
	DepartureTimes []string `json:"departure_times"`
	OperatingDays  []string `json:"operating_days"`
}

type CreateOperatorRequest struct {
	FullName         string `json:"full_name"`
	Document         string `json:"document"`
	AssignedVesselID string `json:"assigned_vessel_id,omitempty"`
}

type AssignVesselRequest struct {
	VesselID string `json:"vessel_id"`
}

type UpdateOperatorStatusRequest struct {
	Status string `json:"status"`
}

type CreateClientRequest struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	FullName       string `json:"full_name"`
	Phone          string `json:"phone"`
}
