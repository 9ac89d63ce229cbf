package dtos

import (
	"time"

	gormModels "river-transit/ticketdesk/internal/models/gorm"
	"river-transit/ticketdesk/internal/schedule"
)

// --- Controller envelope ----

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// --- Sales ----

type PaymentResponse struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

type SaleResponse struct {
	ID              string            `json:"id"`
	SaleNumber      string            `json:"sale_number"`
	ClientID        string            `json:"client_id"`
	RouteID         string            `json:"route_id"`
	VesselID        string            `json:"vessel_id"`
	EmbarkPortID    string            `json:"embark_port_id"`
	TravelDate      string            `json:"travel_date"`
	TravelTime      string            `json:"travel_time"`
	EmbarkTime      string            `json:"embark_time,omitempty"`
	PassengerCount  int               `json:"passenger_count"`
	UnitPrice       float64           `json:"unit_price"`
	CustomPrice     bool              `json:"custom_price"`
	Total           float64           `json:"total"`
	PaymentType     string            `json:"payment_type"`
	Payments        []PaymentResponse `json:"payments"`
	Status          string            `json:"status"`
	SellerID        string            `json:"seller_id"`
	StatusReason    *string           `json:"status_reason,omitempty"`
	StatusChangedAt *time.Time        `json:"status_changed_at,omitempty"`
	StatusChangedBy *string           `json:"status_changed_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

func NewSaleResponse(s *gormModels.Sale) SaleResponse {
	payments := make([]PaymentResponse, 0, len(s.Payments))
	for _, p := range s.Payments {
		payments = append(payments, PaymentResponse{Method: string(p.Method), Amount: p.Amount})
	}
	return SaleResponse{
		ID:              s.ID,
		SaleNumber:      s.SaleNumber,
		ClientID:        s.ClientID,
		RouteID:         s.RouteID,
		VesselID:        s.VesselID,
		EmbarkPortID:    s.EmbarkPortID,
		TravelDate:      s.TravelDate,
		TravelTime:      s.TravelTime,
		EmbarkTime:      s.EmbarkTime,
		PassengerCount:  s.PassengerCount,
		UnitPrice:       s.UnitPrice,
		CustomPrice:     s.CustomPrice,
		Total:           s.Total,
		PaymentType:     string(s.PaymentType),
		Payments:        payments,
		Status:          string(s.Status),
		SellerID:        s.SellerID,
		StatusReason:    s.StatusReason,
		StatusChangedAt: s.StatusChangedAt,
		StatusChangedBy: s.StatusChangedBy,
		CreatedAt:       s.CreatedAt,
	}
}

// --- Catalog ----

type PortResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	IsActive bool   `json:"is_active"`
}

func NewPortResponse(p *gormModels.Port) PortResponse {
	return PortResponse{ID: p.ID, Name: p.Name, City: p.City, IsActive: p.IsActive}
}

type VesselResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Registration      string `json:"registration"`
	PassengerCapacity int    `json:"passenger_capacity"`
	Type              string `json:"type,omitempty"`
	Status            string `json:"status"`
}

func NewVesselResponse(v *gormModels.Vessel) VesselResponse {
	return VesselResponse{
		ID:                v.ID,
		Name:              v.Name,
		Registration:      v.Registration,
		PassengerCapacity: v.PassengerCapacity,
		Type:              v.Type,
		Status:            string(v.Status),
	}
}

type RouteResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	OriginPortID      string  `json:"origin_port_id"`
	DestinationPortID string  `json:"destination_port_id"`
	Price             float64 `json:"price"`
	IsActive          bool    `json:"is_active"`
}

func NewRouteResponse(r *gormModels.Route) RouteResponse {
	return RouteResponse{
		ID:                r.ID,
		Name:              r.Name,
		OriginPortID:      r.OriginPortID,
		DestinationPortID: r.DestinationPortID,
		Price:             r.Price,
		IsActive:          r.IsActive,
	}
}

type AssignmentResponse struct {
	ID             string          `json:"id"`
	RouteID        string          `json:"route_id"`
	VesselID       string          `json:"vessel_id"`
	Vessel         *VesselResponse `json:"vessel,omitempty"`
	DepartureTimes []string        `json:"departure_times"`
	OperatingDays  []string        `json:"operating_days"`
	IsActive       bool            `json:"is_active"`
}

// NewAssignmentResponse renders weekdays with their accents for display.
func NewAssignmentResponse(a *gormModels.VesselAssignment) AssignmentResponse {
	days := schedule.SplitList(a.OperatingDays)
	for i, d := range days {
		days[i] = schedule.DisplayWeekday(d)
	}
	resp := AssignmentResponse{
		ID:             a.ID,
		RouteID:        a.RouteID,
		VesselID:       a.VesselID,
		DepartureTimes: schedule.SplitList(a.DepartureTimes),
		OperatingDays:  days,
		IsActive:       a.IsActive,
	}
	if a.Vessel.ID != "" {
		v := NewVesselResponse(&a.Vessel)
		resp.Vessel = &v
	}
	return resp
}

type OperatorResponse struct {
	ID               string  `json:"id"`
	FullName         string  `json:"full_name"`
	Document         string  `json:"document,omitempty"`
	AssignedVesselID *string `json:"assigned_vessel_id"`
	Status           string  `json:"status"`
}

func NewOperatorResponse(o *gormModels.Operator) OperatorResponse {
	return OperatorResponse{
		ID:               o.ID,
		FullName:         o.FullName,
		Document:         o.Document,
		AssignedVesselID: o.AssignedVesselID,
		Status:           string(o.Status),
	}
}

type ClientResponse struct {
	ID             string `json:"id"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	FullName       string `json:"full_name"`
	Phone          string `json:"phone,omitempty"`
}

func NewClientResponse(c *gormModels.Client) ClientResponse {
	return ClientResponse{
		ID:             c.ID,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		FullName:       c.FullName,
		Phone:          c.Phone,
	}
}

// MapSlice converts a slice of models with fn.
func MapSlice[M any, R any](items []M, fn func(*M) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
