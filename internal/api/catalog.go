package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/models/dtos"
	"river-transit/ticketdesk/internal/services"

	"github.com/go-chi/chi/v5"
)

// Ports

func CreatePortHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreatePortRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		port, err := deps.Services.Catalog.CreatePort(r.Context(), services.CreatePortInput{Name: req.Name, City: req.City})
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Port created", dtos.NewPortResponse(port), http.StatusCreated)
	}
}

func ListPortsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		ports, err := deps.Services.Catalog.ListPorts(r.Context())
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Ports", dtos.MapSlice(ports, dtos.NewPortResponse))
	}
}

// Vessels

func CreateVesselHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateVesselRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		vessel, err := deps.Services.Catalog.CreateVessel(r.Context(), services.CreateVesselInput{
			Name:              req.Name,
			Registration:      req.Registration,
			PassengerCapacity: req.PassengerCapacity,
			Type:              req.Type,
			Status:            constants.VesselStatus(strings.ToUpper(req.Status)),
		})
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Vessel created", dtos.NewVesselResponse(vessel), http.StatusCreated)
	}
}

func ListVesselsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		vessels, err := deps.Services.Catalog.ListVessels(r.Context())
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Vessels", dtos.MapSlice(vessels, dtos.NewVesselResponse))
	}
}

func GetVesselHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		vessel, err := deps.Services.Catalog.GetVessel(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Vessel found", dtos.NewVesselResponse(vessel))
	}
}

// UpdateVesselStatusHandler handles PATCH /api/v1/vessels/{id}/status
func UpdateVesselStatusHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.UpdateVesselStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		status := constants.VesselStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
		vessel, err := deps.Services.Catalog.UpdateVesselStatus(r.Context(), chi.URLParam(r, "id"), status)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Vessel status updated", dtos.NewVesselResponse(vessel))
	}
}

// Routes

func CreateRouteHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateRouteRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		route, err := deps.Services.Catalog.CreateRoute(r.Context(), services.CreateRouteInput{
			Name:              req.Name,
			OriginPortID:      req.OriginPortID,
			DestinationPortID: req.DestinationPortID,
			Price:             req.Price,
		})
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Route created", dtos.NewRouteResponse(route), http.StatusCreated)
	}
}

func ListRoutesHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		routes, err := deps.Services.Catalog.ListRoutes(r.Context())
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Routes", dtos.MapSlice(routes, dtos.NewRouteResponse))
	}
}

func GetRouteHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		route, err := deps.Services.Catalog.GetRoute(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Route found", dtos.NewRouteResponse(route))
	}
}

// CreateAssignmentHandler handles POST /api/v1/routes/{id}/assignments
func CreateAssignmentHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateAssignmentRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		a, err := deps.Services.Catalog.CreateAssignment(r.Context(), services.CreateAssignmentInput{
			RouteID:        chi.URLParam(r, "id"),
			VesselID:       req.VesselID,
			DepartureTimes: req.DepartureTimes,
			OperatingDays:  req.OperatingDays,
		})
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Assignment created", dtos.NewAssignmentResponse(a), http.StatusCreated)
	}
}

func ListAssignmentsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		list, err := deps.Services.Catalog.ListAssignments(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Assignments", dtos.MapSlice(list, dtos.NewAssignmentResponse))
	}
}

// Clients

// UpsertClientHandler handles POST /api/v1/clients. An existing document
// returns the stored client with 200.
func UpsertClientHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateClientRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		client, created, err := deps.Services.Catalog.UpsertClient(r.Context(), services.CreateClientInput{
			DocumentType:   req.DocumentType,
			DocumentNumber: req.DocumentNumber,
			FullName:       req.FullName,
			Phone:          req.Phone,
		})
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		if created {
			common.RespondSuccess(w, initTime, "Client created", dtos.NewClientResponse(client), http.StatusCreated)
			return
		}
		common.RespondSuccess(w, initTime, "Client already registered", dtos.NewClientResponse(client))
	}
}

func ListClientsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		clients, err := deps.Services.Catalog.ListClients(r.Context(), limit)
		if err != nil {
			respondServiceError(w, r, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Clients", dtos.MapSlice(clients, dtos.NewClientResponse))
	}
}
