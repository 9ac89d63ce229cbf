package routes

import (
	"river-transit/ticketdesk/internal/api"
	"river-transit/ticketdesk/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, limiter *middleware.RateLimiter) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)
		v1.Use(middleware.AuthMiddleware(deps.Services.Tokens, deps.Repo.Keys)) // global: all routes must be authenticated

		// Desk group: sellers and admins
		v1.Group(func(desk chi.Router) {
			desk.Use(middleware.IsSellerMiddleware())

			desk.Post("/availability/check", api.CheckAvailabilityHandler(deps))
			desk.Get("/routes/{id}/departures", api.DepartureBoardHandler(deps))

			desk.Post("/sales", api.CreateSaleHandler(deps))
			desk.Get("/sales", api.FindSaleHandler(deps))
			desk.Get("/sales/{id}", api.GetSaleHandler(deps))

			desk.Get("/ports", api.ListPortsHandler(deps))
			desk.Get("/vessels", api.ListVesselsHandler(deps))
			desk.Get("/vessels/{id}", api.GetVesselHandler(deps))
			desk.Get("/vessels/{id}/occupancy", api.VesselOccupancyHandler(deps))
			desk.Get("/routes", api.ListRoutesHandler(deps))
			desk.Get("/routes/{id}", api.GetRouteHandler(deps))
			desk.Get("/routes/{id}/assignments", api.ListAssignmentsHandler(deps))
			desk.Get("/operators", api.ListOperatorsHandler(deps))

			desk.Post("/clients", api.UpsertClientHandler(deps))
			desk.Get("/clients", api.ListClientsHandler(deps))

			// Admin-only group
			desk.Group(func(admin chi.Router) {
				admin.Use(middleware.IsAdminMiddleware())

				admin.Post("/sales/{id}/void", api.VoidSaleHandler(deps))
				admin.Post("/sales/{id}/refund", api.RefundSaleHandler(deps))

				admin.Post("/ports", api.CreatePortHandler(deps))
				admin.Post("/vessels", api.CreateVesselHandler(deps))
				admin.Patch("/vessels/{id}/status", api.UpdateVesselStatusHandler(deps))
				admin.Post("/routes", api.CreateRouteHandler(deps))
				admin.Post("/routes/{id}/assignments", api.CreateAssignmentHandler(deps))

				admin.Post("/operators", api.CreateOperatorHandler(deps))
				admin.Put("/operators/{id}/vessel", api.AssignOperatorVesselHandler(deps))
				admin.Delete("/operators/{id}/vessel", api.ReleaseOperatorVesselHandler(deps))
				admin.Patch("/operators/{id}/status", api.UpdateOperatorStatusHandler(deps))

				admin.Get("/admin/loads", api.DepartureLoadsHandler(deps))
				admin.Get("/admin/events", api.RecentSaleEventsHandler(deps))
				if deps.Jobs != nil {
					jobsHandler := api.NewJobsHandler(deps.Jobs)
					admin.Post("/admin/jobs/reconcile-loads", jobsHandler.TriggerReconcile())
					admin.Get("/admin/jobs/status", jobsHandler.GetJobStatus())
				}
			})
		})
	})
}
