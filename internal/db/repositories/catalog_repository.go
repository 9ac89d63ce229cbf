package repositories

import (
	"context"
	"errors"
	"fmt"

	"river-transit/ticketdesk/internal/constants"
	gormModels "river-transit/ticketdesk/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository handles ports, vessels, routes, assignments and clients.
// Lookups return (nil, nil) when the row does not exist.
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new GORM-based catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *CatalogRepository) WithTx(tx *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: tx}
}

func first[T any](ctx context.Context, db *gorm.DB, what string, query string, args ...interface{}) (*T, error) {
	var out T
	err := db.WithContext(ctx).Where(query, args...).First(&out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", what, err)
	}
	return &out, nil
}

// Ports

func (r *CatalogRepository) CreatePort(ctx context.Context, p *gormModels.Port) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create port: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetPort(ctx context.Context, id string) (*gormModels.Port, error) {
	return first[gormModels.Port](ctx, r.db, "port", "id = ?", id)
}

func (r *CatalogRepository) ListPorts(ctx context.Context) ([]gormModels.Port, error) {
	var ports []gormModels.Port
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&ports).Error; err != nil {
		return nil, fmt.Errorf("failed to list ports: %w", err)
	}
	return ports, nil
}

// Vessels

func (r *CatalogRepository) CreateVessel(ctx context.Context, v *gormModels.Vessel) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("failed to create vessel: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetVessel(ctx context.Context, id string) (*gormModels.Vessel, error) {
	return first[gormModels.Vessel](ctx, r.db, "vessel", "id = ?", id)
}

// LockVessel reads the vessel with FOR UPDATE; use inside a transaction.
func (r *CatalogRepository) LockVessel(ctx context.Context, id string) (*gormModels.Vessel, error) {
	return first[gormModels.Vessel](ctx, r.db.Clauses(clause.Locking{Strength: "UPDATE"}), "vessel", "id = ?", id)
}

func (r *CatalogRepository) ListVessels(ctx context.Context) ([]gormModels.Vessel, error) {
	var vessels []gormModels.Vessel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&vessels).Error; err != nil {
		return nil, fmt.Errorf("failed to list vessels: %w", err)
	}
	return vessels, nil
}

// UpdateVesselStatus returns false when the vessel does not exist.
func (r *CatalogRepository) UpdateVesselStatus(ctx context.Context, id string, status constants.VesselStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&gormModels.Vessel{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update vessel status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Routes

func (r *CatalogRepository) CreateRoute(ctx context.Context, rt *gormModels.Route) error {
	if err := r.db.WithContext(ctx).Omit("OriginPort", "DestinationPort", "Assignments").Create(rt).Error; err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetRoute(ctx context.Context, id string) (*gormModels.Route, error) {
	var rt gormModels.Route
	err := r.db.WithContext(ctx).
		Preload("OriginPort").
		Preload("DestinationPort").
		Where("id = ?", id).
		First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch route: %w", err)
	}
	return &rt, nil
}

func (r *CatalogRepository) ListRoutes(ctx context.Context) ([]gormModels.Route, error) {
	var routes []gormModels.Route
	err := r.db.WithContext(ctx).
		Preload("OriginPort").
		Preload("DestinationPort").
		Order("name ASC").
		Find(&routes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return routes, nil
}

// Vessel assignments

func (r *CatalogRepository) CreateAssignment(ctx context.Context, a *gormModels.VesselAssignment) error {
	if err := r.db.WithContext(ctx).Omit("Route", "Vessel").Create(a).Error; err != nil {
		return fmt.Errorf("failed to create vessel assignment: %w", err)
	}
	return nil
}

// GetAssignment returns the active assignment of vessel on route.
func (r *CatalogRepository) GetAssignment(ctx context.Context, routeID, vesselID string) (*gormModels.VesselAssignment, error) {
	return first[gormModels.VesselAssignment](ctx, r.db, "vessel assignment",
		"route_id = ? AND vessel_id = ? AND is_active = ?", routeID, vesselID, true)
}

// ListAssignments returns the active assignments of a route with their vessels.
func (r *CatalogRepository) ListAssignments(ctx context.Context, routeID string) ([]gormModels.VesselAssignment, error) {
	var out []gormModels.VesselAssignment
	err := r.db.WithContext(ctx).
		Preload("Vessel").
		Where("route_id = ? AND is_active = ?", routeID, true).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list vessel assignments: %w", err)
	}
	return out, nil
}

// Clients

func (r *CatalogRepository) CreateClient(ctx context.Context, c *gormModels.Client) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *CatalogRepository) GetClient(ctx context.Context, id string) (*gormModels.Client, error) {
	return first[gormModels.Client](ctx, r.db, "client", "id = ?", id)
}

func (r *CatalogRepository) GetClientByDocument(ctx context.Context, docType, docNumber string) (*gormModels.Client, error) {
	return first[gormModels.Client](ctx, r.db, "client", "document_type = ? AND document_number = ?", docType, docNumber)
}

func (r *CatalogRepository) ListClients(ctx context.Context, limit int) ([]gormModels.Client, error) {
	var clients []gormModels.Client
	if err := r.db.WithContext(ctx).Order("full_name ASC").Limit(limit).Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}
