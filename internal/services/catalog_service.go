package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/constants"
	"river-transit/ticketdesk/internal/db/repositories"
	"river-transit/ticketdesk/internal/logging"
	gormModels "river-transit/ticketdesk/internal/models/gorm"
	"river-transit/ticketdesk/internal/schedule"

	"gorm.io/gorm"
)

const catalogCacheTTL = 10 * time.Minute

type CreatePortInput struct {
	Name string
	City string
}

type CreateVesselInput struct {
	Name              string
	Registration      string
	PassengerCapacity int
	Type              string
	Status            constants.VesselStatus
}

type CreateRouteInput struct {
	Name              string
	OriginPortID      string
	DestinationPortID string
	Price             float64
}

type CreateAssignmentInput struct {
	RouteID        string
	VesselID       string
	DepartureTimes []string
	OperatingDays  []string
}

type CreateOperatorInput struct {
	FullName         string
	Document         string
	AssignedVesselID string
}

type CreateClientInput struct {
	DocumentType   string
	DocumentNumber string
	FullName       string
	Phone          string
}

// CatalogService manages the reference data sales are made against.
type CatalogService struct {
	repo      *repositories.CatalogRepository
	operators *repositories.OperatorRepository
	guard     *OperatorAssignmentService
	cache     common.CacheInterface
}

func NewCatalogService(db *gorm.DB, cache common.CacheInterface, guard *OperatorAssignmentService) *CatalogService {
	return &CatalogService{
		repo:      repositories.NewCatalogRepository(db),
		operators: repositories.NewOperatorRepository(db),
		guard:     guard,
		cache:     cache,
	}
}

func translateConflict(err error, field, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return newValidationError(field, msg)
	}
	return err
}

// Ports

func (s *CatalogService) CreatePort(ctx context.Context, in CreatePortInput) (*gormModels.Port, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, newValidationError("name", "is required")
	}
	p := &gormModels.Port{Name: strings.TrimSpace(in.Name), City: strings.TrimSpace(in.City), IsActive: true}
	if err := s.repo.CreatePort(ctx, p); err != nil {
		return nil, translateConflict(err, "name", "port already exists")
	}
	return p, nil
}

func (s *CatalogService) ListPorts(ctx context.Context) ([]gormModels.Port, error) {
	return s.repo.ListPorts(ctx)
}

// Vessels

func (s *CatalogService) CreateVessel(ctx context.Context, in CreateVesselInput) (*gormModels.Vessel, error) {
	v := &ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "is required")
	}
	if strings.TrimSpace(in.Registration) == "" {
		v.Add("registration", "is required")
	}
	if in.PassengerCapacity <= 0 {
		v.Add("passenger_capacity", "must be a positive integer")
	}
	if in.Status == "" {
		in.Status = constants.VesselActive
	}
	if !in.Status.Valid() {
		v.Add("status", "must be ACTIVE, MAINTENANCE or INACTIVE")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	vessel := &gormModels.Vessel{
		Name:              strings.TrimSpace(in.Name),
		Registration:      strings.TrimSpace(in.Registration),
		PassengerCapacity: in.PassengerCapacity,
		Type:              strings.TrimSpace(in.Type),
		Status:            in.Status,
	}
	if err := s.repo.CreateVessel(ctx, vessel); err != nil {
		return nil, translateConflict(err, "registration", "registration already exists")
	}
	return vessel, nil
}

func (s *CatalogService) ListVessels(ctx context.Context) ([]gormModels.Vessel, error) {
	return s.repo.ListVessels(ctx)
}

// GetVessel is served from the cache when possible.
func (s *CatalogService) GetVessel(ctx context.Context, id string) (*gormModels.Vessel, error) {
	key := common.CacheKey(string(constants.CachePrefixVessel), id)
	v, err := common.GetOrLoad(s.cache, key, catalogCacheTTL, func() (gormModels.Vessel, error) {
		vessel, err := s.repo.GetVessel(ctx, id)
		if err != nil {
			return gormModels.Vessel{}, err
		}
		if vessel == nil {
			return gormModels.Vessel{}, fmt.Errorf("vessel %s: %w", id, ErrNotFound)
		}
		return *vessel, nil
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *CatalogService) UpdateVesselStatus(ctx context.Context, id string, status constants.VesselStatus) (*gormModels.Vessel, error) {
	if !status.Valid() {
		return nil, newValidationError("status", "must be ACTIVE, MAINTENANCE or INACTIVE")
	}
	found, err := s.repo.UpdateVesselStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("vessel %s: %w", id, ErrNotFound)
	}
	s.cache.Delete(common.CacheKey(string(constants.CachePrefixVessel), id))
	logging.Info("vessel status changed", "vessel_id", id, "status", status)
	return s.GetVessel(ctx, id)
}

// WarmCache loads every vessel and route into the cache and returns how
// many entries were written.
func (s *CatalogService) WarmCache(ctx context.Context) (int, error) {
	vessels, err := s.repo.ListVessels(ctx)
	if err != nil {
		return 0, err
	}
	for _, v := range vessels {
		s.cache.Set(common.CacheKey(string(constants.CachePrefixVessel), v.ID), v, catalogCacheTTL)
	}

	routes, err := s.repo.ListRoutes(ctx)
	if err != nil {
		return len(vessels), err
	}
	for _, rt := range routes {
		s.cache.Set(common.CacheKey(string(constants.CachePrefixRoute), rt.ID), rt, catalogCacheTTL)
	}
	return len(vessels) + len(routes), nil
}

// Routes

func (s *CatalogService) CreateRoute(ctx context.Context, in CreateRouteInput) (*gormModels.Route, error) {
	v := &ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		v.Add("name", "is required")
	}
	if in.Price <= 0 {
		v.Add("price", "must be greater than zero")
	}
	if in.OriginPortID == "" {
		v.Add("origin_port_id", "is required")
	}
	if in.DestinationPortID == "" {
		v.Add("destination_port_id", "is required")
	}
	if in.OriginPortID != "" && in.OriginPortID == in.DestinationPortID {
		v.Add("destination_port_id", "must differ from the origin")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	for field, id := range map[string]string{"origin_port_id": in.OriginPortID, "destination_port_id": in.DestinationPortID} {
		p, err := s.repo.GetPort(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, newValidationError(field, "port does not exist")
		}
	}

	rt := &gormModels.Route{
		Name:              strings.TrimSpace(in.Name),
		OriginPortID:      in.OriginPortID,
		DestinationPortID: in.DestinationPortID,
		Price:             common.RoundMoney(in.Price),
		IsActive:          true,
	}
	if err := s.repo.CreateRoute(ctx, rt); err != nil {
		return nil, err
	}
	return s.GetRoute(ctx, rt.ID)
}

func (s *CatalogService) ListRoutes(ctx context.Context) ([]gormModels.Route, error) {
	return s.repo.ListRoutes(ctx)
}

func (s *CatalogService) GetRoute(ctx context.Context, id string) (*gormModels.Route, error) {
	key := common.CacheKey(string(constants.CachePrefixRoute), id)
	rt, err := common.GetOrLoad(s.cache, key, catalogCacheTTL, func() (gormModels.Route, error) {
		rt, err := s.repo.GetRoute(ctx, id)
		if err != nil {
			return gormModels.Route{}, err
		}
		if rt == nil {
			return gormModels.Route{}, fmt.Errorf("route %s: %w", id, ErrNotFound)
		}
		return *rt, nil
	})
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// Vessel assignments

// CreateAssignment normalizes weekdays and times before storing them.
func (s *CatalogService) CreateAssignment(ctx context.Context, in CreateAssignmentInput) (*gormModels.VesselAssignment, error) {
	v := &ValidationError{}
	if len(in.DepartureTimes) == 0 {
		v.Add("departure_times", "at least one departure time is required")
	}
	days, err := schedule.NormalizeWeekdays(in.OperatingDays)
	if err != nil {
		v.Add("operating_days", err.Error())
	}
	times, err := schedule.ParseClocks(in.DepartureTimes)
	if err != nil {
		v.Add("departure_times", err.Error())
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	plan := schedule.Plan{OperatingDays: days, DepartureTimes: times}

	rt, err := s.repo.GetRoute(ctx, in.RouteID)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, fmt.Errorf("route %s: %w", in.RouteID, ErrNotFound)
	}
	vessel, err := s.repo.GetVessel(ctx, in.VesselID)
	if err != nil {
		return nil, err
	}
	if vessel == nil {
		return nil, newValidationError("vessel_id", "vessel does not exist")
	}

	a := &gormModels.VesselAssignment{RouteID: in.RouteID, VesselID: in.VesselID, IsActive: true}
	a.SetPlan(plan)
	if err := s.repo.CreateAssignment(ctx, a); err != nil {
		return nil, translateConflict(err, "vessel_id", "vessel is already assigned to this route")
	}
	s.cache.Delete(common.CacheKey(string(constants.CachePrefixRoute), in.RouteID))
	a.Vessel = *vessel
	return a, nil
}

func (s *CatalogService) ListAssignments(ctx context.Context, routeID string) ([]gormModels.VesselAssignment, error) {
	return s.repo.ListAssignments(ctx, routeID)
}

// Operators

func (s *CatalogService) CreateOperator(ctx context.Context, in CreateOperatorInput) (*gormModels.Operator, error) {
	v := &ValidationError{}
	if strings.TrimSpace(in.FullName) == "" {
		v.Add("full_name", "is required")
	}
	if strings.TrimSpace(in.Document) == "" {
		v.Add("document", "is required")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	op := &gormModels.Operator{
		FullName: strings.TrimSpace(in.FullName),
		Document: strings.TrimSpace(in.Document),
		Status:   constants.OperatorActive,
	}
	if err := s.operators.Create(ctx, op); err != nil {
		return nil, translateConflict(err, "document", "operator already exists")
	}

	if in.AssignedVesselID == "" {
		return op, nil
	}
	return s.guard.AssignVessel(ctx, op.ID, in.AssignedVesselID)
}

func (s *CatalogService) ListOperators(ctx context.Context) ([]gormModels.Operator, error) {
	return s.operators.List(ctx)
}

// Clients

// UpsertClient returns the client with the same document, creating it when new.
func (s *CatalogService) UpsertClient(ctx context.Context, in CreateClientInput) (*gormModels.Client, bool, error) {
	v := &ValidationError{}
	if strings.TrimSpace(in.DocumentNumber) == "" {
		v.Add("document_number", "is required")
	}
	if strings.TrimSpace(in.FullName) == "" {
		v.Add("full_name", "is required")
	}
	if err := v.OrNil(); err != nil {
		return nil, false, err
	}
	docType := strings.ToUpper(strings.TrimSpace(in.DocumentType))
	if docType == "" {
		docType = "DNI"
	}
	docNumber := strings.TrimSpace(in.DocumentNumber)

	existing, err := s.repo.GetClientByDocument(ctx, docType, docNumber)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	c := &gormModels.Client{
		DocumentType:   docType,
		DocumentNumber: docNumber,
		FullName:       strings.TrimSpace(in.FullName),
		Phone:          strings.TrimSpace(in.Phone),
	}
	if err := s.repo.CreateClient(ctx, c); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func (s *CatalogService) ListClients(ctx context.Context, limit int) ([]gormModels.Client, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListClients(ctx, limit)
}
