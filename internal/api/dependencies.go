package api

import (
	"river-transit/ticketdesk/internal/auth"
	"river-transit/ticketdesk/internal/common"
	"river-transit/ticketdesk/internal/db/repositories"
	"river-transit/ticketdesk/internal/jobs"
	"river-transit/ticketdesk/internal/locks"
	"river-transit/ticketdesk/internal/metrics"
	"river-transit/ticketdesk/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repositories struct {
	Keys      *repositories.KeysRepo
	LoadBoard *repositories.LoadBoardRepo
}

type Services struct {
	Cache        common.CacheInterface
	Tokens       *auth.TokenService
	Availability *services.AvailabilityService
	Admission    *services.SaleAdmissionService
	Lifecycle    *services.SaleLifecycleService
	Operators    *services.OperatorAssignmentService
	Catalog      *services.CatalogService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	// Jobs is started by the caller; see jobs.InitializeJobs.
	Jobs   *jobs.LoadReconcileJob
	Redis  *redis.Client
	Events *common.RedisEventStream
}

// Options carries the settings the handlers need from config.
type Options struct {
	JWTSecret               string
	BlockUnavailableVessels bool
	// Events receives committed sales and status changes when set.
	Events *common.RedisEventStream
}

func InitDependencies(
	gdb *gorm.DB,
	sqlxDB *sqlx.DB,
	cache common.CacheInterface,
	locker locks.Locker,
	m *metrics.MetricsRegistry,
	opts Options,
) (*Dependencies, error) {

	repos := &Repositories{
		Keys:      repositories.NewApiKeysRepo(sqlxDB),
		LoadBoard: repositories.NewLoadBoardRepo(sqlxDB),
	}

	instrumented := common.NewInstrumentedCache(cache, m)
	calc := services.NewAvailabilityCalculator()
	guard := services.NewOperatorAssignmentService(gdb, locker)

	svcs := &Services{
		Cache:        instrumented,
		Tokens:       auth.NewTokenService([]byte(opts.JWTSecret)),
		Availability: services.NewAvailabilityService(gdb, calc, m),
		Admission:    services.NewSaleAdmissionService(gdb, locker, calc, m, opts.BlockUnavailableVessels),
		Lifecycle:    services.NewSaleLifecycleService(gdb, locker, m),
		Operators:    guard,
		Catalog:      services.NewCatalogService(gdb, instrumented, guard),
	}

	if opts.Events != nil {
		svcs.Admission.SetEventPublisher(opts.Events)
		svcs.Lifecycle.SetEventPublisher(opts.Events)
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Metrics:  m,
		Events:   opts.Events,
	}, nil
}
