package di

import (
	"context"
	"talentpay/internal"
	"talentpay/internal/controllers"
	"talentpay/internal/ledger"
	"talentpay/internal/payout"
	"talentpay/internal/providers"
	"talentpay/internal/services"
	"talentpay/internal/storage"
	"talentpay/internal/storage/interfaces"

	wire "github.com/google/wire"
)

// Cli carries what the one-shot commands need without the HTTP stack.
type Cli struct {
	Logger    providers.Logger
	Scheduler interfaces.SchedulerInterface
	Payouts   services.PayoutServiceInterface
}

var coreSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,

	provideContext,
	storage.NewBackend,
	storage.ProvideRepository,
	storage.ProvideScheduler,

	ledger.NewLedgerClient,
	payout.NewEngine,
	services.NewPayoutService,
)

var appSet = wire.NewSet(
	coreSet,
	providers.NewInstrumentedCacheProvider,
	providers.NewAuthProvider,

	services.NewProductionService,
	services.NewAdminService,

	providePinger,
	controllers.NewHealthController,
	controllers.NewPayoutController,
	controllers.NewAdminController,
	internal.InitRoutes,
	internal.NewHandler,
	internal.NewApp,
)

func provideContext() context.Context {
	return context.Background()
}

func providePinger(repo interfaces.RepositoryInterface) controllers.Pinger {
	return repo
}
