package handlers

import (
	"ktmobile/internal/config"
	"ktmobile/internal/events"
	"ktmobile/internal/metrics"
	"ktmobile/internal/repos"
	"ktmobile/internal/services"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Deps struct {
	Bus       *events.Bus
	Catalog   *services.CatalogService
	Inventory *services.InventoryService
	Quotes    *services.QuoteService
	Imports   *services.ImportService
	Notify    *services.NotifyService

	PhoneHandler  *PhoneHandler
	QuoteHandler  *QuoteHandler
	NotifyHandler *NotifyHandler
	AdminHandler  *AdminHandler
}

// NewDeps wires services and handlers over one catalog store. The notify
// cleanup is subscribed here; other subscribers (the mirror) are added by the caller.
func NewDeps(db *sqlx.DB, store repos.Store, cfg config.Config, m *metrics.Metrics, lg *zap.Logger) *Deps {
	if lg == nil {
		lg = zap.NewNop()
	}
	bus := events.NewBus()
	catalogSvc := services.NewCatalogService(repos.NewCatalogRepo(store, cfg.CatalogKey), bus, lg.Named("catalog"))
	catalogSvc.Metrics = m
	invSvc := services.NewInventoryService(catalogSvc)
	quoteSvc := services.NewQuoteService(catalogSvc, m)
	importSvc := services.NewImportService(catalogSvc, m, lg.Named("import"))
	notifySvc := services.NewNotifyService(catalogSvc, repos.NewNotifyRepo(db), lg.Named("notify"))
	bus.Subscribe(notifySvc.OnCatalogChanged)

	return &Deps{
		Bus:       bus,
		Catalog:   catalogSvc,
		Inventory: invSvc,
		Quotes:    quoteSvc,
		Imports:   importSvc,
		Notify:    notifySvc,

		PhoneHandler:  &PhoneHandler{Catalog: catalogSvc, Quotes: quoteSvc, Inv: invSvc},
		QuoteHandler:  &QuoteHandler{Quotes: quoteSvc},
		NotifyHandler: &NotifyHandler{Notify: notifySvc},
		AdminHandler:  &AdminHandler{Catalog: catalogSvc, Inv: invSvc, Imports: importSvc, Notify: notifySvc},
	}
}
