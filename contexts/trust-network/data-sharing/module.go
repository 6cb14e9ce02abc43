package datasharing

import (
	"log/slog"

	httpadapter "agrilink/contexts/trust-network/data-sharing/adapters/http"
	"agrilink/contexts/trust-network/data-sharing/adapters/memory"
	"agrilink/contexts/trust-network/data-sharing/application/commands"
	"agrilink/contexts/trust-network/data-sharing/application/queries"
	"agrilink/contexts/trust-network/data-sharing/ports"
)

// Module exposes the data-sharing use-cases and their HTTP handler.
type Module struct {
	Handler              httpadapter.Handler
	ShareData            commands.ShareDataUseCase
	UpdateSharedData     commands.UpdateSharedDataUseCase
	GetAccessibleData    queries.GetAccessibleDataUseCase
	CheckDataAccess      queries.CheckDataAccessUseCase
	GetDataVisibility    queries.GetDataVisibilityUseCase
	SyncFieldManagerData queries.SyncFieldManagerDataUseCase
	Store                *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Records       ports.RecordRepository
	Relationships ports.RelationshipDirectory
	Users         ports.UserDirectory
	Notifier      ports.Notifier
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	shareData := commands.ShareDataUseCase{
		Records:       deps.Records,
		Relationships: deps.Relationships,
		Users:         deps.Users,
		Notifier:      deps.Notifier,
		Clock:         deps.Clock,
		IDGenerator:   deps.IDGenerator,
		Logger:        deps.Logger,
	}
	updateSharedData := commands.UpdateSharedDataUseCase{
		Records:       deps.Records,
		Relationships: deps.Relationships,
		Users:         deps.Users,
		Notifier:      deps.Notifier,
		Clock:         deps.Clock,
		Logger:        deps.Logger,
	}
	getAccessibleData := queries.GetAccessibleDataUseCase{
		Records:       deps.Records,
		Relationships: deps.Relationships,
		Users:         deps.Users,
		Logger:        deps.Logger,
	}
	checkDataAccess := queries.CheckDataAccessUseCase{
		Records:       deps.Records,
		Relationships: deps.Relationships,
		Users:         deps.Users,
		Logger:        deps.Logger,
	}
	getDataVisibility := queries.GetDataVisibilityUseCase{
		Records: deps.Records,
		Users:   deps.Users,
		Logger:  deps.Logger,
	}
	syncFieldManagerData := queries.SyncFieldManagerDataUseCase{
		Records:       deps.Records,
		Relationships: deps.Relationships,
		Users:         deps.Users,
		Logger:        deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			ShareData:            shareData,
			UpdateSharedData:     updateSharedData,
			GetAccessibleData:    getAccessibleData,
			CheckDataAccess:      checkDataAccess,
			GetDataVisibility:    getDataVisibility,
			SyncFieldManagerData: syncFieldManagerData,
			Logger:               deps.Logger,
		},
		ShareData:            shareData,
		UpdateSharedData:     updateSharedData,
		GetAccessibleData:    getAccessibleData,
		CheckDataAccess:      checkDataAccess,
		GetDataVisibility:    getDataVisibility,
		SyncFieldManagerData: syncFieldManagerData,
	}
}

// NewInMemoryModule builds a development/testing module with the in-memory
// store backing every port.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Records:       store,
		Relationships: store,
		Users:         store,
		Notifier:      store,
		Clock:         store,
		IDGenerator:   store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
