package accesscontrol

import (
	"log/slog"

	httpadapter "agrilink/contexts/trust-network/access-control/adapters/http"
	"agrilink/contexts/trust-network/access-control/adapters/memory"
	"agrilink/contexts/trust-network/access-control/application/queries"
	"agrilink/contexts/trust-network/access-control/ports"
)

// Module exposes the authorization query use-cases and their HTTP handler.
type Module struct {
	Handler                    httpadapter.Handler
	CheckPermission            queries.CheckPermissionUseCase
	GetDashboardConfig         queries.GetDashboardConfigUseCase
	ValidateRelationshipAccess queries.ValidateRelationshipAccessUseCase
	GetUserPermissions         queries.GetUserPermissionsUseCase
	Store                      *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Users         ports.UserDirectory
	Relationships ports.RelationshipDirectory
	Clock         ports.Clock
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	checkPermission := queries.CheckPermissionUseCase{
		Users:         deps.Users,
		Relationships: deps.Relationships,
		Clock:         deps.Clock,
		Logger:        deps.Logger,
	}
	getDashboardConfig := queries.GetDashboardConfigUseCase{
		Users:  deps.Users,
		Logger: deps.Logger,
	}
	validateRelationshipAccess := queries.ValidateRelationshipAccessUseCase{
		Users:         deps.Users,
		Relationships: deps.Relationships,
		Logger:        deps.Logger,
	}
	getUserPermissions := queries.GetUserPermissionsUseCase{
		Users:         deps.Users,
		Relationships: deps.Relationships,
		Logger:        deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CheckPermission:            checkPermission,
			GetDashboardConfig:         getDashboardConfig,
			ValidateRelationshipAccess: validateRelationshipAccess,
			GetUserPermissions:         getUserPermissions,
			Logger:                     deps.Logger,
		},
		CheckPermission:            checkPermission,
		GetDashboardConfig:         getDashboardConfig,
		ValidateRelationshipAccess: validateRelationshipAccess,
		GetUserPermissions:         getUserPermissions,
	}
}

// NewInMemoryModule builds a development/testing module with the in-memory
// projection backing every port.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Users:         store,
		Relationships: store,
		Clock:         store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
