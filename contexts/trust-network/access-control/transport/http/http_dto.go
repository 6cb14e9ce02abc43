package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PermissionDecisionData is the wire view of a permission check outcome.
type PermissionDecisionData struct {
	UserID    string `json:"user_id"`
	Resource  string `json:"resource"`
	Action    string `json:"action"`
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason"`
	CheckedAt string `json:"checked_at"`
}

type CheckPermissionRequest struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type CheckPermissionResponse struct {
	Status string                 `json:"status"`
	Data   PermissionDecisionData `json:"data"`
}

// DashboardConfigData mirrors the per-role widget layout.
type DashboardConfigData struct {
	Widgets     []string            `json:"widgets"`
	Navigation  []string            `json:"navigation"`
	Permissions map[string][]string `json:"permissions"`
}

type DashboardConfigResponse struct {
	Status string              `json:"status"`
	Data   DashboardConfigData `json:"data"`
}

type RelationshipAccessResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID       string `json:"user_id"`
		TargetUserID string `json:"target_user_id"`
		Allowed      bool   `json:"allowed"`
	} `json:"data"`
}

type UserPermissionsResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID      string   `json:"user_id"`
		Permissions []string `json:"permissions"`
	} `json:"data"`
}
