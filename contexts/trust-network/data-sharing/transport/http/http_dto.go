package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// VisibilityEntryData is one grantee in a record's visibility snapshot.
type VisibilityEntryData struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Level  string `json:"level"`
}

// SharedRecordData is the wire view of a shared record.
type SharedRecordData struct {
	RecordID    string                `json:"record_id"`
	FarmAdminID string                `json:"farm_admin_id"`
	DataType    string                `json:"data_type"`
	Payload     map[string]any        `json:"payload"`
	Visibility  []VisibilityEntryData `json:"visibility"`
	CreatedAt   string                `json:"created_at"`
	UpdatedAt   string                `json:"updated_at"`
}

type ShareDataRequest struct {
	DataType string         `json:"data_type"`
	Payload  map[string]any `json:"payload"`
}

type UpdateSharedDataRequest struct {
	Updates map[string]any `json:"updates"`
}

type SharedRecordResponse struct {
	Status string           `json:"status"`
	Data   SharedRecordData `json:"data"`
}

type SharedRecordListResponse struct {
	Status string             `json:"status"`
	Data   []SharedRecordData `json:"data"`
}

type DataAccessResponse struct {
	Status string `json:"status"`
	Data   struct {
		RecordID   string `json:"record_id"`
		UserID     string `json:"user_id"`
		AccessKind string `json:"access_kind"`
		Allowed    bool   `json:"allowed"`
	} `json:"data"`
}

type DataVisibilityResponse struct {
	Status string `json:"status"`
	Data   struct {
		RecordID string `json:"record_id"`
		UserID   string `json:"user_id"`
		Visible  bool   `json:"visible"`
		Level    string `json:"level,omitempty"`
	} `json:"data"`
}
