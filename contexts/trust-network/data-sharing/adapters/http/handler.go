package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"agrilink/contexts/trust-network/accesspolicy"
	"agrilink/contexts/trust-network/data-sharing/application/commands"
	"agrilink/contexts/trust-network/data-sharing/application/queries"
	"agrilink/contexts/trust-network/data-sharing/domain/entities"
	"agrilink/contexts/trust-network/data-sharing/domain/services"
	httptransport "agrilink/contexts/trust-network/data-sharing/transport/http"
)

type Handler struct {
	ShareData            commands.ShareDataUseCase
	UpdateSharedData     commands.UpdateSharedDataUseCase
	GetAccessibleData    queries.GetAccessibleDataUseCase
	CheckDataAccess      queries.CheckDataAccessUseCase
	GetDataVisibility    queries.GetDataVisibilityUseCase
	SyncFieldManagerData queries.SyncFieldManagerDataUseCase
	Logger               *slog.Logger
}

func (h Handler) ShareDataHandler(
	ctx context.Context,
	actorUserID string,
	req httptransport.ShareDataRequest,
) (httptransport.SharedRecordResponse, error) {
	record, err := h.ShareData.Execute(ctx, commands.ShareDataCommand{
		FarmAdminID: strings.TrimSpace(actorUserID),
		DataType:    accesspolicy.DataType(strings.TrimSpace(req.DataType)),
		Payload:     req.Payload,
	})
	if err != nil {
		return httptransport.SharedRecordResponse{}, err
	}
	return httptransport.SharedRecordResponse{Status: "success", Data: sharedRecordData(record)}, nil
}

func (h Handler) UpdateSharedDataHandler(
	ctx context.Context,
	actorUserID string,
	recordID string,
	req httptransport.UpdateSharedDataRequest,
) (httptransport.SharedRecordResponse, error) {
	record, err := h.UpdateSharedData.Execute(ctx, commands.UpdateSharedDataCommand{
		RecordID: strings.TrimSpace(recordID),
		UserID:   strings.TrimSpace(actorUserID),
		Updates:  req.Updates,
	})
	if err != nil {
		return httptransport.SharedRecordResponse{}, err
	}
	return httptransport.SharedRecordResponse{Status: "success", Data: sharedRecordData(record)}, nil
}

func (h Handler) AccessibleDataHandler(
	ctx context.Context,
	actorUserID string,
	dataType string,
) (httptransport.SharedRecordListResponse, error) {
	records, err := h.GetAccessibleData.Execute(ctx, queries.GetAccessibleDataQuery{
		UserID:   strings.TrimSpace(actorUserID),
		DataType: accesspolicy.DataType(strings.TrimSpace(dataType)),
	})
	if err != nil {
		return httptransport.SharedRecordListResponse{}, err
	}
	resp := httptransport.SharedRecordListResponse{Status: "success"}
	resp.Data = make([]httptransport.SharedRecordData, 0, len(records))
	for _, record := range records {
		resp.Data = append(resp.Data, sharedRecordData(record))
	}
	return resp, nil
}

func (h Handler) DataAccessHandler(
	ctx context.Context,
	actorUserID string,
	recordID string,
	accessKind string,
) (httptransport.DataAccessResponse, error) {
	allowed, err := h.CheckDataAccess.Execute(ctx, queries.CheckDataAccessQuery{
		UserID:     strings.TrimSpace(actorUserID),
		RecordID:   strings.TrimSpace(recordID),
		AccessKind: services.AccessKind(strings.TrimSpace(accessKind)),
	})
	if err != nil {
		return httptransport.DataAccessResponse{}, err
	}
	resp := httptransport.DataAccessResponse{Status: "success"}
	resp.Data.RecordID = strings.TrimSpace(recordID)
	resp.Data.UserID = strings.TrimSpace(actorUserID)
	resp.Data.AccessKind = strings.TrimSpace(accessKind)
	resp.Data.Allowed = allowed
	return resp, nil
}

func (h Handler) DataVisibilityHandler(
	ctx context.Context,
	actorUserID string,
	recordID string,
) (httptransport.DataVisibilityResponse, error) {
	result, err := h.GetDataVisibility.Execute(ctx, queries.GetDataVisibilityQuery{
		UserID:   strings.TrimSpace(actorUserID),
		RecordID: strings.TrimSpace(recordID),
	})
	if err != nil {
		return httptransport.DataVisibilityResponse{}, err
	}
	resp := httptransport.DataVisibilityResponse{Status: "success"}
	resp.Data.RecordID = result.RecordID
	resp.Data.UserID = result.UserID
	resp.Data.Visible = result.Visible
	resp.Data.Level = string(result.Level)
	return resp, nil
}

func (h Handler) SyncFieldManagerDataHandler(
	ctx context.Context,
	actorUserID string,
	farmAdminID string,
) (httptransport.SharedRecordListResponse, error) {
	records, err := h.SyncFieldManagerData.Execute(ctx, queries.SyncFieldManagerDataQuery{
		FieldManagerID: strings.TrimSpace(actorUserID),
		FarmAdminID:    strings.TrimSpace(farmAdminID),
	})
	if err != nil {
		return httptransport.SharedRecordListResponse{}, err
	}
	resp := httptransport.SharedRecordListResponse{Status: "success"}
	resp.Data = make([]httptransport.SharedRecordData, 0, len(records))
	for _, record := range records {
		resp.Data = append(resp.Data, sharedRecordData(record))
	}
	return resp, nil
}

func sharedRecordData(record entities.SharedRecord) httptransport.SharedRecordData {
	visibility := make([]httptransport.VisibilityEntryData, 0, len(record.Visibility))
	for _, entry := range record.Visibility {
		visibility = append(visibility, httptransport.VisibilityEntryData{
			UserID: entry.UserID,
			Role:   string(entry.Role),
			Level:  string(entry.Level),
		})
	}
	return httptransport.SharedRecordData{
		RecordID:    record.ID,
		FarmAdminID: record.FarmAdminID,
		DataType:    string(record.Type),
		Payload:     record.Payload,
		Visibility:  visibility,
		CreatedAt:   record.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   record.UpdatedAt.Format(time.RFC3339),
	}
}
