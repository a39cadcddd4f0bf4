package request_models

type MarkViewedRequest struct {
	ReportIDs []string `json:"report_ids" binding:"required"`
}
