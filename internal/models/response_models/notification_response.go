package response_models

type Notification struct {
	Title      string  `json:"title"`
	Message    string  `json:"message"`
	Similarity float64 `json:"similarity"`
	CreatedAt  int64   `json:"created_at"`
	ReportID   string  `json:"report_id"`
}

type NotificationCount struct {
	Count int `json:"count"`
}
