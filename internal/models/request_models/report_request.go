package request_models

type CreateReportRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Kind         string `json:"kind"`
	Location     string `json:"location"`
	City         string `json:"city" binding:"required"`
	District     string `json:"district"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	ImagePath    string `json:"image_path"`
	IsUrgent     bool   `json:"is_urgent"`

	// Missing-person block. When IsMissingChild is set, Kind is ignored and
	// derived from Sighting instead: a disappearance is a lost report, a
	// sighting is a found report.
	IsMissingChild        bool   `json:"is_missing_child"`
	Sighting              bool   `json:"sighting"`
	ChildName             string `json:"child_name"`
	ChildAge              int    `json:"child_age"`
	ChildGender           string `json:"child_gender"`
	ChildHeight           int    `json:"child_height"`
	ChildWeight           int    `json:"child_weight"`
	ChildHairColor        string `json:"child_hair_color"`
	ChildEyeColor         string `json:"child_eye_color"`
	ChildPhysicalFeatures string `json:"child_physical_features"`
	MissingDate           string `json:"missing_date"` // YYYY-MM-DD
	LastSeenLocation      string `json:"last_seen_location"`
	LastSeenClothing      string `json:"last_seen_clothing"`
}

type UpdateReportStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
