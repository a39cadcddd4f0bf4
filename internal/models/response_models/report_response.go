package response_models

type Report struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	City        string `json:"city"`
	District    string `json:"district"`
	ImagePath   string `json:"image_path,omitempty"`
	IsUrgent    bool   `json:"is_urgent"`
	IsMissing   bool   `json:"is_missing_child"`
	CreatedAt   int64  `json:"created_at"`
}

type AuthToken struct {
	Token string `json:"token"`
}
