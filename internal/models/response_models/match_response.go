package response_models

type MatchResult struct {
	ReportID          string  `json:"report_id"`
	Title             string  `json:"title"`
	Kind              string  `json:"kind"`
	City              string  `json:"city"`
	Similarity        float64 `json:"similarity"`
	ImageSimilarity   float64 `json:"image_similarity"`
	FeatureSimilarity float64 `json:"feature_similarity"`
}

type SaveMatchesResult struct {
	Saved int `json:"saved"`
}
