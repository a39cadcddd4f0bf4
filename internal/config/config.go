package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MatchConfig holds every tunable of the matching engine: scoring weights,
// the category taxonomy, color/brand lexicons and decision thresholds.
// Changing a weight or adding a keyword must never require touching the
// scoring code, so everything lives here and can be overridden from a YAML
// file.
type MatchConfig struct {
	Weights    FeatureWeights `yaml:"weights"`
	Child      ChildWeights   `yaml:"child"`
	Thresholds Thresholds     `yaml:"thresholds"`
	Search     SearchConfig   `yaml:"search"`
	Categories []CategoryRule `yaml:"categories"`
	Colors     []string       `yaml:"colors"`
	Brands     []string       `yaml:"brands"`
}

// FeatureWeights drives the standard (non-child) feature score.
type FeatureWeights struct {
	Title       float64 `yaml:"title"`
	Description float64 `yaml:"description"`
	Category    float64 `yaml:"category"`
	Color       float64 `yaml:"color"`
	Brand       float64 `yaml:"brand"`

	// Category sub-factor values by presence pattern.
	CategoryOneSided float64 `yaml:"category_one_sided"`
	CategoryNeither  float64 `yaml:"category_neither"`
	// Color/brand value when either side lacks the attribute.
	AttributeUnknown float64 `yaml:"attribute_unknown"`

	// Mix of the two score halves in the total.
	ImageShare   float64 `yaml:"image_share"`
	FeatureShare float64 `yaml:"feature_share"`
}

// ChildWeights drives the missing-person scorer. Divisor fields express the
// proximity falloff: |delta|/divisor reaching 1.0 zeroes the sub-factor.
type ChildWeights struct {
	Age              float64 `yaml:"age"`
	AgeDivisor       float64 `yaml:"age_divisor"`
	Gender           float64 `yaml:"gender"`
	Height           float64 `yaml:"height"`
	HeightDivisor    float64 `yaml:"height_divisor"`
	Weight           float64 `yaml:"weight"`
	WeightDivisor    float64 `yaml:"weight_divisor"`
	HairColor        float64 `yaml:"hair_color"`
	EyeColor         float64 `yaml:"eye_color"`
	PhysicalFeatures float64 `yaml:"physical_features"`
	MissingDate      float64 `yaml:"missing_date"`
	DateDivisor      float64 `yaml:"date_divisor"`
	LastSeen         float64 `yaml:"last_seen"`

	// Value of a sub-factor when the attribute is missing on either side,
	// and the partial score given to a declared-but-different hair/eye color.
	MissingDefault float64 `yaml:"missing_default"`
	ColorMismatch  float64 `yaml:"color_mismatch"`

	// Fallback feature score when no sub-factor accumulated any weight.
	EmptyFeatureScore float64 `yaml:"empty_feature_score"`

	// Mix of the image and feature terms in the child total.
	ImageShare   float64 `yaml:"image_share"`
	FeatureShare float64 `yaml:"feature_share"`
}

// Thresholds are three independently tuned cutoffs. They look related but
// are not one value: do not collapse them.
type Thresholds struct {
	Match      float64 `yaml:"match"`
	ChildMatch float64 `yaml:"child_match"`
	Notify     float64 `yaml:"notify"`
}

type SearchConfig struct {
	TopK      int `yaml:"top_k"`
	VectorDim int `yaml:"vector_dim"`
}

// CategoryRule is one entry of the ordered taxonomy. Slice order fixes
// tie-breaking when several keyword sets would match the same text.
type CategoryRule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// Category tags referenced by gating logic.
const (
	CategoryChild  = "cocuk"
	CategoryAnimal = "hayvan"
)

// Default returns the built-in configuration. Keyword lists and weights are
// the production lexicon; tests rely on these exact values.
func Default() *MatchConfig {
	return &MatchConfig{
		Weights: FeatureWeights{
			Title:            0.20,
			Description:      0.20,
			Category:         0.30,
			Color:            0.15,
			Brand:            0.15,
			CategoryOneSided: 0.2,
			CategoryNeither:  0.5,
			AttributeUnknown: 0.5,
			ImageShare:       0.4,
			FeatureShare:     0.6,
		},
		Child: ChildWeights{
			Age:               0.25,
			AgeDivisor:        10.0,
			Gender:            0.20,
			Height:            0.15,
			HeightDivisor:     30.0,
			Weight:            0.15,
			WeightDivisor:     15.0,
			HairColor:         0.10,
			EyeColor:          0.10,
			PhysicalFeatures:  0.15,
			MissingDate:       0.05,
			DateDivisor:       30.0,
			LastSeen:          0.05,
			MissingDefault:    0.5,
			ColorMismatch:     0.3,
			EmptyFeatureScore: 0.6,
			ImageShare:        0.5,
			FeatureShare:      0.5,
		},
		Thresholds: Thresholds{
			Match:      0.40,
			ChildMatch: 0.50,
			Notify:     0.75,
		},
		Search: SearchConfig{
			TopK:      100,
			VectorDim: 512,
		},
		Categories: []CategoryRule{
			{Tag: CategoryChild, Keywords: []string{"kayıp çocuk", "missing child", "kayıp çocuk", "bulunan çocuk", "found child", "çocuk"}},
			{Tag: CategoryAnimal, Keywords: []string{"hayvan", "pet", "köpek", "kedi", "kuş", "animal", "dog", "cat", "bird"}},
			{Tag: "telefon", Keywords: []string{"telefon", "phone", "iphone", "android"}},
			{Tag: "bilgisayar", Keywords: []string{"bilgisayar", "laptop", "computer", "macbook", "notebook"}},
			{Tag: "cüzdan", Keywords: []string{"cüzdan", "wallet", "kartlık"}},
			{Tag: "gözlük", Keywords: []string{"gözlük", "glasses", "sunglasses"}},
			{Tag: "anahtar", Keywords: []string{"anahtar", "key", "anahtarlık"}},
			{Tag: "çanta", Keywords: []string{"çanta", "bag", "sırt çantası"}},
			{Tag: "saat", Keywords: []string{"saat", "watch", "kol saati"}},
		},
		Colors: []string{
			"siyah", "beyaz", "kırmızı", "mavi", "yeşil", "sarı", "mor",
			"pembe", "turuncu", "kahverengi", "gri", "lacivert", "bej",
			"black", "white", "red", "blue", "green", "yellow", "purple",
			"pink", "orange", "brown", "gray", "grey",
		},
		Brands: []string{
			"apple", "samsung", "huawei", "xiaomi", "sony", "lg", "nike",
			"adidas", "ray-ban", "gucci", "prada", "louis vuitton", "lv",
		},
	}
}

// Load reads a YAML file over the defaults and applies environment
// variable overrides. An empty path returns the defaults untouched.
func Load(path string) (*MatchConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("MATCH_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse MATCH_THRESHOLD: %w", err)
		}
		cfg.Thresholds.Match = f
	}
	if v := os.Getenv("CHILD_MATCH_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse CHILD_MATCH_THRESHOLD: %w", err)
		}
		cfg.Thresholds.ChildMatch = f
	}
	if v := os.Getenv("SEARCH_TOP_K"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse SEARCH_TOP_K: %w", err)
		}
		cfg.Search.TopK = n
	}

	return cfg, nil
}
