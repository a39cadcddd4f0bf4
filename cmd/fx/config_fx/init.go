package configfx

import (
	"log"
	"os"
	"time"

	"go.uber.org/fx"

	"kayipbul/internal/config"
	"kayipbul/pkg/clip"
)

var Module = fx.Provide(
	provideMatchConfig, provideClipProvider)

func provideMatchConfig() *config.MatchConfig {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load match config: %v", err)
	}
	return cfg
}

func provideClipProvider(cfg *config.MatchConfig) clip.Provider {
	model := os.Getenv("CLIP_MODEL")
	if model == "" {
		model = "clip-vit-base-patch32"
	}
	return clip.NewClient(os.Getenv("CLIP_URL"), model, cfg.Search.VectorDim, 30*time.Second)
}
