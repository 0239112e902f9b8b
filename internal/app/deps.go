package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/reelmates/backend/internal/catalog"
	"github.com/reelmates/backend/internal/config"
	"github.com/reelmates/backend/internal/db"
	"github.com/reelmates/backend/internal/films"
	"github.com/reelmates/backend/internal/handlers"
	"github.com/reelmates/backend/internal/middleware"
	"github.com/reelmates/backend/internal/repositories"
	"github.com/reelmates/backend/internal/storage"
	"github.com/reelmates/backend/internal/users"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) handlers.Dependencies {
	filmRepo := repositories.NewPostgresFilmRepository(pool)
	likeRepo := repositories.NewPostgresLikeRepository(pool)
	userRepo := repositories.NewPostgresUserRepository(pool)
	friendRepo := repositories.NewPostgresFriendRepository(pool)
	genreRepo := repositories.NewPostgresGenreRepository(pool)
	mpaRepo := repositories.NewPostgresMpaRepository(pool)
	directorRepo := repositories.NewPostgresDirectorRepository(pool)
	feedRepo := repositories.NewPostgresFeedRepository(pool)

	catalogService := catalog.NewService(genreRepo, mpaRepo, directorRepo, cfg.ReferenceDataTTL)

	var posters films.PosterStore
	if cfg.Posters.Bucket != "" {
		store, err := storage.NewPosterStorage(ctx, cfg.Posters)
		if err != nil {
			logger.Warn("poster storage unavailable, uploads disabled", "error", err)
		} else {
			posters = store
		}
	}

	filmService := films.NewService(films.Deps{
		Films:     filmRepo,
		Likes:     likeRepo,
		Users:     userRepo,
		Genres:    catalogService,
		Mpa:       catalogService,
		Directors: catalogService,
		Feed:      feedRepo,
		Posters:   posters,
	})

	userService := users.NewService(userRepo, friendRepo, feedRepo, nil)
	engine := films.NewEngine(likeRepo, filmRepo)

	limiter := middleware.NewIPRateLimiter(int(cfg.RateLimitRPS), time.Second, cfg.RateLimitBurst, 5*time.Minute)

	return handlers.Dependencies{
		Films:           filmService,
		Users:           userService,
		Catalog:         catalogService,
		Recommendations: engine,
		Limiter:         limiter,
	}
}
