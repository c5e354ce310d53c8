package command

import (
	"context"
	"time"

	"bookhub/internal/ingestion/googlebooks"
	"bookhub/internal/microservices/http-api/repository"
	"bookhub/internal/microservices/http-api/service"
)

func (a app) pruneSessions(ctx context.Context, retention time.Duration) (int64, error) {
	auth := service.NewAuthService(
		repository.NewUserRepository(a.db),
		repository.NewAccessTokenRepository(a.db),
		nil, a.cfg, a.log,
	)
	return auth.PruneSessions(ctx, retention)
}

func (a app) normalizeCovers(ctx context.Context) (googlebooks.CoverResult, error) {
	return googlebooks.NormalizeCovers(ctx, repository.NewBookRepository(a.db), a.log)
}

func (a app) importer(workers int, withCovers bool) *googlebooks.Importer {
	client := googlebooks.NewClient(a.cfg.GoogleBooksAPIURL, a.cfg.GoogleBooksAPIKey, a.cfg.GoogleBooksRPS, a.log)
	var covers *googlebooks.CoverStore
	if withCovers {
		covers = googlebooks.NewCoverStore(a.cfg.CoverStorageDir, client)
	}
	return googlebooks.NewImporter(client,
		repository.NewBookRepository(a.db),
		repository.NewCategoryRepository(a.db),
		covers, workers, a.log)
}
