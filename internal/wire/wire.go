// internal/wire/wire.go
package wire

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/adaptor"
	"storefront/internal/data/cache"
	"storefront/internal/data/repository"
	"storefront/internal/usecase"
	"storefront/pkg/database"
	"storefront/pkg/middleware"
	"storefront/pkg/session"
	"storefront/pkg/upload"
	"storefront/pkg/utils"
	"storefront/pkg/view"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// App holds the wired router
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes on top of an open store
func Wiring(
	store database.Store,
	products cache.ProductCache,
	fsys afero.Fs,
	config *utils.Config,
	logger *zap.Logger,
) (*App, error) {
	repo := repository.NewRepository(store, logger)

	images, err := upload.NewStore(fsys, config.Upload, logger)
	if err != nil {
		return nil, fmt.Errorf("init upload store: %w", err)
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	sessions := session.NewManager(config.Session)
	service := usecase.NewService(repo, products, images, logger)
	handler := adaptor.NewHandler(service, renderer, sessions, config.Upload.MaxSizeMB<<20, logger)

	router := setupRouter(handler, store, sessions, images.FileSystem(), config, logger)

	return &App{
		Router: router,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	store database.Store,
	sessions *session.Manager,
	images http.FileSystem,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoadSession(sessions, logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	wirePages(r, handler.Page)
	wireAuth(r, handler.Auth)
	wireAdmin(r, handler.Product, handler.Feedback, sessions, logger)
	wireShop(r, handler.Shop, sessions, logger)
	wireFeedback(r, handler.Feedback)
	wireContact(r, handler.Contact)

	// uploaded product images
	prefix := strings.TrimSuffix(config.Upload.URLPrefix, "/")
	files := http.FileServer(images)
	r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", files))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.Error("Health check failed", zap.Error(err))
			utils.ResponseUnavailable(w, "database unavailable")
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
