package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/techwave/datastation/internal/announcement"
	"github.com/techwave/datastation/internal/catalog"
	"github.com/techwave/datastation/internal/config"
	"github.com/techwave/datastation/internal/database"
	"github.com/techwave/datastation/internal/favorites"
	http_controllers "github.com/techwave/datastation/internal/http"
	"github.com/techwave/datastation/internal/remote"
	"github.com/techwave/datastation/internal/scheduler"
	"github.com/techwave/datastation/internal/station"
	"github.com/techwave/datastation/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Data Station v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()
	storage := db.Settings()

	catalogStore := catalog.NewStore(catalog.NewSource(cfg.Catalog.Source), catalog.WithLocale(parseLocale(cfg.Catalog.Locale)))
	if docs, err := catalogStore.Load(context.Background()); err != nil {
		log.Printf("WARNING: Catalog could not be loaded from %s, the page will show the load error until a reload succeeds", cfg.Catalog.Source)
	} else {
		log.Printf("Catalog loaded: %d documents from %s", len(docs), cfg.Catalog.Source)
	}

	token, err := favorites.ResolveToken(storage, cfg.Remote.Token)
	if err != nil {
		log.Fatalf("Failed to read user token: %v", err)
	}

	// Remote favorites mirror, only reachable with a base URL
	var remoteClient *remote.Client
	var favoritesRemote favorites.Remote
	var replacer tasks.FavoritesReplacer
	if cfg.Remote.BaseURL != "" {
		remoteClient = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout)
		favoritesRemote = remoteClient
		replacer = remoteClient
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewReloadCatalogQueue(catalogStore),
			tasks.NewSyncFavoritesQueue(replacer, token),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var syncer favorites.Syncer
	if taskClient != nil {
		syncer = tasks.NewFavoritesSyncer(taskClient)
	}

	auth := favorites.Auth{LoggedIn: cfg.Remote.LoginEnabled, Token: token}
	if auth.LoggedIn {
		switch {
		case !auth.Authenticated():
			log.Printf("WARNING: REMOTE_LOGIN_ENABLED is set but no token is configured. Set 'REMOTE_TOKEN' to enable the favorites mirror.")
		case remoteClient == nil:
			log.Printf("WARNING: REMOTE_LOGIN_ENABLED is set but REMOTE_BASE_URL is empty. Favorites stay local.")
		case taskClient == nil:
			log.Printf("WARNING: Task queue is disabled. Favorites changes will not be mirrored remotely.")
		default:
			log.Printf("Remote favorites mirror enabled (%s)", cfg.Remote.BaseURL)
		}
	}

	favoritesStore, err := favorites.NewStore(storage, favorites.Options{
		Auth:   auth,
		Remote: favoritesRemote,
		Syncer: syncer,
	})
	if err != nil {
		log.Fatalf("Failed to load favorites: %v", err)
	}

	stationController := station.NewController(catalogStore, favoritesStore, station.Options{
		ReloadOnVisit: cfg.Catalog.ReloadOnVisit,
		Announcer:     announcement.NewGate(storage, cfg.Announcement.Path),
	})

	// Scheduled reloads go through the task queue when it is available
	var reloader scheduler.Reloader = catalogStore
	if taskClient != nil {
		reloader = tasks.NewQueuedReloader(taskClient)
	}
	reloadScheduler := scheduler.NewCatalogReloadScheduler(reloader, cfg.Catalog.ReloadEnabled, cfg.Catalog.ReloadSchedule)
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	defer schedulerCancel()
	if err := reloadScheduler.Start(schedulerCtx); err != nil {
		log.Printf("WARNING: Catalog reload scheduler not started: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Station:         stationController,
		Favorites:       favoritesStore,
		Database:        db,
		TemplatesPath:   cfg.UI.TemplatesPath,
		StaticPath:      cfg.UI.StaticPath,
		CSRFSecret:      csrfSecret(cfg.Security.CSRFSecret),
		SecureCookies:   cfg.Security.SecureCookies,
		Version:         version,
		TaskClient:      taskClient,
		ReloadScheduler: reloadScheduler,
	}

	router, err := http_controllers.NewRouter(routerCfg)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		reloadScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

func parseLocale(value string) language.Tag {
	if value == "" {
		return language.Und
	}
	tag, err := language.Parse(value)
	if err != nil {
		log.Printf("WARNING: Invalid CATALOG_LOCALE %q, falling back to root collation: %v", value, err)
		return language.Und
	}
	return tag
}

// csrfSecret accepts a hex encoded or raw secret. gorilla/csrf needs 32 bytes.
func csrfSecret(value string) []byte {
	if value == "" {
		log.Printf("CSRF protection: disabled (set CSRF_SECRET to enable)")
		return nil
	}
	secret, err := hex.DecodeString(value)
	if err != nil {
		secret = []byte(value)
	}
	if len(secret) != 32 {
		log.Printf("WARNING: CSRF_SECRET should be 32 bytes, got %d", len(secret))
	}
	return secret
}
