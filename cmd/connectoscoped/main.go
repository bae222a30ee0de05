// Command connectoscoped is the hosted Connectoscope service.
// It serves the analysis REST API backed by Postgres and blob storage,
// plus a health check.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/connectoscope/connectoscope/internal/api"
	"github.com/connectoscope/connectoscope/internal/ingestion"
	"github.com/connectoscope/connectoscope/internal/platform"
	"github.com/connectoscope/connectoscope/pkg/config"
)

type serverConfig struct {
	Port           string
	DatabaseURL    string
	APIKey         string
	StorageBackend string
	StoragePath    string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	GCSBucket      string
}

// loadConfig resolves the daemon configuration: environment variables
// take precedence, then the config file's storage section, then built-in
// defaults.
func loadConfig() serverConfig {
	fileCfg := config.DefaultConfig()
	cwd, err := os.Getwd()
	if err == nil {
		if path := config.FindConfigFile(cwd); path != "" {
			if loaded, err := config.Load(path); err == nil {
				fileCfg = loaded
			} else {
				log.Printf("warning: failed to load config file %s: %v", path, err)
			}
		}
	}
	return mergeConfig(fileCfg)
}

func mergeConfig(fileCfg *config.Config) serverConfig {
	st := fileCfg.Storage
	return serverConfig{
		Port:           envOrDefault("PORT", "8080"),
		DatabaseURL:    envOrDefault("DATABASE_URL", "postgres://localhost:5432/connectoscope?sslmode=disable"),
		APIKey:         os.Getenv("API_KEY"),
		StorageBackend: envOrDefault("STORAGE_BACKEND", firstNonEmpty(st.Backend, "local")),
		StoragePath:    envOrDefault("LOCAL_STORAGE_PATH", firstNonEmpty(st.LocalDir, "/tmp/connectoscope-data")),
		S3Bucket:       envOrDefault("S3_BUCKET", st.S3Bucket),
		S3Region:       envOrDefault("S3_REGION", st.S3Region),
		S3Endpoint:     envOrDefault("S3_ENDPOINT", st.S3Endpoint),
		S3AccessKey:    envOrDefault("S3_ACCESS_KEY", st.S3AccessKey),
		S3SecretKey:    envOrDefault("S3_SECRET_KEY", st.S3SecretKey),
		GCSBucket:      envOrDefault("GCS_BUCKET", st.GCSBucket),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func main() {
	cfg := loadConfig()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if err := platform.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	ctx := context.Background()
	storage, err := newStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("initialize storage: %v", err)
	}

	svc := ingestion.NewService(db, storage)
	handler := api.NewHandler(db, svc)

	// The health check stays outside auth so load balancers can reach it.
	apiMux := http.NewServeMux()
	handler.RegisterRoutes(apiMux)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.CORS(api.APIKeyAuth(cfg.APIKey)(apiMux)))
	mux.HandleFunc("GET /healthz", healthHandler(db))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	// Graceful shutdown
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("starting connectoscoped on :%s (storage=%s)", cfg.Port, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-shutdownCtx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func newStorage(ctx context.Context, cfg serverConfig) (ingestion.StorageClient, error) {
	switch cfg.StorageBackend {
	case "s3":
		return ingestion.NewS3Storage(ctx, ingestion.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	case "gcs":
		return ingestion.NewGCSStorage(ctx, cfg.GCSBucket)
	default:
		return ingestion.NewLocalStorage(cfg.StoragePath), nil
	}
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
