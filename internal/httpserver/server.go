package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fdg312/diet-planner/internal/auth"
	"github.com/fdg312/diet-planner/internal/blob"
	"github.com/fdg312/diet-planner/internal/clients"
	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/mealplans"
	"github.com/fdg312/diet-planner/internal/nutrition"
	"github.com/fdg312/diet-planner/internal/reports"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/storage/memory"
	"github.com/fdg312/diet-planner/internal/storage/mongodb"
	"github.com/fdg312/diet-planner/internal/storage/postgres"
)

const storageConnectTimeout = 10 * time.Second

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	storageName    string
	blobStore      blob.Store
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.initBlobStore()
	s.routes()
	return s
}

// newWithStorage builds a server on a given store with the archive disabled.
func newWithStorage(cfg *config.Config, st storage.Storage) *Server {
	s := &Server{
		config:      cfg,
		mux:         http.NewServeMux(),
		storage:     st,
		storageName: config.StorageMemory,
	}
	s.routes()
	return s
}

// initStorage picks postgres, mongo or memory. A failed connection falls
// back to memory so the API stays usable in development.
func (s *Server) initStorage() {
	ctx, cancel := context.WithTimeout(context.Background(), storageConnectTimeout)
	defer cancel()

	switch backend := s.config.StorageBackend(); backend {
	case config.StoragePostgres:
		log.Println("INFO storage: connecting to PostgreSQL...")
		pg, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("WARN storage: postgres connect failed: %v", err)
			s.useMemory()
			return
		}
		log.Println("INFO storage: PostgreSQL connected")
		s.storage, s.storageName = pg, backend

	case config.StorageMongo:
		log.Printf("INFO storage: connecting to MongoDB (db=%s)...", s.config.MongoDatabase)
		mg, err := mongodb.New(ctx, s.config.MongoURI, s.config.MongoDatabase)
		if err != nil {
			log.Printf("WARN storage: mongo connect failed: %v", err)
			s.useMemory()
			return
		}
		log.Println("INFO storage: MongoDB connected")
		s.storage, s.storageName = mg, backend

	default:
		s.useMemory()
	}
}

func (s *Server) useMemory() {
	log.Println("INFO storage: using in-memory storage")
	s.storage, s.storageName = memory.New(), config.StorageMemory
}

func (s *Server) initBlobStore() {
	store, mode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize report archive: %v", err)
	}
	log.Printf("INFO blob: report archive mode: %s", mode)
	s.blobStore = store
}

// routes регистрирует маршруты
func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Auth API
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Stateless calculators
	nutritionHandler := nutrition.NewHandler()
	s.mux.HandleFunc("POST /v1/nutrition/calculate", nutritionHandler.HandleCalculate)

	mealPlanService := mealplans.NewService(s.storage, s.storage)
	mealPlanHandler := mealplans.NewHandler(mealPlanService)
	s.mux.HandleFunc("POST /v1/meal/template", mealPlanHandler.HandleTemplate)

	// Clients API
	clientService := clients.NewService(s.storage, s.storage)
	clientHandler := clients.NewHandler(clientService)
	s.mux.HandleFunc("GET /v1/clients", clientHandler.HandleList)
	s.mux.HandleFunc("POST /v1/clients", clientHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/clients/{id}", clientHandler.HandleGet)
	s.mux.HandleFunc("PATCH /v1/clients/{id}", clientHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/clients/{id}", clientHandler.HandleDelete)

	owned := func(h http.HandlerFunc) http.Handler {
		return requireClientOwned(clientService, h)
	}

	// Week plan API
	s.mux.Handle("GET /v1/clients/{id}/plan", owned(mealPlanHandler.HandleGet))
	s.mux.Handle("PUT /v1/clients/{id}/plan", owned(mealPlanHandler.HandleSave))
	s.mux.Handle("POST /v1/clients/{id}/plan/edit", owned(mealPlanHandler.HandleEdit))

	// Reports API
	renderer := reports.NewRenderer(s.config.ReportProviderName)
	reportService := reports.NewService(s.storage, s.storage, renderer, s.blobStore)
	reportHandler := reports.NewHandlers(reportService)
	s.mux.Handle("GET /v1/clients/{id}/report", owned(reportHandler.HandleDownload))
	s.mux.Handle("POST /v1/clients/{id}/report/archive", owned(reportHandler.HandleArchive))
}

// Handler returns the router wrapped in the middleware chain
// (outermost first): CORS → Rate Limit → Auth → Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = s.authMiddleware.Wrap(handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	archive := config.BlobModeLocal
	if s.blobStore != nil {
		archive = config.BlobModeS3
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"storage": s.storageName,
		"archive": archive,
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("INFO http: listening on http://localhost%s", addr)
	log.Printf("INFO http: health check http://localhost%s/healthz", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
