package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"ideaforge-backend/application/services"
	"ideaforge-backend/infrastructure/config"
	"ideaforge-backend/interfaces/http/rest/handlers"
	"ideaforge-backend/interfaces/http/rest/middleware"
	"ideaforge-backend/pkg/auth"
)

// analyzeRequestsPerMinute caps how often one user may start a paid analysis
const analyzeRequestsPerMinute = 10

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	ideas     *services.IdeaService
	documents *services.DocumentService
	analyses  *services.AnalysisService
	credits   *services.CreditService
	users     *services.UserService
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	ideas *services.IdeaService,
	documents *services.DocumentService,
	analyses *services.AnalysisService,
	credits *services.CreditService,
	users *services.UserService,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		ideas:     ideas,
		documents: documents,
		analyses:  analyses,
		credits:   credits,
		users:     users,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.ideaforge.app"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	validator := auth.NewJWTValidator(rt.cfg.JWTSecret, rt.cfg.JWTIssuer)
	analyzeLimiter := auth.NewUserRateLimiter(analyzeRequestsPerMinute)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(validator, rt.logger))

		// Idea endpoints
		r.Route("/ideas", func(r chi.Router) {
			ideaHandler := handlers.NewIdeaHandler(rt.ideas, rt.logger)
			r.Post("/", ideaHandler.CreateIdea)
			r.Post("/import", ideaHandler.ImportIdeas)
			r.Get("/", ideaHandler.ListIdeas)
			r.Get("/{ideaID}", ideaHandler.GetIdea)
			r.Patch("/{ideaID}", ideaHandler.UpdateIdea)
			r.Delete("/{ideaID}", ideaHandler.DeleteIdea)
			r.Post("/{ideaID}/tags", ideaHandler.AddTag)
			r.Delete("/{ideaID}/tags/{tag}", ideaHandler.RemoveTag)

			// Document endpoints scoped to an idea
			documentHandler := handlers.NewDocumentHandler(rt.documents, rt.logger)
			r.Post("/{ideaID}/documents", documentHandler.CreateDocument)
			r.Get("/{ideaID}/documents", documentHandler.ListIdeaDocuments)
			r.Get("/{ideaID}/documents/{docType}", documentHandler.GetLatest)
			r.Put("/{ideaID}/documents/{docType}", documentHandler.EditDocument)
			r.Get("/{ideaID}/documents/{docType}/versions", documentHandler.GetVersionHistory)
			r.Post("/{ideaID}/documents/{docType}/versions/{version}/restore", documentHandler.RestoreVersion)
		})

		// Direct document lookup
		r.Get("/documents/{documentID}", handlers.NewDocumentHandler(rt.documents, rt.logger).GetDocument)

		// Analysis endpoints; scoring spends credits so it is rate limited
		r.Route("/analyses", func(r chi.Router) {
			analysisHandler := handlers.NewAnalysisHandler(rt.analyses, rt.logger)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(analyzeLimiter))
				r.Post("/idea", analysisHandler.AnalyzeIdea)
				r.Post("/hackathon", analysisHandler.AnalyzeHackathon)
				r.Post("/{analysisID}/rescore", analysisHandler.RescoreAnalysis)
			})
			r.Get("/", analysisHandler.ListAnalyses)
			r.Get("/{analysisID}", analysisHandler.GetAnalysis)
			r.Delete("/{analysisID}", analysisHandler.DeleteAnalysis)
		})

		// Credit ledger endpoints
		r.Route("/credits", func(r chi.Router) {
			creditHandler := handlers.NewCreditHandler(rt.credits, rt.users, rt.logger)
			r.Get("/balance", creditHandler.GetBalance)
			r.Get("/transactions", creditHandler.GetHistory)
			r.Post("/adjustments", creditHandler.AdminAdjust)
		})

		// Account endpoints
		r.Route("/users", func(r chi.Router) {
			userHandler := handlers.NewUserHandler(rt.users, rt.logger)
			r.Post("/me", userHandler.Register)
			r.Get("/me", userHandler.GetProfile)
			r.Put("/me/preferences", userHandler.UpdatePreferences)
			r.Put("/{userID}/tier", userHandler.ChangeTier)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
