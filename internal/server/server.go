package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/domain"
)

type WorkoutGenerator interface {
	GenerateWorkouts(ctx context.Context, requirements string, equipment []string, opts *domain.WorkoutOptions) (*domain.WorkoutResponse, error)
}

type VideoResolver interface {
	Resolve(ctx context.Context, exerciseName string) domain.VideoSearchResult
}

type VideoScraper interface {
	SearchShorts(ctx context.Context, query string) (domain.ScrapeResult, error)
}

type PlanStore interface {
	Save(ctx context.Context, plan domain.WorkoutResponse) (domain.SavedPlan, error)
	Get(ctx context.Context, id string) (domain.SavedPlan, error)
	List(ctx context.Context) ([]domain.SavedPlan, error)
}

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Generator WorkoutGenerator
	Videos    VideoResolver
	Scraper   VideoScraper
	Plans     PlanStore
	Instr     *Instrumentation
	Logger    *zap.Logger
	// Info is reported as-is by /healthz.
	Info   map[string]any
	Checks map[string]HealthCheck
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	generator WorkoutGenerator
	videos    VideoResolver
	scraper   VideoScraper
	plans     PlanStore
	instr     *Instrumentation
	logger    *zap.Logger
	info      map[string]any
	checks    map[string]HealthCheck
	router    chi.Router
}

func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Instr == nil {
		deps.Instr = NewTestInstrumentation()
	}
	s := &Server{
		generator: deps.Generator,
		videos:    deps.Videos,
		scraper:   deps.Scraper,
		plans:     deps.Plans,
		instr:     deps.Instr,
		logger:    deps.Logger,
		info:      deps.Info,
		checks:    deps.Checks,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(PanicRecovery(s.instr, s.logger))
	s.router.Use(RequestLogging(s.logger))
	s.router.Use(RequestMetrics(s.instr))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.instr.Gatherer(), promhttp.HandlerOpts{}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/youtube-search", s.handleYouTubeSearch)
		r.Get("/videos", s.handleResolveVideo)
		r.Post("/workouts", s.handleGenerateWorkouts)

		r.Route("/plans", func(r chi.Router) {
			r.Post("/", s.handleSavePlan)
			r.Get("/", s.handleListPlans)
			r.Get("/{id}", s.handleGetPlan)
		})
	})
}
