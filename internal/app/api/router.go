package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/tayeblagha/tts-to-react/pkg/edgetts"
	"github.com/tayeblagha/tts-to-react/pkg/slg"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogchi "github.com/samber/slog-chi"
)

type Config struct {
	Port           int           `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	TmpDir         string        `yaml:"tmp_dir"`
	KeepFiles      bool          `yaml:"keep_files"`
	// zero means wait for the synthesis service indefinitely
	SynthesisTimeout time.Duration `yaml:"synthesis_timeout"`
}

// Synthesizer is what the handlers need from the speech service.
// *edgetts.Client satisfies it.
type Synthesizer interface {
	Save(ctx context.Context, text, voice, path string) error
	ListVoices(ctx context.Context) ([]edgetts.Voice, error)
}

type API struct {
	logger *slog.Logger

	synth Synthesizer

	cfg *Config
}

func NewAPI(cfg *Config, logger *slog.Logger, synth Synthesizer) *API {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"} // react dev server
	}

	return &API{
		cfg: cfg,

		logger: logger,

		synth: synth,
	}
}

func (api *API) NewRouter() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(slogchi.New(api.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.StripSlashes)

	router.Use(middleware.Recoverer)

	router.Use(api.loggerMiddleware)

	router.Handle("/metrics", promhttp.Handler())

	router.Get("/healthz", api.Health)
	router.Get("/voices", api.Voices)
	router.Post("/tts", api.TTS)

	return router
}

func (api *API) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := api.logger.With("request_id", middleware.GetReqID(r.Context()))

		next.ServeHTTP(w, r.WithContext(slg.WithSlog(r.Context(), logger)))
	})
}

func (api *API) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
