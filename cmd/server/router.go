package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jwhitfield/studygen/internal/api"
	apiMiddleware "github.com/jwhitfield/studygen/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware. Health stays outside the API key gate so load balancers can
// probe without credentials.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	lessonHandler := api.NewLessonHandler(app.engine, app.logger)
	engineHandler := api.NewEngineHandler(api.EngineInfo{
		CredentialCount:  app.engine.CredentialCount(),
		Model:            app.config.LLM.ModelName,
		BaseStaggerDelay: app.config.Batch.BaseStaggerDelay,
		TaskTimeout:      app.config.Batch.TaskTimeout,
		MaxRetries:       app.config.Batch.MaxRetries,
	})
	authMiddleware := apiMiddleware.NewAPIKeyMiddleware(app.config.Server.APIKey)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/lessons/generate", lessonHandler.GenerateLesson)
		r.Get("/engine", engineHandler.GetEngineInfo)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
