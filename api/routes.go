package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the admin (session-gated) and public route groups.
func setupRoutes(r chi.Router, handlers *routeHandlers, sessionMiddleware sessionMiddleware) {
	r.Get("/health", handlers.healthHandler.health())

	// Login is the only unauthenticated auth endpoint
	r.Post("/api/auth/login", handlers.authHandler.login())

	// Authenticated admin routes
	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware.authenticate)
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/api/auth/logout", handlers.authHandler.logout())
		r.Get("/api/auth/me", handlers.authHandler.me())

		// Project Handler endpoints
		r.Get("/api/projects", handlers.projectHandler.getAllProjects())
		r.Post("/api/projects", handlers.projectHandler.createProject())
		r.Get("/api/projects/{projectID}", handlers.projectHandler.getProject())
		r.Put("/api/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/api/projects/{projectID}", handlers.projectHandler.deleteProject())

		// Log Handler endpoints
		r.Get("/api/projects/{projectID}/logs", handlers.logHandler.getLogs())
		r.Post("/api/projects/{projectID}/logs", handlers.logHandler.createLog())

		// Feedback (admin read side)
		r.Get("/api/projects/{projectID}/feedbacks", handlers.projectHandler.getFeedbacks())

		// Artifact Handler endpoints
		r.Get("/api/projects/{projectID}/artifacts", handlers.artifactHandler.getArtifacts())
		r.Post("/api/projects/{projectID}/artifacts", handlers.artifactHandler.createArtifact())
		r.Patch("/api/projects/{projectID}/artifacts/{artifactID}", handlers.artifactHandler.updateArtifact())
		r.Delete("/api/projects/{projectID}/artifacts/{artifactID}", handlers.artifactHandler.deleteArtifact())
		r.Get("/api/projects/{projectID}/artifacts/{artifactID}/file", handlers.artifactHandler.downloadArtifact())
	})

	// Public token-scoped routes, no session
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/api/track/validate", handlers.trackHandler.validateToken())
		r.Post("/api/track/recovery", handlers.trackHandler.recoverByPhone())
		r.Get("/api/track/{token}", handlers.trackHandler.getByToken())
		r.Post("/api/track/{token}/feedback", handlers.trackHandler.submitFeedback())
		r.Get("/api/track/{token}/updates/images/{imageID}", handlers.trackHandler.getImage())
	})
}
