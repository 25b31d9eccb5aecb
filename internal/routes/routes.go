package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/voxpoll/voxpoll-backend/internal/handlers"
	"github.com/voxpoll/voxpoll-backend/internal/middleware"
	"github.com/voxpoll/voxpoll-backend/internal/services"
)

// Handlers bundles the HTTP handlers wired by SetupRoutes.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Polls      *handlers.PollHandler
	Options    *handlers.OptionsHandler
	Actions    *handlers.ActionsHandler
	Profiles   *handlers.ProfileHandler
	Categories *handlers.CategoryHandler
}

func SetupRoutes(r *chi.Mux, h Handlers, sessions *services.SessionService) {
	requireAuth := middleware.RequireAuth(sessions)
	optionalAuth := middleware.OptionalAuth(sessions)

	// Auth routes
	r.Post("/api/auth/signup", h.Auth.Signup)
	r.Post("/api/auth/signin", h.Auth.Signin)
	r.With(requireAuth).Get("/api/auth/me", h.Auth.Me)
	r.Post("/api/auth/signout", h.Auth.Signout)

	// Poll routes. Reads work anonymously; the optional viewer widens
	// visibility to the viewer's own private polls.
	r.With(optionalAuth).Get("/api/polls", h.Polls.List)
	r.With(optionalAuth).Get("/api/polls/category/{category}", h.Polls.ListByCategory)
	r.With(optionalAuth).Get("/api/polls/{pollID}", h.Polls.Get)
	r.With(requireAuth).Post("/api/polls", h.Polls.Create)

	// Per-user poll listings
	r.With(optionalAuth).Get("/api/users/{userID}/polls", h.Polls.ListByAuthor)
	r.With(optionalAuth).Get("/api/users/{userID}/votes", h.Polls.ListVoted)
	r.With(optionalAuth).Get("/api/users/{userID}/shares", h.Polls.ListShared)
	r.With(optionalAuth).Get("/api/users/{userID}/bookmarks", h.Polls.ListBookmarked)

	// Option routes
	r.With(optionalAuth).Get("/api/polls/{pollID}/options", h.Options.Get)
	r.With(requireAuth).Post("/api/polls/{pollID}/options", h.Options.Add)
	r.With(requireAuth).Delete("/api/polls/{pollID}/options", h.Options.Remove)

	// Vote, share and bookmark routes
	r.With(requireAuth).Post("/api/polls/{pollID}/vote", h.Actions.Vote)
	r.With(requireAuth).Delete("/api/polls/{pollID}/vote", h.Actions.RetractVote)
	r.With(requireAuth).Put("/api/polls/{pollID}/share", h.Actions.Share)
	r.With(requireAuth).Put("/api/polls/{pollID}/bookmark", h.Actions.Bookmark)

	// Profile routes. Profiles are keyed by username, polls listings by
	// numeric user ID, so they live under separate prefixes.
	r.Get("/api/profiles/{username}", h.Profiles.Get)
	r.With(requireAuth).Put("/api/profile", h.Profiles.Update)
	r.With(requireAuth).Post("/api/profile/picture", h.Profiles.UploadPicture)

	// Category routes
	r.Get("/api/categories", h.Categories.List)
	r.Get("/api/categories/data", h.Categories.Data)
}
