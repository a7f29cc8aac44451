package chi

import (
	"net/http"

	gochi "github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/vidshare/internal/domain"
)

// WithLoginLimiter rate limits register and login per client IP.
func (s *Server) WithLoginLimiter(l Limiter) *Server {
	s.loginLimit = RateLimit(l, s.logger)
	return s
}

// WithMediaProxy serves p under /media/*.
func (s *Server) WithMediaProxy(p http.Handler) *Server {
	s.proxy = p
	return s
}

// Routes registers the API on r. Ops endpoints stay outside /api/v1 so they skip
// authentication and body sanitizing.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	if s.proxy != nil {
		r.Get("/media/*", s.proxy.ServeHTTP)
	}

	r.Route("/api/v1", func(r gochi.Router) {
		r.Use(Sanitize(s.opts.MaxJSONBytes))
		r.Use(Authenticate(s.tokens, s.users, s.opts.CookieName))

		r.Route("/auth", func(r gochi.Router) {
			r.Group(func(r gochi.Router) {
				if s.loginLimit != nil {
					r.Use(s.loginLimit)
				}
				r.Post("/register", s.Register)
				r.Post("/login", s.Login)
			})
			r.Post("/logout", s.Logout)
			r.Group(func(r gochi.Router) {
				r.Use(RequireAuth)
				r.Get("/me", s.Me)
				r.Put("/updatedetails", s.UpdateDetails)
				r.Put("/avatar", s.UploadAvatar)
			})
		})

		r.Route("/users", func(r gochi.Router) {
			r.Use(RequireRole(domain.RoleAdmin))
			r.Get("/", s.ListUsers)
			r.Get("/{id}", s.GetUser)
			r.Put("/{id}", s.UpdateUser)
			r.Delete("/{id}", s.DeleteUser)
		})

		r.Route("/categories", func(r gochi.Router) {
			r.Get("/", s.ListCategories)
			r.Get("/all-videos", s.CategoryVideos)
			r.Group(func(r gochi.Router) {
				r.Use(RequireRole(domain.RoleAdmin))
				r.Post("/", s.CreateCategory)
				r.Get("/{id}", s.GetCategory)
				r.Put("/{id}", s.UpdateCategory)
				r.Delete("/{id}", s.DeleteCategory)
			})
		})

		r.Route("/videos", func(r gochi.Router) {
			r.Get("/public", s.ListPublicVideos)
			r.Get("/{id}", s.GetVideo)
			r.Put("/{id}/views", s.IncrementViews)
			r.Group(func(r gochi.Router) {
				r.Use(RequireAuth)
				r.Post("/", s.UploadVideo)
				r.Get("/", s.ListOwnVideos)
				r.Get("/private", s.ListPrivateVideos)
				r.Put("/{id}", s.UpdateVideo)
				r.Delete("/{id}", s.DeleteVideo)
				r.Put("/{id}/thumbnails", s.UploadThumbnail)
			})
		})

		r.Route("/comments", func(r gochi.Router) {
			r.Get("/{id}/videos", s.VideoComments)
			r.Group(func(r gochi.Router) {
				r.Use(RequireAuth)
				r.Post("/", s.CreateComment)
				r.Put("/{id}", s.UpdateComment)
				r.Delete("/{id}", s.DeleteComment)
			})
		})

		r.Route("/replies", func(r gochi.Router) {
			r.Use(RequireAuth)
			r.Post("/", s.CreateReply)
			r.Put("/{id}", s.UpdateReply)
			r.Delete("/{id}", s.DeleteReply)
		})

		r.Route("/feelings", func(r gochi.Router) {
			r.Use(RequireAuth)
			r.Post("/", s.ToggleFeeling)
			r.Post("/check", s.CheckFeeling)
			r.Get("/videos", s.LikedVideos)
		})

		r.Route("/subscriptions", func(r gochi.Router) {
			r.Use(RequireAuth)
			r.Post("/", s.ToggleSubscription)
			r.Post("/check", s.CheckSubscription)
			r.Get("/subscribers", s.Subscribers)
			r.Get("/channels", s.SubscribedChannels)
			r.Get("/videos", s.SubscriptionVideos)
		})

		r.Route("/histories", func(r gochi.Router) {
			r.Use(RequireAuth)
			r.Post("/", s.RecordHistory)
			r.Get("/", s.ListHistory)
			r.Delete("/", s.ClearHistory)
			r.Delete("/{id}", s.DeleteHistory)
		})

		r.Post("/search", s.Search)
	})
}
