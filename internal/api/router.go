package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/social-be/internal/api/handlers"
	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/services"
	"github.com/isdelr/social-be/internal/web"
	"github.com/isdelr/social-be/internal/websocket"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Identity      auth.IdentityResolver
	Tokens        *auth.TokenManager
	Users         services.UserServiceProvider
	Posts         services.PostServiceProvider
	Notifications services.NotificationServiceProvider
	Sessions      services.SessionServiceProvider
	Hub           *websocket.Hub

	UploadDir      string
	AllowedOrigins []string
	SecureCookies  bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Every route sees the caller's identity, if any; handlers decide what anonymous callers get.
	r.Use(auth.Identify(deps.Identity))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.Users)
	sessionHandler := handlers.NewSessionHandler(deps.Users, deps.Sessions, deps.Tokens, deps.SecureCookies)
	postHandler := handlers.NewPostHandler(deps.Posts, deps.Users)
	notificationHandler := handlers.NewNotificationHandler(deps.Notifications, deps.Users)
	uploadHandler := handlers.NewUploadHandler(deps.UploadDir)

	r.Route("/api", func(r chi.Router) {
		r.Get("/me", userHandler.GetMe)
		r.Get("/users/{username}", userHandler.GetProfile)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", sessionHandler.Register)
			r.Post("/sign-in", sessionHandler.SignIn)
			r.Post("/sign-out", sessionHandler.SignOut)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.List)
			r.Post("/", postHandler.Create)
		})

		r.Get("/notifications", notificationHandler.GetMine)
		r.Post("/uploads/post-image", uploadHandler.UploadPostImage)

		if deps.Hub != nil {
			r.Get("/ws", handlers.NewWebSocketHandler(deps.Hub, deps.AllowedOrigins).Serve)
		}
	})

	r.Handle(handlers.UploadURLPrefix+"*",
		http.StripPrefix(handlers.UploadURLPrefix, http.FileServer(http.Dir(deps.UploadDir))))

	web.NewHandler(deps.Users, deps.Posts, deps.Notifications).Routes(r)

	return r
}
