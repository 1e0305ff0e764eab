package server

import (
	"net/http"

	"blog-service/handlers"

	"github.com/umakantv/go-utils/httpserver"
)

// Auth types understood by checkAuth; httpserver skips the callback for authNone
const (
	authNone   = "none"
	authCaller = "caller"
)

// Route binds a handler to a method and mux path template
type Route struct {
	Name     string
	Method   string
	Path     string
	AuthType string
	Handler  httpserver.HandlerFunc
}

// Handlers groups everything the route table dispatches to
type Handlers struct {
	Health   httpserver.HandlerFunc
	Auth     *handlers.AuthHandler
	Posts    *handlers.PostHandler
	Comments *handlers.CommentHandler
}

// Routes returns the public API of the service
func Routes(h Handlers) []Route {
	return []Route{
		{Name: "HealthCheck", Method: http.MethodGet, Path: "/health", AuthType: authNone, Handler: h.Health},

		{Name: "Register", Method: http.MethodPost, Path: "/auth/register", AuthType: authNone, Handler: h.Auth.Register},
		{Name: "Login", Method: http.MethodPost, Path: "/auth/login", AuthType: authNone, Handler: h.Auth.Login},

		{Name: "ListPosts", Method: http.MethodGet, Path: "/posts", AuthType: authCaller, Handler: h.Posts.ListPosts},
		{Name: "CreatePost", Method: http.MethodPost, Path: "/posts", AuthType: authCaller, Handler: h.Posts.CreatePost},
		{Name: "GetPost", Method: http.MethodGet, Path: "/posts/{id}", AuthType: authCaller, Handler: h.Posts.GetPost},
		{Name: "UpdatePost", Method: http.MethodPut, Path: "/posts/{id}", AuthType: authCaller, Handler: h.Posts.UpdatePost},
		{Name: "DeletePost", Method: http.MethodDelete, Path: "/posts/{id}", AuthType: authCaller, Handler: h.Posts.DeletePost},
		{Name: "ListPostsByCategory", Method: http.MethodGet, Path: "/posts/category/{category}", AuthType: authCaller, Handler: h.Posts.ListByCategory},
		{Name: "ListPostsByTag", Method: http.MethodGet, Path: "/posts/tag/{tag}", AuthType: authCaller, Handler: h.Posts.ListByTag},
		{Name: "ListPostsByAuthor", Method: http.MethodGet, Path: "/posts/author/{id}", AuthType: authCaller, Handler: h.Posts.ListByAuthor},

		{Name: "ListComments", Method: http.MethodGet, Path: "/comments/post/{id}", AuthType: authCaller, Handler: h.Comments.ListByPost},
		{Name: "CreateComment", Method: http.MethodPost, Path: "/comments/post/{id}", AuthType: authCaller, Handler: h.Comments.CreateComment},
		{Name: "UpdateComment", Method: http.MethodPut, Path: "/comments/{id}", AuthType: authCaller, Handler: h.Comments.UpdateComment},
		{Name: "DeleteComment", Method: http.MethodDelete, Path: "/comments/{id}", AuthType: authCaller, Handler: h.Comments.DeleteComment},
	}
}

// preflightRoutes adds one OPTIONS route per distinct path in routes
func preflightRoutes(routes []Route, allowedOrigin string) []Route {
	seen := map[string]bool{}
	var out []Route
	for _, route := range routes {
		if seen[route.Path] {
			continue
		}
		seen[route.Path] = true
		out = append(out, Route{
			Name:     "Preflight " + route.Path,
			Method:   http.MethodOptions,
			Path:     route.Path,
			AuthType: authNone,
			Handler:  preflight(allowedOrigin),
		})
	}
	return out
}
