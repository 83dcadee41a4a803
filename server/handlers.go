package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gumshoeworks/gumshoe/server/middle"
	"github.com/gumshoeworks/gumshoe/server/result"
)

const (
	APIPathPrefix = "/api/v1"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// p is a quick parameter in a URI, made very small to ease readability in
// route listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that
		// else treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

// endpointFunc handles one API call and says what to write back.
type endpointFunc func(req *http.Request) result.Result

// Endpoint adapts an endpointFunc into an http.HandlerFunc with panic
// recovery.
func Endpoint(ep endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		ep(req).WriteResponse(w, req)
	}
}

func newRouter(gs *GumshoeServer) chi.Router {
	r := chi.NewRouter()

	r.Mount(APIPathPrefix, newAPIRouter(gs))

	return r
}

func newAPIRouter(gs *GumshoeServer) chi.Router {
	r := chi.NewRouter()

	r.Mount("/login", newLoginRouter(gs))
	r.Mount("/tokens", newTokensRouter(gs))
	r.Mount("/users", newUsersRouter(gs))
	r.Mount("/sessions", newSessionsRouter(gs))
	r.Mount("/info", newInfoRouter(gs))
	r.HandleFunc("/info/", RedirectNoTrailingSlash)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		result.NotFound().WriteResponse(w, req)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(gs.unauthedDelay)
		result.MethodNotAllowed(req).WriteResponse(w, req)
	})

	return r
}

func newLoginRouter(gs *GumshoeServer) chi.Router {
	reqAuth := middle.RequireAuth(gs.db.Users(), gs.jwtSecret, gs.unauthedDelay)

	r := chi.NewRouter()

	r.Post("/", Endpoint(gs.epCreateLogin))
	r.With(reqAuth).Delete("/"+p("id:uuid"), Endpoint(gs.epDeleteLogin))
	r.HandleFunc("/"+p("id:uuid")+"/", RedirectNoTrailingSlash)

	return r
}

func newTokensRouter(gs *GumshoeServer) chi.Router {
	reqAuth := middle.RequireAuth(gs.db.Users(), gs.jwtSecret, gs.unauthedDelay)

	r := chi.NewRouter()

	r.With(reqAuth).Post("/", Endpoint(gs.epCreateToken))

	return r
}

func newUsersRouter(gs *GumshoeServer) chi.Router {
	reqAuth := middle.RequireAuth(gs.db.Users(), gs.jwtSecret, gs.unauthedDelay)

	r := chi.NewRouter()

	r.Use(reqAuth)

	r.Post("/", Endpoint(gs.epCreateUser))

	return r
}

func newSessionsRouter(gs *GumshoeServer) chi.Router {
	reqAuth := middle.RequireAuth(gs.db.Users(), gs.jwtSecret, gs.unauthedDelay)

	r := chi.NewRouter()

	r.Use(reqAuth)

	r.Get("/", Endpoint(gs.epListSessions))
	r.Post("/", Endpoint(gs.epCreateSession))

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", Endpoint(gs.epGetSession))
		r.Post("/commands", Endpoint(gs.epSubmitCommand))
		r.Get("/commands", Endpoint(gs.epGetTranscript))
	})

	return r
}

func newInfoRouter(gs *GumshoeServer) chi.Router {
	optAuth := middle.OptionalAuth(gs.db.Users(), gs.jwtSecret, gs.unauthedDelay)

	r := chi.NewRouter()

	r.With(optAuth).Get("/", Endpoint(gs.epGetInfo))

	return r
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same
// URL as the request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	redirPath := strings.TrimRight(req.URL.Path, "/")
	res := result.Response(http.StatusPermanentRedirect, nil, "redirect -> %s", redirPath)
	res = res.WithHeader("Location", redirPath)
	res.WriteResponse(w, req)
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicRecovered bool) {
	if panicErr := recover(); panicErr != nil {
		result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		).WriteResponse(w, req)
		return true
	}
	return false
}
