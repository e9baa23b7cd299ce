package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/mapleleafu/games-service/middleware"
	"github.com/mapleleafu/games-service/responses"
	"github.com/mapleleafu/games-service/utils"
)

// NewRouter wires the /games routes and wraps the whole router, including
// its 404 and 405 responses, in the middleware chain.
func NewRouter(games *GamesHandler, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/games", games.FetchGames).Methods(http.MethodGet)
	r.HandleFunc("/games", games.CreateGame).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	var h http.Handler = r
	h = middleware.Recover(h)
	h = middleware.AccessLog(h)
	h = middleware.Tracing(h)
	h = middleware.RequestID(logger)(h)
	return h
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.HandleError(w, responses.NotFoundError{Msg: "Resource not found."})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", "GET, POST")
	utils.HandleError(w, responses.MethodNotAllowedError{Msg: "Method not allowed."})
}
