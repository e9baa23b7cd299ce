package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mapleleafu/games-service/codec"
	"github.com/mapleleafu/games-service/repository"
	"github.com/mapleleafu/games-service/responses"
	"github.com/mapleleafu/games-service/utils"
)

const (
	defaultMaxBodyBytes = 1 << 20
	createdMessage      = "Ok!"
)

// GamesHandler serves the /games resource. It keeps no state between
// requests apart from the injected store.
type GamesHandler struct {
	store        repository.GameStore
	maxBodyBytes int64
}

// NewGamesHandler returns a handler backed by store. A non-positive
// maxBodyBytes falls back to 1 MiB.
func NewGamesHandler(store repository.GameStore, maxBodyBytes int64) *GamesHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &GamesHandler{store: store, maxBodyBytes: maxBodyBytes}
}

func (h *GamesHandler) FetchGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.store.ListGames(r.Context())
	if err != nil {
		logStorageError(r, err, "Error fetching games")
		utils.HandleError(w, storageAPIError(err, "Failed to fetch games."))
		return
	}

	body, err := codec.EncodeGames(games)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Error encoding games")
		utils.HandleError(w, responses.InternalServerError{Msg: "Error processing games."})
		return
	}

	utils.HandleSuccess(w, http.StatusOK, body)
}

func (h *GamesHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	game, err := codec.DecodeGame(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case codec.IsDecodeError(err):
			utils.HandleError(w, responses.BadRequestError{Msg: err.Error()})
		case errors.As(err, &maxBytesErr):
			utils.HandleError(w, responses.PayloadTooLargeError{
				Msg: fmt.Sprintf("request body must not exceed %d bytes", maxBytesErr.Limit),
			})
		default:
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Error reading request body")
			utils.HandleError(w, responses.BadRequestError{Msg: "could not read request body"})
		}
		return
	}

	if err := h.store.CreateGame(r.Context(), game); err != nil {
		if repository.IsConflict(err) {
			utils.HandleError(w, responses.ConflictError{
				Msg: fmt.Sprintf("game with id %d already exists", game.ID),
			})
			return
		}
		logStorageError(r, err, "Error creating game")
		utils.HandleError(w, storageAPIError(err, "Failed to create game."))
		return
	}

	body, err := codec.EncodeMessage(createdMessage)
	if err != nil {
		utils.HandleError(w, responses.InternalServerError{Msg: "Error processing request."})
		return
	}
	utils.HandleSuccess(w, http.StatusCreated, body)
}

// storageAPIError maps a store failure to a client facing error. Driver
// messages are never passed through.
func storageAPIError(err error, queryMsg string) error {
	switch {
	case repository.IsConflict(err):
		return responses.ConflictError{Msg: "resource already exists"}
	case repository.IsUnavailable(err):
		return responses.ServiceUnavailableError{Msg: "storage is unavailable, try again later"}
	}
	return responses.InternalServerError{Msg: queryMsg}
}

func logStorageError(r *http.Request, err error, msg string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg(msg)
}
