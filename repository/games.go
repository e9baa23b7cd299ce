package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mapleleafu/games-service/models"
)

const listGamesSQL = "SELECT id, dimension_x, dimension_y FROM games"

var tracer = otel.Tracer("github.com/mapleleafu/games-service/repository")

// GameStore persists games.
type GameStore interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	CreateGame(ctx context.Context, game models.Game) error
}

// Store runs raw SQL against the shared pool. Every call gets its own
// connection from the pool and its own timeout.
type Store struct {
	sqlDB        *sql.DB
	dialect      dialect
	queryTimeout time.Duration
	logger       zerolog.Logger
}

var _ GameStore = (*Store)(nil)

// Close closes the pool.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ListGames returns every stored game in the order the store yields them.
func (s *Store) ListGames(ctx context.Context) (games []models.Game, err error) {
	ctx, span := s.startSpan(ctx, "repository.ListGames")
	defer func() { endSpan(span, err) }()

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.sqlDB.QueryContext(ctx, listGamesSQL)
	if err != nil {
		return nil, classify("list games", s.dialect, err)
	}
	defer rows.Close()

	games = []models.Game{}
	for rows.Next() {
		var game models.Game
		if err := rows.Scan(&game.ID, &game.Dimensions.X, &game.Dimensions.Y); err != nil {
			return nil, classify("scan game", s.dialect, err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list games", s.dialect, err)
	}

	span.SetAttributes(attribute.Int("games.count", len(games)))
	return games, nil
}

// CreateGame inserts one game. An existing row with the same id is left
// untouched and a conflict error is returned.
func (s *Store) CreateGame(ctx context.Context, game models.Game) (err error) {
	ctx, span := s.startSpan(ctx, "repository.CreateGame")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int64("game.id", game.ID))

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	_, err = s.sqlDB.ExecContext(ctx, s.dialect.insertGameSQL, game.ID, game.Dimensions.X, game.Dimensions.Y)
	if err != nil {
		return classify("create game", s.dialect, err)
	}

	s.logger.Debug().Int64("game_id", game.ID).Msg("game created")
	return nil
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", s.dialect.name)),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
