// Package codec converts games to and from their JSON wire form.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/mapleleafu/games-service/models"
)

// DecodeError describes why a request body is not a valid game. Its message
// is meant to be shown to the client as is.
type DecodeError struct {
	Msg string
}

func (e *DecodeError) Error() string {
	return e.Msg
}

// IsDecodeError reports whether err is, or wraps, a *DecodeError.
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// EncodeGame returns the JSON form of one game.
func EncodeGame(game models.Game) ([]byte, error) {
	return json.Marshal(game)
}

// EncodeGames returns the JSON array form of games. A nil slice encodes as [].
func EncodeGames(games []models.Game) ([]byte, error) {
	if games == nil {
		games = []models.Game{}
	}
	return json.Marshal(games)
}

// EncodeMessage returns msg as a JSON string.
func EncodeMessage(msg string) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeGame reads exactly one game object from r. Field names must match
// exactly, including case; unknown fields are ignored. Missing or mistyped
// fields produce a *DecodeError. Errors from the reader itself are returned
// wrapped, not as a *DecodeError.
func DecodeGame(r io.Reader) (models.Game, error) {
	dec := json.NewDecoder(r)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return models.Game{}, describe(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil && !isSyntaxError(err) {
			return models.Game{}, fmt.Errorf("read body: %w", err)
		}
		return models.Game{}, &DecodeError{Msg: "request body must contain a single JSON object"}
	}

	var top map[string]json.RawMessage
	if isNull(raw) {
		return models.Game{}, &DecodeError{Msg: "request body must be a JSON object, got null"}
	}
	if err := decodeField(raw, "", &top); err != nil {
		return models.Game{}, err
	}

	var (
		game models.Game
		dims map[string]json.RawMessage
	)
	if err := decodeField(top["id"], "id", &game.ID); err != nil {
		return models.Game{}, err
	}
	if err := decodeField(top["dimensions"], "dimensions", &dims); err != nil {
		return models.Game{}, err
	}
	if err := decodeField(dims["x"], "dimensions.x", &game.Dimensions.X); err != nil {
		return models.Game{}, err
	}
	if err := decodeField(dims["y"], "dimensions.y", &game.Dimensions.Y); err != nil {
		return models.Game{}, err
	}
	return game, nil
}

// decodeField unmarshals one value looked up by its exact key. An absent key
// and an explicit null are both reported as missing.
func decodeField(raw json.RawMessage, field string, dst any) error {
	if len(raw) == 0 || isNull(raw) {
		return &DecodeError{Msg: fmt.Sprintf("missing field %q", field)}
	}
	err := json.Unmarshal(raw, dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return &DecodeError{Msg: fmt.Sprintf("invalid field %q: %v", field, err)}
	}
	if field == "" {
		return &DecodeError{Msg: fmt.Sprintf("request body must be a JSON object, got %s", typeErr.Value)}
	}
	kind := "type"
	if strings.HasPrefix(typeErr.Value, "number ") {
		kind = "value"
	}
	return &DecodeError{Msg: fmt.Sprintf("invalid %s for field %q: expected %s, got %s",
		kind, field, expected(typeErr.Type), typeErr.Value)}
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func isSyntaxError(err error) bool {
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr)
}

func describe(err error) error {
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return &DecodeError{Msg: "request body is empty"}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &DecodeError{Msg: "malformed JSON: unexpected end of input"}
	case errors.As(err, &syntaxErr):
		return &DecodeError{Msg: fmt.Sprintf("malformed JSON at offset %d: %s", syntaxErr.Offset, syntaxErr.Error())}
	}
	return fmt.Errorf("read body: %w", err)
}

func expected(t reflect.Type) string {
	if t == nil {
		return "a different type"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d-bit integer", t.Bits())
	case reflect.Int:
		return "integer"
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return t.String()
}
