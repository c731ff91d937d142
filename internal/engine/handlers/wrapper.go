package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/michaldrozd/spellcross-sub000/pkg/api"
)

// ErrMissingPayload - команда с данными (MOVE, ATTACK...) пришла без payload.
var ErrMissingPayload = errors.New("missing payload")

// TypedHandlerFunc - хендлер боевой команды, получает уже разобранный payload
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - хендлер команды без данных (END_TURN, AI_TURN)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload превращает типизированный хендлер в HandlerFunc сессии.
// Битый или невалидный payload - ошибка протокола, до процессора он не доходит
// и в запись боя не попадает.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return Result{}, ErrMissingPayload
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return Result{}, fmt.Errorf("invalid payload format: %w", err)
		}

		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}

		return handler(ctx, payload)
	}
}

// WithEmptyPayload - обертка для END_TURN и AI_TURN, payload игнорируется
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}
