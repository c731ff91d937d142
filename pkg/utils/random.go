package utils

import (
	"hash/fnv"

	"github.com/google/uuid"
)

// NewBattleID создает уникальный ID боя
func NewBattleID() string {
	return uuid.NewString()
}

// NewSubscriberID создает ID подключения (WebSocket-клиента)
func NewSubscriberID() string {
	return "sub_" + uuid.NewString()[:8]
}

// StringToSeed превращает строку в сид для math/rand (детерминированно).
// Используется, чтобы по имени сценария получать воспроизводимую карту.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
