package engine

import (
	"errors"

	"github.com/michaldrozd/spellcross-sub000/internal/systems"
)

// Стабильные сообщения об отказе команды. Клиенты и тесты сравнивают их как строки.
const (
	ErrBattleOver  = "Battle is over"
	ErrNotYourTurn = "Not your turn"

	ErrUnitNotFound   = systems.MsgUnitNotFound
	ErrTargetNotFound = systems.MsgTargetNotFound
	ErrUnitEmbarked   = systems.MsgUnitEmbarked
	ErrUnitDestroyed  = "Unit is destroyed"
	ErrUnitRouted     = systems.MsgUnitRouted
	ErrNotEnoughAP    = systems.MsgNotEnoughAP

	// Движение
	ErrEmptyPath       = "Path is empty"
	ErrPathOutOfBounds = "Path leaves the battlefield"
	ErrPathNotAdjacent = "Path steps must be adjacent"
	ErrPathRevisit     = "Path revisits a tile"
	ErrPathCollision   = "Path collides with another unit"
	ErrPathImpassable  = "Path crosses impassable terrain"

	// Атака
	ErrUnknownWeapon    = systems.MsgUnknownWeapon
	ErrFriendlyTarget   = systems.MsgFriendlyTarget
	ErrTargetDestroyed  = systems.MsgTargetDestroyed
	ErrTargetOutOfRange = systems.MsgTargetOutOfRange
	ErrNoLineOfSight    = systems.MsgNoLineOfSight

	// Overwatch и посадка
	ErrNoWeapons          = "Unit has no weapons"
	ErrNotTransport       = "Unit is not a transport"
	ErrTransportFull      = "Transport is full"
	ErrCannotEmbark       = "Unit type cannot embark"
	ErrNotAdjacent        = "Units are not adjacent"
	ErrNotEmbarked        = "Unit is not embarked"
	ErrInvalidDestination = "Invalid destination"
)

// Ошибки уровня сервиса (битые запросы, а не игровые отказы).
var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrUnknownFaction   = errors.New("unknown faction")
	ErrBattleNotFound   = errors.New("battle not found")
	ErrPlaybackDiverged = errors.New("replay diverged from recorded actions")
)
