package systems

import (
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
)

// Стабильные сообщения об отказе в атаке (показываются в UI, проверяются в тестах).
const (
	MsgUnitNotFound      = "Unit not found"
	MsgTargetNotFound    = "Target not found"
	MsgUnitEmbarked      = "Unit is embarked"
	MsgNotEnoughAP       = "Not enough action points"
	MsgUnitRouted        = "Unit is routed"
	MsgUnknownWeapon     = "Unknown weapon"
	MsgOutOfAmmo         = "Out of ammunition"
	MsgFriendlyTarget    = "Cannot attack friendly unit"
	MsgTargetDestroyed   = "Target already destroyed"
	MsgTargetUnavailable = "Target is not on the battlefield"
	MsgTargetRestricted  = "Weapon cannot target this unit type"
	MsgTargetOutOfRange  = "Target out of range"
	MsgNoLineOfSight     = "Target not in line of sight"
)

// ValidationResult - результат проверки атаки
type ValidationResult struct {
	Valid   bool
	Message string // Сообщение об ошибке, если Valid == false
}

func invalid(msg string) ValidationResult {
	return ValidationResult{Valid: false, Message: msg}
}

// ValidateAttack проверяет, может ли attacker выстрелить по defender из weaponID.
// Порядок проверок фиксирован: первая сработавшая причина и возвращается.
// Не меняет состояние!
func ValidateAttack(m *domain.BattlefieldMap, attacker, defender *domain.Unit, weaponID string) ValidationResult {
	if attacker == nil || attacker.IsDestroyed() {
		return invalid(MsgUnitNotFound)
	}
	if defender == nil {
		return invalid(MsgTargetNotFound)
	}
	if attacker.IsEmbarked() {
		return invalid(MsgUnitEmbarked)
	}
	if !CanAffordAttack(attacker) {
		return invalid(MsgNotEnoughAP)
	}
	if attacker.Stance == domain.StanceRouted {
		return invalid(MsgUnitRouted)
	}

	weapon, ok := attacker.Weapons[weaponID]
	if !ok {
		return invalid(MsgUnknownWeapon)
	}
	if attacker.AmmoCapacity > 0 && attacker.Ammo <= 0 {
		return invalid(MsgOutOfAmmo)
	}
	if defender.Faction == attacker.Faction {
		return invalid(MsgFriendlyTarget)
	}
	if defender.IsDestroyed() {
		return invalid(MsgTargetDestroyed)
	}
	if defender.IsEmbarked() {
		return invalid(MsgTargetUnavailable)
	}
	if !CanTarget(weapon, defender.Type) {
		return invalid(MsgTargetRestricted)
	}
	if m.Distance(attacker.Coord, defender.Coord) > CalculateAttackRange(m, attacker, weaponID) {
		return invalid(MsgTargetOutOfRange)
	}
	if !HasLineOfSight(m, attacker.Coord, defender.Coord) {
		return invalid(MsgNoLineOfSight)
	}

	return ValidationResult{Valid: true}
}

// CanReact - может ли юнит на overwatch выстрелить по цели прямо сейчас.
// AP не проверяются: их уже списали при постановке в overwatch.
func CanReact(m *domain.BattlefieldMap, watcher, target *domain.Unit) (string, bool) {
	if !watcher.IsOnField() || !watcher.HasStatus(domain.StatusOverwatch) {
		return "", false
	}
	if watcher.Stance == domain.StanceRouted || !target.IsOnField() || watcher.Faction == target.Faction {
		return "", false
	}
	if !HasLineOfSight(m, watcher.Coord, target.Coord) {
		return "", false
	}

	if watcher.AmmoCapacity > 0 && watcher.Ammo <= 0 {
		return "", false
	}

	// Самое мощное из подходящих стволов
	dist := m.Distance(watcher.Coord, target.Coord)
	best, bestPower := "", -1
	for _, id := range watcher.WeaponIDs() {
		w := watcher.Weapons[id]
		if CanTarget(w, target.Type) && dist <= CalculateAttackRange(m, watcher, id) && w.Power > bestPower {
			best, bestPower = id, w.Power
		}
	}
	return best, best != ""
}
