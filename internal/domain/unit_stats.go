package domain

import "math"

// RecomputeStance выводит стойку из здоровья и морали.
func (u *Unit) RecomputeStance() {
	u.Stance = StanceFor(u.Health, u.Morale)
}

// StanceFor: destroyed при health=0, иначе routed при морали ≤ 20,
// suppressed при ≤ 40, иначе ready.
func StanceFor(health, morale int) Stance {
	switch {
	case health <= 0:
		return StanceDestroyed
	case morale <= RoutedMorale:
		return StanceRouted
	case morale <= SuppressedMorale:
		return StanceSuppressed
	default:
		return StanceReady
	}
}

// TakeDamage наносит урон здоровью и морали. Возвращает true, если юнит уничтожен этим ударом.
func (u *Unit) TakeDamage(damage, moraleDamage int) bool {
	if u.IsDestroyed() {
		return false
	}
	if damage < 0 {
		damage = 0
	}
	if moraleDamage < 0 {
		moraleDamage = 0
	}

	u.Health = clampInt(u.Health-damage, 0, u.MaxHealth)
	u.Morale = clampInt(u.Morale-moraleDamage, 0, MaxMorale)

	// Любое попадание сбивает окапывание
	if u.Entrenchment > 0 {
		u.Entrenchment--
	}

	u.RecomputeStance()
	return u.IsDestroyed()
}

// RestoreMorale поднимает мораль (не выше MaxMorale юнита).
func (u *Unit) RestoreMorale(amount int) {
	if u.IsDestroyed() {
		return
	}
	u.Morale = clampInt(u.Morale+amount, 0, min(u.MaxMorale, MaxMorale))
}

// HasAP проверяет, хватает ли очков действия (с допуском на дрейф float).
func (u *Unit) HasAP(cost float64) bool {
	return u.AP+CostEpsilon >= cost
}

// SpendAP тратит очки. Возвращает false, если не хватило.
func (u *Unit) SpendAP(cost float64) bool {
	if !u.HasAP(cost) {
		return false
	}
	u.AP = math.Max(0, u.AP-cost)
	return true
}

// ResetAP восстанавливает AP до максимума (в начале каждого хода).
func (u *Unit) ResetAP() {
	if u.IsDestroyed() {
		u.AP = 0
		return
	}
	u.AP = u.MaxAP
}

// GainXP начисляет опыт и возвращает список достигнутых уровней
// (порог каждого уровня - 100×level, за раз можно взять несколько).
func (u *Unit) GainXP(amount int) []int {
	if amount <= 0 {
		return nil
	}
	if u.Level < StartingLevel {
		u.Level = StartingLevel
	}
	u.XP += amount

	var levels []int
	for u.XP >= XPLevelStep*u.Level {
		u.Level++
		levels = append(levels, u.Level)
	}
	return levels
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
