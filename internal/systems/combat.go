package systems

import (
	"math"
	"math/rand"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Коэффициенты формулы попадания и урона.
const (
	MinHitChance       = 0.05
	MaxHitChance       = 0.98
	ElevationHitAdjust = 0.06
	RangePenaltyFactor = 0.12
	CoverPenaltyFactor = 0.04
	ArmorDamageFactor  = 0.65
	CoverDamageFactor  = 0.35
	MoraleDamageFactor = 0.5
)

// RandomSource - источник случайных чисел в [0, 1).
// Передаётся явно, чтобы бой можно было воспроизвести.
type RandomSource func() float64

// AttackInput - всё, что нужно для разрешения одной атаки.
type AttackInput struct {
	Map      *domain.BattlefieldMap
	Attacker *domain.Unit
	Defender *domain.Unit
	WeaponID string
	Rng      RandomSource
	Reaction bool // Выстрел с overwatch во время чужого движения
}

// AttackOutcome - результат атаки и события в порядке добавления в ленту.
type AttackOutcome struct {
	HitChance    float64
	Roll         float64
	Hit          bool
	Damage       int
	MoraleDamage int
	Killed       bool
	Events       []domain.BattleEvent
}

// CanAffordAttack - хватает ли юниту AP на выстрел.
func CanAffordAttack(u *domain.Unit) bool {
	return u.HasAP(domain.AttackCost)
}

// CanTarget - разрешает ли белый список оружия бить юнитов типа t.
func CanTarget(w domain.Weapon, t domain.UnitType) bool {
	if len(w.Targets) == 0 {
		return true
	}
	for _, allowed := range w.Targets {
		if allowed == t {
			return true
		}
	}
	return false
}

// CalculateAttackRange - дальность оружия с учётом позиции стрелка:
// +1 с тайла с бонусом обзора, +1 с возвышенности. Неизвестное оружие → 0.
func CalculateAttackRange(m *domain.BattlefieldMap, attacker *domain.Unit, weaponID string) int {
	w, ok := attacker.Weapons[weaponID]
	if !ok || w.Range <= 0 {
		return 0
	}
	rng := w.Range
	tile := m.Tile(attacker.Coord)
	if tile.VisionBoost {
		rng++
	}
	if tile.Elevation >= 1 {
		rng++
	}
	return rng
}

// HitChance считает вероятность попадания. 0 для неизвестного оружия.
func HitChance(m *domain.BattlefieldMap, attacker, defender *domain.Unit, weaponID string) float64 {
	w, ok := attacker.Weapons[weaponID]
	if !ok {
		return 0
	}
	maxRange := CalculateAttackRange(m, attacker, weaponID)
	if maxRange <= 0 {
		return 0
	}

	atkTile := m.Tile(attacker.Coord)
	defTile := m.Tile(defender.Coord)

	elevation := 0.0
	switch {
	case atkTile.Elevation > defTile.Elevation:
		elevation = ElevationHitAdjust
	case atkTile.Elevation < defTile.Elevation:
		elevation = -ElevationHitAdjust
	}

	dist := float64(m.Distance(attacker.Coord, defender.Coord))
	rangePenalty := dist / float64(maxRange) * RangePenaltyFactor
	coverPenalty := float64(defTile.Cover+defender.Entrenchment) * CoverPenaltyFactor

	return clampFloat(w.Accuracy+elevation-rangePenalty-coverPenalty, MinHitChance, MaxHitChance)
}

// CalculateDamage - урон при попадании (до ограничения здоровьем цели).
func CalculateDamage(power, armor, cover int) int {
	raw := float64(power) - float64(armor)*ArmorDamageFactor - float64(cover)*CoverDamageFactor
	return int(math.Round(math.Max(0, raw)))
}

// ResolveAttack разрешает атаку: бросок, урон, опыт.
// Легальность (AP, дальность, LOS) проверяется заранее, см. ValidateAttack.
// Меняет юнитов, но не ленту: события возвращаются вызывающему.
func ResolveAttack(in AttackInput) AttackOutcome {
	attacker, defender := in.Attacker, in.Defender
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":   "combat_system",
		"attacker_id": attacker.ID,
		"target_id":   defender.ID,
		"weapon_id":   in.WeaponID,
		"reaction":    in.Reaction,
	})

	rng := in.Rng
	if rng == nil {
		rng = rand.Float64
	}

	out := AttackOutcome{HitChance: HitChance(in.Map, attacker, defender, in.WeaponID)}
	out.Roll = rng()
	out.Hit = out.HitChance > 0 && out.Roll <= out.HitChance

	if attacker.AmmoCapacity > 0 && attacker.Ammo > 0 {
		attacker.Ammo--
	}

	if out.Hit {
		w := attacker.Weapons[in.WeaponID]
		cover := in.Map.Tile(defender.Coord).Cover
		out.Damage = CalculateDamage(w.Power, defender.Armor, cover)
		out.MoraleDamage = int(math.Round(float64(out.Damage) * MoraleDamageFactor))
		out.Killed = defender.TakeDamage(out.Damage, out.MoraleDamage)
	}

	out.Events = append(out.Events, domain.BattleEvent{
		Type:         domain.EventUnitAttacked,
		Faction:      attacker.Faction,
		UnitID:       attacker.ID,
		TargetID:     defender.ID,
		WeaponID:     in.WeaponID,
		HitChance:    out.HitChance,
		Roll:         out.Roll,
		Hit:          out.Hit,
		Damage:       out.Damage,
		MoraleDamage: out.MoraleDamage,
		Reaction:     in.Reaction,
	})

	if out.Killed {
		out.Events = append(out.Events, domain.BattleEvent{
			Type:     domain.EventUnitDefeated,
			Faction:  defender.Faction,
			UnitID:   defender.ID,
			TargetID: attacker.ID,
		})
	}

	if out.Hit {
		xp := domain.XPPerHit
		if out.Killed {
			xp += domain.XPPerKill
		}
		levels := attacker.GainXP(xp)
		out.Events = append(out.Events, domain.BattleEvent{
			Type:    domain.EventUnitGainedXP,
			Faction: attacker.Faction,
			UnitID:  attacker.ID,
			XP:      xp,
		})
		for _, lvl := range levels {
			out.Events = append(out.Events, domain.BattleEvent{
				Type:    domain.EventUnitLeveledUp,
				Faction: attacker.Faction,
				UnitID:  attacker.ID,
				Level:   lvl,
			})
		}
	}

	combatLogger.WithFields(logrus.Fields{
		"hit_chance":    out.HitChance,
		"roll":          out.Roll,
		"hit":           out.Hit,
		"damage":        out.Damage,
		"morale_damage": out.MoraleDamage,
		"target_hp":     defender.Health,
		"target_stance": defender.Stance,
		"target_died":   out.Killed,
	}).Info("Attack resolved.")

	return out
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
