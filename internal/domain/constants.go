package domain

// Стоимость действий в очках действия (AP)
const (
	AttackCost    = 2.0
	EmbarkCost    = 1.0
	DisembarkCost = 1.0
)

// Мораль и окапывание
const (
	MaxMorale          = 100
	SuppressedMorale   = 40 // мораль ≤ 40 → suppressed
	RoutedMorale       = 20 // мораль ≤ 20 → routed
	MoraleRecoveryBase = 3
	EnemyNearPenalty   = 2
	EnemyNearRadius    = 2
	HeroAuraBonus      = 2
	HeroAuraRadius     = 2
)

// Опыт
const (
	XPPerHit      = 5
	XPPerKill     = 20
	XPLevelStep   = 100
	StartingLevel = 1
)

// Восприятие
const (
	// StealthPenalty вычитается из дальности зрения любого наблюдателя.
	StealthPenalty = 1.0
	// LOSBlockingCover - тайл с таким укрытием (и выше) перекрывает обзор.
	LOSBlockingCover = 3
)

// CostEpsilon - допуск при сравнении накопленной стоимости пути с AP.
const CostEpsilon = 1e-6
