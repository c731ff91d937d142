package scenario

import "github.com/michaldrozd/spellcross-sub000/internal/domain"

// --- ВСТРОЕННЫЙ КАТАЛОГ ЮНИТОВ ---
// Сценарий может переопределить любой шаблон по ID или добавить свой.

var builtinDefinitions = []domain.UnitDefinition{
	{
		ID: "rifleman", Name: "Rifleman", DisplayType: "rifleman", Type: domain.UnitTypeInfantry,
		MaxHealth: 40, Mobility: 6, Vision: 5, Armor: 1, Morale: 80,
		Weapons: map[string]domain.Weapon{
			"rifle": {Range: 4, Power: 20, Accuracy: 0.7},
		},
	},
	{
		ID: "sniper", Name: "Sniper", DisplayType: "sniper", Type: domain.UnitTypeInfantry,
		MaxHealth: 30, Mobility: 5, Vision: 7, Armor: 0, Morale: 75, Stealth: 1,
		AmmoCapacity: 6,
		Weapons: map[string]domain.Weapon{
			"longrifle": {Range: 7, Power: 35, Accuracy: 0.75},
		},
	},
	{
		ID: "commander", Name: "Commander", DisplayType: "commander", Type: domain.UnitTypeHero,
		MaxHealth: 60, Mobility: 6, Vision: 6, Armor: 2, Morale: 100,
		Weapons: map[string]domain.Weapon{
			"pistol": {Range: 3, Power: 15, Accuracy: 0.7},
		},
	},
	{
		ID: "ghoul", Name: "Ghoul", DisplayType: "ghoul", Type: domain.UnitTypeInfantry,
		MaxHealth: 35, Mobility: 7, Vision: 4, Armor: 1, Morale: 100,
		Weapons: map[string]domain.Weapon{
			"claws": {Range: 1, Power: 18, Accuracy: 0.8},
		},
	},
	{
		ID: "apc", Name: "APC", DisplayType: "apc", Type: domain.UnitTypeVehicle,
		MaxHealth: 90, Mobility: 8, Vision: 4, Armor: 6, Morale: 90,
		TransportCapacity: 4,
		Weapons: map[string]domain.Weapon{
			"mg": {Range: 4, Power: 16, Accuracy: 0.6, Targets: []domain.UnitType{domain.UnitTypeInfantry, domain.UnitTypeHero}},
		},
	},
	{
		ID: "gunship", Name: "Gunship", DisplayType: "gunship", Type: domain.UnitTypeAir,
		MaxHealth: 70, Mobility: 10, Vision: 6, Armor: 3, Morale: 90,
		AmmoCapacity: 8,
		Weapons: map[string]domain.Weapon{
			"cannon": {Range: 4, Power: 25, Accuracy: 0.65},
		},
	},
	{
		ID: "scout", Name: "Scout", DisplayType: "scout", Type: domain.UnitTypeInfantry,
		MaxHealth: 30, Mobility: 8, Vision: 7, Armor: 0, Morale: 70, Stealth: 1,
		Weapons: map[string]domain.Weapon{
			"carbine": {Range: 3, Power: 14, Accuracy: 0.7},
		},
	},
	{
		ID: "flak", Name: "Flak Halftrack", DisplayType: "flak", Type: domain.UnitTypeVehicle,
		MaxHealth: 60, Mobility: 5, Vision: 6, Armor: 4, Morale: 85,
		Weapons: map[string]domain.Weapon{
			"flak": {Range: 6, Power: 30, Accuracy: 0.65, Targets: []domain.UnitType{domain.UnitTypeAir}},
			"mg":   {Range: 3, Power: 12, Accuracy: 0.6, Targets: []domain.UnitType{domain.UnitTypeInfantry, domain.UnitTypeHero}},
		},
	},
}

// Catalog возвращает копию встроенного каталога (ID шаблона → шаблон).
func Catalog() map[string]domain.UnitDefinition {
	out := make(map[string]domain.UnitDefinition, len(builtinDefinitions))
	for _, def := range builtinDefinitions {
		out[def.ID] = def
	}
	return out
}

// Definition ищет встроенный шаблон по ID.
func Definition(id string) (domain.UnitDefinition, bool) {
	for _, def := range builtinDefinitions {
		if def.ID == id {
			return def, true
		}
	}
	return domain.UnitDefinition{}, false
}
