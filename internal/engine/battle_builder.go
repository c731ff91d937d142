package engine

import (
	"fmt"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
	"github.com/michaldrozd/spellcross-sub000/internal/systems"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/sirupsen/logrus"
)

// StateOption настраивает бой при создании.
type StateOption func(s *domain.BattleState)

// WithWeather задаёт погоду боя.
func WithWeather(w domain.Weather) StateOption {
	return func(s *domain.BattleState) { s.Weather = w }
}

// CreateBattleState инстанцирует бой: по юниту на каждую запись сторон.
// Ошибки авторинга (клетка вне карты, два юнита на клетке, дубли ID,
// недоступная для типа юнита местность) - panic.
func CreateBattleState(m *domain.BattlefieldMap, sides []domain.SideSpec, starting domain.Faction, opts ...StateOption) *domain.BattleState {
	if starting == domain.FactionNone {
		panic("starting faction must be player or enemy")
	}

	state := domain.NewBattleState(m, starting)
	for _, opt := range opts {
		opt(state)
	}

	seen := make(map[domain.UnitID]bool)
	occupied := make(map[grid.Coord]domain.UnitID)
	var passengers []domain.UnitSpec

	for _, side := range sides {
		if side.Faction == domain.FactionNone {
			panic("side spec without faction")
		}
		for _, spec := range side.Units {
			if spec.ID == "" {
				panic("unit spec without id")
			}
			if seen[spec.ID] {
				panic(fmt.Sprintf("duplicate unit id %q", spec.ID))
			}
			seen[spec.ID] = true
			validateDefinition(spec)

			if spec.EmbarkedOn != "" {
				passengers = append(passengers, spec)
				state.Sides[side.Faction].Units[spec.ID] = domain.NewUnit(spec.ID, spec.Definition, side.Faction, spec.Coord)
				continue
			}

			if !m.InBounds(spec.Coord) {
				panic(fmt.Sprintf("unit %q placed outside of the battlefield at %v", spec.ID, spec.Coord))
			}
			if other, ok := occupied[spec.Coord]; ok {
				panic(fmt.Sprintf("units %q and %q share tile %v", other, spec.ID, spec.Coord))
			}
			if !systems.CanEnter(spec.Definition.Type, m.Tile(spec.Coord)) {
				panic(fmt.Sprintf("unit %q (%v) cannot stand on %v at %v", spec.ID, spec.Definition.Type, m.Tile(spec.Coord).Terrain, spec.Coord))
			}
			occupied[spec.Coord] = spec.ID

			state.Sides[side.Faction].Units[spec.ID] = domain.NewUnit(spec.ID, spec.Definition, side.Faction, spec.Coord)
		}
	}

	for _, spec := range passengers {
		p := state.Unit(spec.ID)
		carrier := state.Unit(spec.EmbarkedOn)
		if carrier == nil || carrier.Faction != p.Faction || carrier.IsEmbarked() {
			panic(fmt.Sprintf("unit %q embarked on unknown carrier %q", spec.ID, spec.EmbarkedOn))
		}
		if carrier.FreeCapacity() <= 0 || !canEmbark(p.Type) {
			panic(fmt.Sprintf("unit %q cannot be carried by %q", spec.ID, carrier.ID))
		}
		p.EmbarkedOn = carrier.ID
		p.Coord = carrier.Coord
		carrier.Carrying = append(carrier.Carrying, p.ID)
	}

	systems.UpdateAllFactionsVision(state)

	logger.Log.WithFields(logrus.Fields{
		"component": "battle_builder",
		"width":     m.Width,
		"height":    m.Height,
		"layout":    m.Layout,
		"units":     len(seen),
		"starting":  starting,
		"weather":   state.Weather,
	}).Info("Battle state created.")

	return state
}

func validateDefinition(spec domain.UnitSpec) {
	def := spec.Definition
	if def.MaxHealth <= 0 {
		panic(fmt.Sprintf("unit %q: definition %q has non-positive max health", spec.ID, def.ID))
	}
	if def.Mobility < 0 || def.Vision < 0 || def.Armor < 0 {
		panic(fmt.Sprintf("unit %q: definition %q has negative stats", spec.ID, def.ID))
	}
	for id, w := range def.Weapons {
		if w.Range <= 0 {
			panic(fmt.Sprintf("unit %q: weapon %q has non-positive range", spec.ID, id))
		}
	}
}

// canEmbark - кого можно сажать в транспорт.
func canEmbark(t domain.UnitType) bool {
	switch t {
	case domain.UnitTypeInfantry, domain.UnitTypeHero:
		return true
	case domain.UnitTypeVehicle, domain.UnitTypeAir:
		return false
	default:
		return false
	}
}
