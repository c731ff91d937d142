package engine

import (
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/grid"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
)

// BuildSnapshot создает "снимок" боя глазами стороны observer.
// Туман войны уже применён: тайлы только видимые или исследованные,
// враги только на видимых клетках, события ленты начиная с cursor.
func BuildSnapshot(state *domain.BattleState, observer domain.Faction, cursor int) *api.ServerResponse {
	m := state.Map
	vision := state.Vision[observer]

	// 1. Карта (только то, что сторона когда-либо видела)
	var mapDTO []api.TileView
	for idx := range m.Tiles {
		isVisible := vision.IsVisible(idx)
		isExplored := vision != nil && vision.Explored[idx]
		if !isVisible && !isExplored {
			continue
		}
		tile := m.Tiles[idx]
		c := grid.FromIndex(idx, m.Width)
		mapDTO = append(mapDTO, api.TileView{
			Q:           c.Q,
			R:           c.R,
			Terrain:     tile.Terrain.String(),
			Elevation:   tile.Elevation,
			Cover:       tile.Cover,
			Passable:    tile.Passable,
			VisionBoost: tile.VisionBoost,
			IsVisible:   isVisible,
			IsExplored:  true,
		})
	}

	// 2. Юниты: свои целиком, чужие только на видимых клетках
	var units []api.UnitView
	for _, u := range state.AllUnits() {
		if u.Faction == observer {
			units = append(units, toUnitView(u, true))
			continue
		}
		if u.IsOnField() && vision.IsVisible(m.Index(u.Coord)) {
			units = append(units, toUnitView(u, false))
		}
	}

	// 3. События, которые сторона имеет право увидеть
	var events []domain.BattleEvent
	for _, ev := range state.Timeline.Since(cursor) {
		if eventVisible(state, observer, ev) {
			events = append(events, ev)
		}
	}

	resp := &api.ServerResponse{
		Type:          api.MsgUpdate,
		Round:         state.Round,
		ActiveFaction: state.ActiveFaction.String(),
		MyFaction:     observer.String(),
		Weather:       state.Weather.String(),
		Grid:          &api.GridMeta{Width: m.Width, Height: m.Height, Layout: m.Layout.String()},
		Map:           mapDTO,
		Units:         units,
		Events:        events,
		Cursor:        len(state.Timeline),
	}
	if state.IsOver() {
		resp.Winner = state.Winner.String()
	}
	return resp
}

// eventVisible скрывает от стороны чужие манёвры вне её поля зрения.
func eventVisible(state *domain.BattleState, observer domain.Faction, ev domain.BattleEvent) bool {
	if ev.Faction == observer || ev.Faction == domain.FactionNone {
		return true
	}
	switch ev.Type {
	case domain.EventUnitOverwatch:
		return false
	case domain.EventUnitMoved, domain.EventUnitEmbarked, domain.EventUnitDisembarked:
		if len(ev.Path) == 0 {
			return false
		}
		end := ev.Path[len(ev.Path)-1]
		return state.Vision[observer].IsVisible(state.Map.Index(end))
	default:
		return true
	}
}

// toUnitView конвертирует юнита в DTO. Чужие видят только внешний вид и здоровье.
func toUnitView(u *domain.Unit, own bool) api.UnitView {
	view := api.UnitView{
		ID:          string(u.ID),
		Name:        u.Name,
		DisplayType: u.DisplayType,
		Faction:     u.Faction.String(),
		Type:        u.Type.String(),
		Q:           u.Coord.Q,
		R:           u.Coord.R,
		Facing:      u.Facing,
		Health:      u.Health,
		MaxHealth:   u.MaxHealth,
		Stance:      u.Stance.String(),
	}
	if !own {
		return view
	}

	view.Morale = u.Morale
	view.AP = u.AP
	view.MaxAP = u.MaxAP
	view.Entrenchment = u.Entrenchment
	view.XP = u.XP
	view.Level = u.Level
	view.Ammo = u.Ammo
	view.Weapons = u.WeaponIDs()
	for _, tag := range u.StatusList() {
		view.Status = append(view.Status, string(tag))
	}
	view.EmbarkedOn = string(u.EmbarkedOn)
	for _, id := range u.Carrying {
		view.Carrying = append(view.Carrying, string(id))
	}
	return view
}
