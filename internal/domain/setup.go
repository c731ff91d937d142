package domain

import "github.com/michaldrozd/spellcross-sub000/internal/grid"

// UnitSpec - размещение одного юнита при создании боя.
type UnitSpec struct {
	ID         UnitID         `json:"id"`
	Definition UnitDefinition `json:"definition"`
	Coord      grid.Coord     `json:"coord"`

	// EmbarkedOn - ID носителя той же стороны, если юнит начинает бой внутри него.
	EmbarkedOn UnitID `json:"embarkedOn,omitempty"`
}

// SideSpec - состав одной стороны.
type SideSpec struct {
	Faction Faction    `json:"faction"`
	Units   []UnitSpec `json:"units"`
}
