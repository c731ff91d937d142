package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

// Максимальная длина пути в одной команде MOVE
const MaxPathLength = 64

func (p MovePayload) Validate() error {
	if p.UnitID == "" {
		return errors.New("unitId is required")
	}
	if len(p.Path) == 0 {
		return errors.New("path cannot be empty")
	}
	if len(p.Path) > MaxPathLength {
		return errors.New("path too long")
	}
	return nil
}

func (p AttackPayload) Validate() error {
	if p.AttackerID == "" || p.DefenderID == "" {
		return errors.New("attackerId and defenderId are required")
	}
	if p.WeaponID == "" {
		return errors.New("weaponId is required")
	}
	return nil
}

func (p UnitPayload) Validate() error {
	if p.UnitID == "" {
		return errors.New("unitId is required")
	}
	return nil
}

func (p EmbarkPayload) Validate() error {
	if p.UnitID == "" || p.CarrierID == "" {
		return errors.New("unitId and carrierId are required")
	}
	if p.UnitID == p.CarrierID {
		return errors.New("unit cannot embark on itself")
	}
	return nil
}

func (p DestinationPayload) Validate() error {
	if p.UnitID == "" {
		return errors.New("unitId is required")
	}
	if p.Destination.Q < 0 || p.Destination.R < 0 {
		return errors.New("destination must not be negative")
	}
	return nil
}
