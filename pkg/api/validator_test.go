package api

import "testing"

func TestPayloadValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload Validator
		wantErr bool
	}{
		{"move ok", MovePayload{UnitID: "u1", Path: []CoordDTO{{Q: 1, R: 0}}}, false},
		{"move without unit", MovePayload{Path: []CoordDTO{{Q: 1, R: 0}}}, true},
		{"move with empty path", MovePayload{UnitID: "u1"}, true},
		{"move with huge path", MovePayload{UnitID: "u1", Path: make([]CoordDTO, MaxPathLength+1)}, true},
		{"attack ok", AttackPayload{AttackerID: "a", DefenderID: "d", WeaponID: "rifle"}, false},
		{"attack without weapon", AttackPayload{AttackerID: "a", DefenderID: "d"}, true},
		{"overwatch without unit", UnitPayload{}, true},
		{"embark on itself", EmbarkPayload{UnitID: "a", CarrierID: "a"}, true},
		{"embark ok", EmbarkPayload{UnitID: "a", CarrierID: "apc"}, false},
		{"negative destination", DestinationPayload{UnitID: "a", Destination: CoordDTO{Q: -1}}, true},
		{"destination ok", DestinationPayload{UnitID: "a", Destination: CoordDTO{Q: 2, R: 3}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
