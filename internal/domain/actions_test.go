package domain

import "testing"

func TestParseAction(t *testing.T) {
	tests := []struct {
		input    string
		expected ActionType
	}{
		{"MOVE", ActionMove},
		{"move", ActionMove},
		{"Attack", ActionAttack},
		{"end_turn", ActionEndTurn},
		{"OVERWATCH", ActionOverwatch},
		{"PLAN_PATH", ActionPlanPath},
		{"WAIT", ActionUnknown},
		{"", ActionUnknown},
	}

	for _, tt := range tests {
		result := ParseAction(tt.input)
		if result != tt.expected {
			t.Errorf("ParseAction(%q) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestActionType_String(t *testing.T) {
	tests := []struct {
		action   ActionType
		expected string
	}{
		{ActionMove, "MOVE"},
		{ActionEndTurn, "END_TURN"},
		{ActionUnknown, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.action.String(); got != tt.expected {
			t.Errorf("ActionType(%d).String() = %q, want %q", tt.action, got, tt.expected)
		}
	}
}

func TestFaction_Opponent(t *testing.T) {
	if FactionPlayer.Opponent() != FactionEnemy || FactionEnemy.Opponent() != FactionPlayer {
		t.Error("opponents should be symmetric")
	}
	if FactionNone.Opponent() != FactionNone {
		t.Error("none has no opponent")
	}

	var f Faction
	if err := f.UnmarshalText([]byte("Enemy")); err != nil || f != FactionEnemy {
		t.Errorf("UnmarshalText(Enemy) = %v, %v", f, err)
	}
	if err := f.UnmarshalText([]byte("aliens")); err == nil {
		t.Error("unknown faction should fail to parse")
	}
}
