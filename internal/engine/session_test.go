package engine

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine/handlers"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
	"github.com/michaldrozd/spellcross-sub000/pkg/scenario"
)

func crossroads(t *testing.T) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.Builtin("crossroads")
	if err != nil {
		t.Fatalf("Builtin(crossroads): %v", err)
	}
	return sc
}

func newAISession(t *testing.T, seed int64) *Session {
	t.Helper()
	s := NewSession("battle-test", crossroads(t), SessionOptions{
		Seed:       seed,
		AIFactions: []domain.Faction{domain.FactionEnemy},
	})
	s.Start()
	return s
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestSession_EndTurnRunsAI(t *testing.T) {
	s := newAISession(t, 7)

	res, err := s.Execute(domain.FactionPlayer, domain.ActionEndTurn, nil)
	if err != nil || !res.Outcome.Success {
		t.Fatalf("END_TURN: err=%v outcome=%+v", err, res.Outcome)
	}

	state := s.Processor.State
	if state.IsOver() {
		t.Skip("battle ended during the first AI turn")
	}
	if state.ActiveFaction != domain.FactionPlayer || state.Round != 2 {
		t.Fatalf("after AI turn: active=%v round=%d", state.ActiveFaction, state.Round)
	}

	actions := s.ReplayCopy().Actions
	if len(actions) < 2 {
		t.Fatalf("replay has %d actions", len(actions))
	}
	first, last := actions[0], actions[len(actions)-1]
	if first.Action != domain.ActionEndTurn || first.Faction != domain.FactionPlayer {
		t.Errorf("first recorded action = %+v", first)
	}
	if last.Action != domain.ActionEndTurn || last.Faction != domain.FactionEnemy {
		t.Errorf("last recorded action = %+v", last)
	}
	for i, a := range actions {
		if a.Seq != i {
			t.Errorf("action %d has Seq %d", i, a.Seq)
		}
		if a.Action == domain.ActionAITurn {
			t.Error("AI_TURN itself must not be recorded")
		}
	}
}

func TestSession_CommandChecks(t *testing.T) {
	s := newAISession(t, 1)

	if _, err := s.Execute(domain.FactionPlayer, domain.ActionUnknown, nil); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown action err = %v", err)
	}
	if _, err := s.Execute(domain.FactionPlayer, domain.ActionMove, json.RawMessage(`{bad`)); err == nil {
		t.Error("broken JSON must be an error")
	}
	if _, err := s.Execute(domain.FactionPlayer, domain.ActionMove, json.RawMessage(`{"path":[{"q":1,"r":1}]}`)); err == nil {
		t.Error("payload without unitId must fail validation")
	}

	foreign := mustJSON(t, api.MovePayload{UnitID: "e_ghoul1", Path: []api.CoordDTO{{Q: 10, R: 0}}})
	res, err := s.Execute(domain.FactionPlayer, domain.ActionMove, foreign)
	if err != nil || res.Outcome.Error != handlers.MsgForeignUnit {
		t.Errorf("foreign unit: err=%v outcome=%+v", err, res.Outcome)
	}

	res, err = s.Execute(domain.FactionEnemy, domain.ActionMove, foreign)
	if err != nil || res.Outcome.Error != handlers.MsgNotYourTurn {
		t.Errorf("out of turn: err=%v outcome=%+v", err, res.Outcome)
	}

	plan := mustJSON(t, api.DestinationPayload{UnitID: "p_sniper", Destination: api.CoordDTO{Q: 2, R: 1}})
	res, err = s.Execute(domain.FactionPlayer, domain.ActionPlanPath, plan)
	if err != nil || !res.Outcome.Success || res.Path == nil || len(res.Path.Path) < 2 {
		t.Fatalf("PLAN_PATH: err=%v result=%+v", err, res)
	}

	if n := len(s.ReplayCopy().Actions); n != 0 {
		t.Errorf("rejected commands and plans must not be recorded, got %d actions", n)
	}
}

func TestSession_SubscribeAndPublish(t *testing.T) {
	s := newAISession(t, 3)
	ch := s.Subscribe("sub_1", domain.FactionPlayer)

	first := <-ch
	if first.Type != api.MsgUpdate || first.MyFaction != "player" || first.BattleID != "battle-test" {
		t.Fatalf("initial snapshot = %+v", first)
	}
	for _, u := range first.Units {
		if u.Faction != "player" {
			t.Errorf("enemy %s visible at start", u.ID)
		}
	}

	if _, err := s.Execute(domain.FactionPlayer, domain.ActionEndTurn, nil); err != nil {
		t.Fatal(err)
	}

	select {
	case next := <-ch:
		if next.Cursor <= first.Cursor || len(next.Events) == 0 {
			t.Errorf("update after END_TURN: cursor %d -> %d, %d events", first.Cursor, next.Cursor, len(next.Events))
		}
	default:
		t.Fatal("no update published after END_TURN")
	}

	s.Unsubscribe("sub_1")
	if s.Hub.SubscriberCount() != 0 {
		t.Error("subscriber still registered")
	}
}

func TestPlayback_Deterministic(t *testing.T) {
	s := newAISession(t, 42)
	for i := 0; i < 4 && !s.IsOver(); i++ {
		if _, err := s.Execute(domain.FactionPlayer, domain.ActionEndTurn, nil); err != nil {
			t.Fatal(err)
		}
	}

	replay := s.ReplayCopy()
	again, err := Playback(&replay, crossroads(t))
	if err != nil {
		t.Fatalf("Playback: %v", err)
	}

	want, got := s.Processor.State, again.Processor.State
	if !reflect.DeepEqual(want.Timeline, got.Timeline) {
		t.Fatalf("timelines differ: %d vs %d events", len(want.Timeline), len(got.Timeline))
	}
	if want.Round != got.Round || want.ActiveFaction != got.ActiveFaction {
		t.Errorf("round/active differ: %d/%v vs %d/%v", want.Round, want.ActiveFaction, got.Round, got.ActiveFaction)
	}
	for _, u := range want.AllUnits() {
		other := got.Unit(u.ID)
		if other.Coord != u.Coord || other.Health != u.Health || other.AP != u.AP {
			t.Errorf("unit %s differs after playback", u.ID)
		}
	}
}

func TestPlayback_Diverged(t *testing.T) {
	replay := &domain.ReplaySession{
		BattleID: "broken",
		Scenario: "crossroads",
		Seed:     1,
		Actions: []domain.ReplayAction{
			{Seq: 0, Round: 1, Faction: domain.FactionEnemy, Action: domain.ActionEndTurn},
		},
	}

	_, err := Playback(replay, crossroads(t))
	if !errors.Is(err, ErrPlaybackDiverged) {
		t.Fatalf("err = %v, want ErrPlaybackDiverged", err)
	}
}
