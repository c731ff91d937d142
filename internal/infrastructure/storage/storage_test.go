package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/version"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func sampleSession() *domain.ReplaySession {
	return &domain.ReplaySession{
		BattleID:      "b-42",
		Scenario:      "crossroads",
		Seed:          1234,
		Timestamp:     1700000000,
		RulesRevision: version.RulesRevision,
		Actions: []domain.ReplayAction{
			{Seq: 0, Round: 1, Faction: domain.FactionPlayer, Action: domain.ActionMove, Payload: json.RawMessage(`{"unitId":"p1","path":[{"q":1,"r":0}]}`)},
			{Seq: 1, Round: 1, Faction: domain.FactionPlayer, Action: domain.ActionEndTurn},
			{Seq: 2, Round: 1, Faction: domain.FactionEnemy, Action: domain.ActionAttack, Payload: json.RawMessage(`{"attackerId":"e1","defenderId":"p1","weaponId":"claws"}`)},
		},
	}
}

func TestWriteReadBinary(t *testing.T) {
	in := sampleSession()

	var buf bytes.Buffer
	if err := WriteBinary(&buf, in); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte(MagicHeader)) {
		t.Fatalf("file must start with %q", MagicHeader)
	}

	out, err := ReadBinary(&buf)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	if out.BattleID != in.BattleID || out.Scenario != in.Scenario || out.Seed != in.Seed {
		t.Errorf("header mismatch: got %+v", out)
	}
	if out.RulesRevision != in.RulesRevision || out.Timestamp != in.Timestamp {
		t.Errorf("revision/timestamp mismatch: got %d/%d", out.RulesRevision, out.Timestamp)
	}
	if len(out.Actions) != len(in.Actions) {
		t.Fatalf("actions = %d, want %d", len(out.Actions), len(in.Actions))
	}
	for i := range in.Actions {
		a, b := in.Actions[i], out.Actions[i]
		if a.Seq != b.Seq || a.Round != b.Round || a.Faction != b.Faction || a.Action != b.Action {
			t.Errorf("action %d: got %+v, want %+v", i, b, a)
		}
		if string(a.Payload) != string(b.Payload) {
			t.Errorf("action %d payload: got %s, want %s", i, b.Payload, a.Payload)
		}
	}
}

func TestReadBinary_Rejects(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBinary(&buf, sampleSession()); err != nil {
		t.Fatal(err)
	}
	good := buf.Bytes()

	badMagic := append([]byte("NOPE"), good[4:]...)
	if _, err := ReadBinary(bytes.NewReader(badMagic)); err == nil || !strings.Contains(err.Error(), "magic") {
		t.Errorf("bad magic: err = %v", err)
	}

	truncated := good[:len(good)-5]
	if _, err := ReadBinary(bytes.NewReader(truncated)); err == nil {
		t.Error("truncated file must fail")
	}
}

func TestReplayService_SaveLoad(t *testing.T) {
	svc := NewReplayService(filepath.Join(t.TempDir(), "nested"))
	in := sampleSession()

	path, err := svc.Save(in)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Ext(path) != FileExt {
		t.Errorf("unexpected extension in %s", path)
	}

	out, err := svc.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.BattleID != in.BattleID || len(out.Actions) != len(in.Actions) {
		t.Errorf("loaded session differs: %+v", out)
	}

	if _, err := svc.Load(filepath.Join(t.TempDir(), "missing.tbrp")); err == nil {
		t.Error("loading a missing file must fail")
	}
}
