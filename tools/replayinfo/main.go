package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/infrastructure/storage"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}
	logger.Init()

	replay, err := storage.NewReplayService("").Load(os.Args[2])
	if err != nil {
		fmt.Printf("Invalid replay: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "header":
		printHeader(replay)
	case "actions":
		printHeader(replay)
		for _, a := range replay.Actions {
			fmt.Printf("%4d  r%-3d %-7v %-10v %s\n", a.Seq, a.Round, a.Faction, a.Action, a.Payload)
		}
	case "round":
		if len(os.Args) < 4 {
			fmt.Println("Usage: replayinfo round <file> <n>")
			return
		}
		n, err := strconv.Atoi(os.Args[3])
		if err != nil {
			fmt.Printf("Invalid round: %v\n", err)
			return
		}
		for _, a := range replay.Actions {
			if a.Round == n {
				fmt.Printf("%4d  %-7v %-10v %s\n", a.Seq, a.Faction, a.Action, a.Payload)
			}
		}
	default:
		printHelp()
	}
}

func printHeader(r *domain.ReplaySession) {
	fmt.Printf("battle:   %s\nscenario: %s\nseed:     %d\nrules:    %d\nrecorded: %s\nactions:  %d\n",
		r.BattleID, r.Scenario, r.Seed, r.RulesRevision,
		time.Unix(r.Timestamp, 0).Format(time.RFC3339), len(r.Actions))
}

func printHelp() {
	fmt.Println(`Replay Info - просмотр записи боя
Commands:
  header <file>          - заголовок: бой, сценарий, сид, ревизия правил
  actions <file>         - все записанные команды по порядку
  round <file> <n>       - команды одного раунда`)
}
