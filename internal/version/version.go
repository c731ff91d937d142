package version

import (
	"fmt"
	"time"
)

var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// RulesRevision увеличивается при любом изменении боевых правил или формата команд.
// Пишется в заголовок реплея: запись другой ревизии может воспроизвестись иначе.
const RulesRevision uint16 = 1

var buildEpoch = time.Date(
	2025, time.December, 4,
	0, 0, 0, 0,
	time.UTC,
)

// VersionInfo - метаданные сборки для /version и лога старта сервера.
// Rules совпадает с ревизией в заголовке реплеев, которые этот сервер пишет.
type VersionInfo struct {
	Rules      uint16
	BuildID    int
	BuildDate  string
	Commit     string
	Branch     string
	CI         string
	Calculated bool
	Error      string
}

func CalculateBuildID() (int, error) {
	if BuildDate == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", BuildDate, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", BuildDate, err)
	}

	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", BuildDate)
	}

	// Эпоха и дата сборки в UTC, переходов на летнее время нет
	days := int(t.Sub(buildEpoch).Hours() / 24)
	return days, nil
}

// Info собирает метаданные. Ревизия правил известна всегда, даже без даты сборки.
func Info() VersionInfo {
	id, err := CalculateBuildID()

	info := VersionInfo{
		Rules:     RulesRevision,
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
	}

	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String - строка для лога старта.
func String() string {
	info := Info()

	if !info.Calculated {
		return fmt.Sprintf("Build unknown (%s) rules[%d]", info.Error, info.Rules)
	}

	return fmt.Sprintf(
		"Build %d (%s) rules[%d] commit[%s] branch[%s] ci[%s]",
		info.BuildID,
		info.BuildDate,
		info.Rules,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
