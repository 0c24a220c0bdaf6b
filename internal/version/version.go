// Package version хранит метаданные сборки, прошитые через -ldflags:
//
//	go build -ldflags "-X cognitive-encounter/internal/version.BuildDate=2025-12-06 ..."
package version

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// Номер сборки = число суток от первой сборки движка энкаунтеров
var buildEpoch = time.Date(2025, time.December, 4, 0, 0, 0, 0, time.UTC)

var errNoBuildDate = errors.New("BuildDate is empty")

// VersionInfo - метаданные сборки в структурном виде
type VersionInfo struct {
	BuildID    int
	BuildDate  string
	Commit     string
	Branch     string
	CI         string
	Calculated bool
	Error      string
}

func CalculateBuildID() (int, error) {
	return buildNumber(BuildDate)
}

func buildNumber(date string) (int, error) {
	if date == "" {
		return 0, errNoBuildDate
	}
	t, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", date, err)
	}
	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch %s", date, buildEpoch.Format(time.DateOnly))
	}
	// Обе даты в UTC, сутки всегда 24 часа
	return int(t.Sub(buildEpoch) / (24 * time.Hour)), nil
}

// Info собирает метаданные. Пустые commit/branch/ci заменяются на unknown/local.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    orDefault(BuildCommit, "unknown"),
		Branch:    orDefault(BuildBranch, "unknown"),
		CI:        orDefault(BuildCI, "local"),
	}
	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID = id
	info.Calculated = true
	return info
}

func String() string {
	info := Info()
	if !info.Calculated {
		return fmt.Sprintf("Build unknown (%s)", info.Error)
	}
	return fmt.Sprintf("Build %d (%s) commit[%s] branch[%s] ci[%s]",
		info.BuildID, info.BuildDate, info.Commit, info.Branch, info.CI)
}

// Fields - поля сборки для стартовой строки лога
func Fields() logrus.Fields {
	info := Info()
	f := logrus.Fields{
		"commit": info.Commit,
		"branch": info.Branch,
		"ci":     info.CI,
	}
	if info.Calculated {
		f["build"] = info.BuildID
	}
	return f
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
