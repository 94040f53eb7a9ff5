// Package buildinfo хранит версию, дату и commit сборки, переданные через -ldflags.
// Незаданные значения берутся из метаданных VCS, встроенных компилятором.
package buildinfo

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// notAvailable значение для неизвестного поля
const notAvailable = "N/A"

// Info содержит информацию о сборке приложения
type Info struct {
	Version string
	Date    string
	Commit  string
}

// DefaultInfo возвращает информацию о сборке по умолчанию
func DefaultInfo() *Info {
	return &Info{
		Version: notAvailable,
		Date:    notAvailable,
		Commit:  notAvailable,
	}
}

// NewInfo создает информацию о сборке. Пустые значения заменяются на N/A.
func NewInfo(version, date, commit string) *Info {
	info := DefaultInfo()
	if version != "" {
		info.Version = version
	}
	if date != "" {
		info.Date = date
	}
	if commit != "" {
		info.Commit = commit
	}
	return info
}

// Resolve заполняет неизвестные поля из debug.ReadBuildInfo.
func (info *Info) Resolve() *Info {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.fill(bi)
	return info
}

func (info *Info) fill(bi *debug.BuildInfo) {
	if info.Version == notAvailable && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == notAvailable && s.Value != "":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == notAvailable && s.Value != "":
			info.Date = s.Value
		}
	}
}

// Log пишет информацию о сборке в лог
func (info *Info) Log(logger *zap.Logger) {
	logger.Info("Build info",
		zap.String("version", info.Version),
		zap.String("date", info.Date),
		zap.String("commit", info.Commit),
	)
}

// String возвращает строковое представление информации о сборке
func (info *Info) String() string {
	return fmt.Sprintf("Version: %s, Date: %s, Commit: %s", info.Version, info.Date, info.Commit)
}
