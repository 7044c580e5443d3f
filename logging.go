package main

import (
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("sqlfront")

var stderrFormat = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{module} %{level:.4s} ▶ %{message}%{color:reset}`,
)

// setupLogging sends every module's logs to stderr at level and above.
func setupLogging(level string) error {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		return err
	}
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, stderrFormat))
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return nil
}
