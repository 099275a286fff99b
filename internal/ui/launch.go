package ui

import (
	"fmt"
	"os"

	"github.com/robgonnella/portx/internal/core"
	"github.com/robgonnella/portx/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var originalStdout = os.Stdout
var originalStderr = os.Stderr

func restoreStdout() {
	os.Stdout = originalStdout
	os.Stderr = originalStderr
}

type UI struct {
	view *view
}

func New() *UI {
	return &UI{}
}

func (u *UI) Launch() error {
	log := logger.New()

	level := zerolog.GlobalLevel()

	if level != zerolog.Disabled {
		logFile := viper.GetString("log-file")

		if logFile == "" {
			log.Error().Err(
				fmt.Errorf("invalid log file path: %s", logFile),
			).Msg("disabling logs")
			zerolog.SetGlobalLevel(zerolog.Disabled)
		} else {
			f, err := logger.GlobalSetLogFile(logFile)

			if err != nil {
				log.Error().Err(err).Msg("disabling logs")
				zerolog.SetGlobalLevel(zerolog.Disabled)
			} else {
				defer f.Close()
			}
		}
	}

	appCore, err := core.CreateNewAppCore(core.WithHistoryFallback())

	if err != nil {
		return err
	}

	u.view = newView(appCore)

	os.Stdout, _ = os.Open(os.DevNull)
	os.Stderr, _ = os.Open(os.DevNull)

	defer restoreStdout()

	return u.view.run()
}
