package main

import (
	"context"
	"errors"
	"os"
	"path"

	"github.com/robgonnella/portx/cli/commands"
	"github.com/robgonnella/portx/internal/info"
	"github.com/robgonnella/portx/internal/logger"
	"github.com/robgonnella/portx/internal/ui"
	"github.com/spf13/viper"
)

/**
 * Main entry point for all commands
 * Here we setup environment config via viper
 */

func setRuntimeConfig() error {
	userHomeDir, err := os.UserHomeDir()

	if err != nil {
		return err
	}

	configDir := path.Join(userHomeDir, ".config", info.NAME)

	if err := os.MkdirAll(configDir, 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}

	configFile := path.Join(configDir, info.NAME+".yml")

	logFile := path.Join(configDir, info.NAME+".log")

	userCacheDir, err := os.UserCacheDir()

	if err != nil {
		return err
	}

	cacheDir := path.Join(userCacheDir, info.NAME)

	if err := os.MkdirAll(cacheDir, 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}

	dbFile := path.Join(cacheDir, info.NAME+".db")

	reportDir, err := os.Getwd()

	if err != nil {
		reportDir = userHomeDir
	}

	// share location of files and directories globally using viper
	viper.Set("log-file", logFile)
	viper.Set("config-dir", configDir)
	viper.Set("config-file", configFile)
	viper.Set("cache-dir", cacheDir)
	viper.Set("database-file", dbFile)
	viper.Set("report-dir", reportDir)

	return nil
}

// Entry point for the cli
func main() {
	log := logger.New()

	if err := setRuntimeConfig(); err != nil {
		log.Fatal().Err(err).Msg("failed to set runtime config")
	}

	appUI := ui.New()

	// Get the "root" cobra cli command
	cmd := commands.Root(&commands.CommandProps{
		UI: appUI,
	})

	// Allows "grepping" of command output
	cmd.SetOut(os.Stdout)

	// execute the cobra command and exit with error code if necessary
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("")
	}
}
