package commands

import (
	"errors"
	"io/fs"
	"os"

	"github.com/robgonnella/portx/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// creates and returns the "clean" command
func clean() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Removes the scan history database and log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New()

			dbFile := viper.GetString("database-file")

			if dbFile != "" {
				if err := os.Remove(dbFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return err
				}
				log.Info().Str("file", dbFile).Msg("removed database file")
			}

			logFile := viper.GetString("log-file")

			if logFile != "" {
				if err := os.RemoveAll(logFile); err != nil {
					return err
				}
				log.Info().Str("file", logFile).Msg("removed log file")
			}

			return nil
		},
	}

	return cmd
}
