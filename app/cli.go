package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	readTimeout time.Duration
)

// newRootCommand builds the CLI: `program <db-path> <command...>` where
// command is `.dbinfo`, `.tables`, or a SQL statement (remaining args
// joined back into one string, since a shell splits an unquoted SQL
// statement on whitespace before it reaches us).
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "sqlite-engine-go <database> <command>",
		Short:         "Read-only query engine over a SQLite database file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(args[0], strings.Join(args[1:], " "))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().DurationVar(&readTimeout, "timeout", 30*time.Second, "maximum time a single query may run")
	return root
}

func runCommand(dbPath, command string) error {
	logger := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	db, err := Open(dbPath, WithLogger(logger), WithReadTimeout(readTimeout))
	if err != nil {
		return err
	}
	defer db.Close()

	switch command {
	case ".dbinfo":
		header, tableCount := db.DBInfo()
		fmt.Print(formatDBInfo(header, tableCount))
	case ".tables":
		fmt.Println(formatTableNames(db.Tables()))
	default:
		result, err := db.Query(context.Background(), command)
		if err != nil {
			return err
		}
		fmt.Println(formatQueryResult(result))
	}
	return nil
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
