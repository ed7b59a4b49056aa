package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/GustavoCaso/bookcatalog/internal/cli"
	"github.com/GustavoCaso/bookcatalog/internal/cli/products"
	"github.com/GustavoCaso/bookcatalog/internal/cli/seed"
	"github.com/GustavoCaso/bookcatalog/internal/cli/web"
	"github.com/GustavoCaso/bookcatalog/internal/config"
	"github.com/GustavoCaso/bookcatalog/internal/logger"
	"github.com/GustavoCaso/bookcatalog/internal/storage/sqlite"
)

var configPath string

var subcommands = map[string]cli.Command{
	"web":      web.NewCommand(),
	"seed":     seed.NewCommand(),
	"products": products.NewCommand(),
}

var subcommandsFlagSets = map[string]*flag.FlagSet{}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("subcommand is required\n")
		printUsage()

		os.Exit(1)
	}

	for c, cLogic := range subcommands {
		fset := flag.NewFlagSet(c, flag.ExitOnError)
		fset.StringVar(&configPath, "c", os.Getenv("BOOKCATALOG_CONFIG"), "Configuration file")

		cLogic.SetFlags(fset)

		subcommandsFlagSets[c] = fset
	}

	commandName := os.Args[1]
	command, ok := subcommands[commandName]
	if !ok {
		if strings.Contains(commandName, "help") {
			printHelp()

			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "unsupported command %s.\nUse 'help' command to print information about supported commands\n", commandName)
		os.Exit(1)
	}

	_ = subcommandsFlagSets[commandName].Parse(os.Args[2:])

	conf, err := config.Parse(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse the configuration. %s\n", err.Error())
		os.Exit(1)
	}

	appLogger := logger.New(conf.Logger)

	appLogger.Debug("Using database", "path", conf.DB.Source)

	storage, err := sqlite.New(conf.DB)
	if err != nil {
		appLogger.Fatal("Unable to get DB", "error", err.Error())
	}

	err = storage.ApplyMigrations(context.Background(), appLogger)
	if err != nil {
		appLogger.Fatal("Unable to create schema", "error", err.Error())
	}

	runErr := command.Run(conf, storage, appLogger)
	if runErr != nil {
		appLogger.Error("Command failed", "command", commandName, "error", runErr)
	}

	if err = storage.Close(); err != nil {
		appLogger.Error("Error closing storage", "error", err)
		os.Exit(1)
	}

	if runErr != nil {
		os.Exit(1)
	}
}

func printHelp() {
	printUsage()

	names := maps.Keys(subcommands)
	slices.Sort(names)

	for _, c := range names {
		fmt.Printf("subcommand <%s>: %s\n", c, subcommands[c].Description())
		subcommandsFlagSets[c].PrintDefaults()
		fmt.Println()
	}
}

func printUsage() {
	fmt.Printf("usage: bookcatalog <subcommand> [flags]\n\n")
}
