// cmd/assistant/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"deskmate/internal/automation"
	"deskmate/internal/config"
	"deskmate/internal/logging"
	"deskmate/internal/mind"
	"deskmate/internal/storage"
	v "deskmate/internal/version"
)

func main() {
	cfg := config.New()
	log := logging.New(cfg.LogLevel, cfg.LogFile)

	store, err := storage.New(cfg.StoragePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer store.Close()

	var exec mind.Executor
	if cfg.Executor == "echo" {
		exec = automation.EchoExecutor{}
	} else {
		exec = automation.NewLocalExecutor(log)
	}

	engine, err := mind.New(store, exec, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build engine")
	}

	fmt.Printf("%s %s — type a command, 'suggest' for ideas, 'quit' to exit.\n", v.AppName, v.AppVersion)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "quit", "exit", "bye":
			fmt.Println("Bye!")
			return
		case "suggest":
			for _, s := range engine.Suggestions() {
				fmt.Printf("  [%s] %s\n", s.Type, s.Text)
			}
			continue
		case "":
			continue
		}

		reply, err := engine.ProcessUtterance(context.Background(), line)
		if err != nil {
			log.Error().Err(err).Msg("processing failed")
			continue
		}
		fmt.Println(reply.Text)
	}
}
