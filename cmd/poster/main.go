package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"property-poster/config"
)

const logFile = "property_poster.log"

func main() {
	os.Exit(run())
}

func run() int {
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, f))
	} else {
		log.Printf("[main] cannot open %s: %v", logFile, err)
	}

	if err := config.LoadDotEnv(); err != nil {
		log.Print(err)
		return 1
	}
	cfg, err := config.FromEnv(config.Default())
	if err != nil {
		log.Print(err)
		return 1
	}
	opts, err := parseFlags(os.Args[1:], cfg)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = NewApp(cfg, opts, os.Stdin, os.Stdout).Run(ctx)
	if errors.Is(err, config.ErrSampleCreated) {
		return 0
	}
	fmt.Println("\nDone! Check the log file for details.")
	if err != nil {
		return 1
	}
	return 0
}
