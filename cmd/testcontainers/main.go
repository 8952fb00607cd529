package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/aptwatch/internal/config"
	"github.com/localnerve/aptwatch/internal/database"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a disposable aptwatch database container with the environment variables from the .env file.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

example
  testcontainers -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v\n", err)
	}

	ctx := context.Background()
	container, host, port, err := database.StartDatabaseContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to start database container: %v\n", err)
	}

	// Migrate the fresh container so it is ready for a dev server run
	migrateCfg := *cfg
	migrateCfg.DBHost = host
	migrateCfg.DBPort = port
	db, err := database.Connect(&migrateCfg)
	if err != nil {
		_ = container.Terminate(ctx)
		log.Fatalf("Failed to connect to database container: %v\n", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = container.Terminate(ctx)
		log.Fatalf("Failed to migrate database container: %v\n", err)
	}
	database.Close(db)

	log.Printf("Database container ready at %s:%s (DB_HOST=%s DB_PORT=%s)\n", host, port, host, port)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGQUIT)

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating database container...\n", sig)
	if err := container.Terminate(ctx); err != nil {
		log.Printf("Failed to terminate database container: %v\n", err)
	}
}
