package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/nexobuy/nexobuy-backend/pkg/config"
	"github.com/nexobuy/nexobuy-backend/pkg/db"
	"github.com/nexobuy/nexobuy-backend/pkg/logger"
	"github.com/nexobuy/nexobuy-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "one of up, down, status, version, create, validate")
	dir := flag.String("dir", migrate.DefaultDir, "directory holding the goose SQL files")
	name := flag.String("name", "", "new migration name, used with -cmd=create")
	version := flag.String("version", "", "target schema version for -cmd=version")
	flag.Parse()

	cfg, err := config.Load()
	fatalIf(logg, "loading config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	// create and validate only touch the migration files
	switch *cmd {
	case "create":
		if *name == "" {
			fail("-cmd=create needs -name")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fail(fmt.Sprintf("create migration: %v", err))
		}
		fmt.Println("created", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fail(fmt.Sprintf("validate migrations: %v", err))
		}
		fmt.Println("migrations ok")
		return
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	fatalIf(logg, "connecting to database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	fatalIf(logg, "unwrapping sql connection", err)

	switch *cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
			fail(fmt.Sprintf("goose %s: %v", *cmd, err))
		}
	case "version":
		if *version == "" {
			fail("-cmd=version needs -version")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *version); err != nil {
			fail(fmt.Sprintf("goose migrate to %s: %v", *version, err))
		}
	default:
		fail("unknown -cmd " + *cmd)
	}
}

func fatalIf(logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), step+" failed", err)
	os.Exit(1)
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
