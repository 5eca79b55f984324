package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fservio/projeto-do-povo/internal/config"
	"github.com/fservio/projeto-do-povo/internal/migration"
	pkglogger "github.com/fservio/projeto-do-povo/pkg/logger"
	"github.com/spf13/pflag"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath string
		reset      bool
		drop       bool
		dryRun     bool
		verbose    bool
	)

	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "configs/config.local.yaml", "config file path")
	flagSet.BoolVar(&reset, "reset", false, "drop every article table, then recreate the schema")
	flagSet.BoolVar(&drop, "drop", false, "drop every article table and exit")
	flagSet.BoolVar(&dryRun, "dry-run", false, "list the tables that would be migrated")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "verbose SQL logging")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if reset && drop {
		return fmt.Errorf("--reset and --drop are mutually exclusive")
	}

	loaded := config.LoadDotEnv()
	pkglogger.InitStructured(os.Getenv("APP_ENV"))
	if len(loaded) == 0 {
		pkglogger.Info("No .env file found, using environment variables")
	}

	if dryRun {
		for _, table := range migration.TableNames() {
			fmt.Println(table)
		}
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := gormlogger.Warn
	if verbose {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get underlying DB: %w", err)
	}
	defer sqlDB.Close()

	if reset || drop {
		pkglogger.Warn("Dropping tables: %v", migration.TableNames())
		if err := migration.Drop(db); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
		if drop {
			return nil
		}
	}

	if err := migration.Run(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	pkglogger.Info("Migration complete: %v", migration.TableNames())
	return nil
}
