package main

import (
	"database/sql"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
)

const migrationDir = "./db/migrations"

func main() {
	// Load .env if present, don't fail if missing
	_ = godotenv.Load()

	var (
		downFlag   = flag.Bool("down", false, "Run migrations down instead of up")
		statusFlag = flag.Bool("status", false, "Print migration status and exit")
		dbConn     = os.Getenv("DB_CONN")
	)
	flag.Parse()

	if dbConn == "" {
		logrus.Fatal("DB_CONN environment variable is required")
	}

	db, err := sql.Open("postgres", dbConn)
	if err != nil {
		logrus.Fatalf("cannot open db connection: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logrus.Fatalf("cannot set postgres dialect: %v", err)
	}

	switch {
	case *statusFlag:
		err = goose.Status(db, migrationDir)
	case *downFlag:
		err = runDown(db)
	default:
		err = runUp(db)
	}

	if err != nil {
		logrus.Fatalf("Migration failed: %+v", err)
	}
}

func runUp(db *sql.DB) error {
	if err := goose.Up(db, migrationDir, goose.WithAllowMissing()); err != nil {
		return errors.Errorf("cannot up migrations: %v", err)
	}
	logrus.Info("Migrations applied successfully")
	return nil
}

func runDown(db *sql.DB) error {
	if err := goose.Down(db, migrationDir); err != nil {
		return errors.Errorf("cannot down migrations: %v", err)
	}
	logrus.Info("Migrations rolled back successfully")
	return nil
}
