package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	var migrationsPath, dsn string
	var down bool

	flag.StringVar(&migrationsPath, "migrations", "./migrations", "path to migrations")
	flag.StringVar(&dsn, "dsn", "", "postgres dsn")
	flag.BoolVar(&down, "down", false, "roll back all migrations")
	flag.Parse()

	if dsn == "" {
		log.Fatal("dsn is required")
	}

	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		log.Fatalf("failed to init migrator: %v", err)
	}

	if down {
		err = m.Down()
	} else {
		err = m.Up()
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("no change")
			return
		}
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("migrations applied")
}
