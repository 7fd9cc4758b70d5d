package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/studentsql/studentsql/internal/config"
	"github.com/studentsql/studentsql/internal/query/drivers"
	"github.com/studentsql/studentsql/internal/seed"
)

func main() {
	fixturePath := flag.String("fixture", "", "YAML fixture to load; the bundled sample class when empty")
	reset := flag.Bool("reset", false, "delete existing rows before loading")
	flag.Parse()

	cfg, err := config.LoadFromEnv("studentsql-seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if !drivers.Registered(cfg.Store.Driver) {
		fmt.Fprintf(os.Stderr, "store driver %q is not compiled in\n", cfg.Store.Driver)
		os.Exit(1)
	}

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fixture error: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database open error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seeder, err := seed.New(db, cfg.Store.Driver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
	inserted, err := seeder.Seed(ctx, fixture, seed.Options{Reset: *reset})
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("inserted %d student(s) into %s\n", inserted, cfg.Store.Path)
}

func loadFixture(path string) (seed.Fixture, error) {
	if path == "" {
		return seed.DefaultFixture()
	}
	file, err := os.Open(path)
	if err != nil {
		return seed.Fixture{}, err
	}
	defer func() { _ = file.Close() }()
	return seed.DecodeFixture(file)
}
