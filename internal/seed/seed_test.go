package seed

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "modernc.org/sqlite"

	"github.com/studentsql/studentsql/internal/query/sqlstore"
)

func TestDefaultFixtureHasSampleClass(t *testing.T) {
	fixture, err := DefaultFixture()
	if err != nil {
		t.Fatalf("DefaultFixture() error = %v", err)
	}
	if len(fixture.Students) != 5 {
		t.Fatalf("len(Students) = %d", len(fixture.Students))
	}
	dataScience := 0
	for _, student := range fixture.Students {
		if student.Course == "Data Science" {
			dataScience++
		}
	}
	if dataScience != 3 {
		t.Fatalf("Data Science students = %d", dataScience)
	}
}

func TestDecodeFixtureRejectsBadInput(t *testing.T) {
	for _, body := range []string{
		"",
		"students:\n  - name: A\n    course: B\n    grade: 3\n",
		"students:\n  - course: B\n",
		"students:\n  - name: A\n    marks: lots\n",
	} {
		if _, err := DecodeFixture(strings.NewReader(body)); err == nil {
			t.Fatalf("DecodeFixture(%q) expected error", body)
		}
	}
}

func TestSeedLoadsSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "student.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	seeder, err := New(db, sqlstore.DriverSQLite)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	fixture, err := DefaultFixture()
	if err != nil {
		t.Fatalf("DefaultFixture() error = %v", err)
	}

	ctx := context.Background()
	if _, err := seeder.Seed(ctx, fixture, Options{}); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if _, err := seeder.Seed(ctx, fixture, Options{}); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	assertRowCount(t, db, 10)

	inserted, err := seeder.Seed(ctx, fixture, Options{Reset: true})
	if err != nil {
		t.Fatalf("Seed(reset) error = %v", err)
	}
	if inserted != 5 {
		t.Fatalf("inserted = %d", inserted)
	}
	assertRowCount(t, db, 5)

	executor, err := sqlstore.New(sqlstore.Config{Driver: sqlstore.DriverSQLite, DSN: path})
	if err != nil {
		t.Fatalf("sqlstore.New() error = %v", err)
	}
	result, err := executor.Execute(ctx, `SELECT * FROM STUDENT WHERE COURSE="Data Science";`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.RowCount != 3 {
		t.Fatalf("RowCount = %d", result.RowCount)
	}
}

func TestSeedUsesNumberedPlaceholdersForPostgres(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS STUDENT")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM STUDENT")).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO STUDENT (NAME, COURSE, SECTION, MARKS) VALUES ($1, $2, $3, $4)")).
		WithArgs("Krish", "Data Science", "A", 90).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	seeder, err := New(db, sqlstore.DriverPostgres)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	fixture := Fixture{Students: []Student{{Name: "Krish", Course: "Data Science", Section: "A", Marks: 90}}}
	if _, err := seeder.Seed(context.Background(), fixture, Options{Reset: true}); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	assertSQLMock(t, mock)
}

func TestSeedRollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("VALUES (?, ?, ?, ?)")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	seeder, err := New(db, sqlstore.DriverDuckDB)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	fixture := Fixture{Students: []Student{{Name: "Krish", Course: "Data Science"}}}
	_, err = seeder.Seed(context.Background(), fixture, Options{})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Seed() error = %v", err)
	}
	assertSQLMock(t, mock)
}

func TestNewValidation(t *testing.T) {
	if _, err := New(nil, sqlstore.DriverSQLite); err == nil {
		t.Fatal("expected db error")
	}
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()
	if _, err := New(db, "mysql"); err == nil {
		t.Fatal("expected driver error")
	}
}

func assertRowCount(t *testing.T, db *sql.DB, want int) {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM STUDENT").Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != want {
		t.Fatalf("row count = %d, want %d", count, want)
	}
}

func assertSQLMock(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sqlmock expectations: %v", err)
	}
}
