package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"tempmonitor/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func TestThresholdCreate_GeneratesIDAndTimestamp(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewThresholdSQLite(db)

	mock.ExpectExec(regexp.QuoteMeta(insertThresholdSQL)).
		WithArgs(sqlmock.AnyArg(), 30.5, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(testCtx(t), models.Threshold{Value: 30.5}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestThresholdCreate_DBError(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewThresholdSQLite(db)

	mock.ExpectExec("INSERT INTO thresholds").WillReturnError(errors.New("down"))

	err = repo.Create(testCtx(t), models.Threshold{Value: 10})
	if err == nil || !strings.Contains(err.Error(), "down") {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestThresholdList_CreationOrder(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewThresholdSQLite(db)

	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	rows := sqlmock.NewRows([]string{"id", "value", "created_at"}).
		AddRow("a", 20.0, t1).
		AddRow("b", 25.0, t2)

	mock.ExpectQuery(regexp.QuoteMeta(listThresholdsSQL)).WillReturnRows(rows)

	got, err := repo.List(testCtx(t))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if !got[0].CreatedAt.Equal(t1) {
		t.Fatalf("created_at not preserved: %v", got[0].CreatedAt)
	}
}

func TestThresholdLatest_EmptyReturnsNil(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewThresholdSQLite(db)

	mock.ExpectQuery(regexp.QuoteMeta(latestThresholdSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "value", "created_at"}))

	got, err := repo.Latest(testCtx(t))
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for empty table, got %+v", got)
	}
}

func TestThresholdLatest_ReturnsNewest(t *testing.T) {
	t.Parallel()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := NewThresholdSQLite(db)

	created := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(latestThresholdSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "value", "created_at"}).AddRow("newest", 42.0, created))

	got, err := repo.Latest(testCtx(t))
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if got == nil || got.ID != "newest" || got.Value != 42.0 {
		t.Fatalf("unexpected threshold: %+v", got)
	}
}
