package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/studentsql/studentsql/internal/observability"
	"github.com/studentsql/studentsql/internal/query"
	"github.com/studentsql/studentsql/internal/schema"
	"github.com/studentsql/studentsql/internal/storage"
)

const parquetContentType = "application/vnd.apache.parquet"

type TableSource interface {
	FullTable(ctx context.Context) (query.Result, error)
}

type Snapshot struct {
	Key       string    `json:"key"`
	RowCount  int64     `json:"row_count"`
	SizeBytes int64     `json:"size_bytes"`
	ETag      string    `json:"etag,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Exporter dumps the full student table into object storage.
type Exporter struct {
	source TableSource
	store  storage.ObjectStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func New(source TableSource, store storage.ObjectStore, logger *slog.Logger) (*Exporter, error) {
	if source == nil {
		return nil, errors.New("export: table source is required")
	}
	if store == nil {
		return nil, errors.New("export: object store is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{
		source: source,
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

func (e *Exporter) Export(ctx context.Context) (Snapshot, error) {
	snapshot, err := e.export(ctx)
	observability.ObserveExport(err == nil)
	if err != nil {
		e.logger.WarnContext(ctx, "table_export_failed",
			slog.String("trace_id", observability.TraceIDFromContext(ctx)),
			slog.String("error", err.Error()),
		)
		return Snapshot{}, err
	}
	e.logger.InfoContext(ctx, "table_exported",
		slog.String("trace_id", observability.TraceIDFromContext(ctx)),
		slog.String("key", snapshot.Key),
		slog.Int64("rows", snapshot.RowCount),
		slog.Int64("bytes", snapshot.SizeBytes),
	)
	return snapshot, nil
}

func (e *Exporter) export(ctx context.Context) (Snapshot, error) {
	result, err := e.source.FullTable(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export: read table: %w", err)
	}
	data, rows, err := EncodeStudents(result)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export: encode: %w", err)
	}

	createdAt := e.now().UTC()
	key, err := storage.BuildExportPath(schema.Student.Name, createdAt, e.newID())
	if err != nil {
		return Snapshot{}, fmt.Errorf("export: %w", err)
	}
	info, err := e.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), storage.PutOptions{ContentType: parquetContentType})
	if err != nil {
		return Snapshot{}, fmt.Errorf("export: upload: %w", err)
	}
	return Snapshot{
		Key:       key,
		RowCount:  rows,
		SizeBytes: int64(len(data)),
		ETag:      info.ETag,
		CreatedAt: createdAt,
	}, nil
}
