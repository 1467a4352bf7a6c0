package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dfryer1193/apodwall/shared/db"
	"github.com/dfryer1193/apodwall/wallpaper/domain"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var _ domain.ImageRepository = (*SQLiteImageRepository)(nil)

// SQLiteImageRepository implements domain.ImageRepository on the images table
type SQLiteImageRepository struct {
	db        *sql.DB
	freeSpace freeSpaceFunc
}

// NewImageRepository creates a new SQLiteImageRepository from a connected sql.DB
func NewImageRepository(sqlDB *sql.DB) *SQLiteImageRepository {
	return &SQLiteImageRepository{
		db:        sqlDB,
		freeSpace: diskFree,
	}
}

const insertImageQuery = `
	INSERT INTO images (path, size, hash)
	VALUES (?, ?, ?)
`

// Insert appends a record. A path that is already recorded yields KindDuplicatePath.
func (r *SQLiteImageRepository) Insert(ctx context.Context, rec domain.ImageRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}

	executor := db.GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, insertImageQuery, rec.Path, rec.Size, rec.Hash)
	if isConstraintError(err) {
		return domain.NewError(domain.KindDuplicatePath, "inserting image record", fmt.Errorf("path %s already recorded: %w", rec.Path, err))
	}
	if err != nil {
		return domain.NewError(domain.KindStoreUnavailable, "inserting image record", err)
	}

	return nil
}

// SaveImage records rec and writes content to rec.Path within a transaction.
// If the file cannot be written the record is rolled back.
func (r *SQLiteImageRepository) SaveImage(ctx context.Context, rec domain.ImageRecord, content []byte) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	if int64(len(content)) != rec.Size {
		return domain.Errorf(domain.KindInvalidArgument, "saving image", "content is %d bytes, record says %d", len(content), rec.Size)
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		if err := r.Insert(txCtx, rec); err != nil {
			return err
		}

		dir := filepath.Dir(rec.Path)
		if err := ensureFreeSpace(txCtx, r.freeSpace, dir, rec.Size); err != nil {
			return err
		}

		if err := os.WriteFile(rec.Path, content, 0644); err != nil {
			return domain.NewError(domain.KindStoreUnavailable, "writing image file", err)
		}

		return nil
	})
}

// No index exists on hash, so lookups by digest scan the table.
const findByHashQuery = `
	SELECT path, size, hash
	FROM images
	WHERE hash = ?
	LIMIT 1
`

// ContainsHash reports whether a record with exactly this digest exists
func (r *SQLiteImageRepository) ContainsHash(ctx context.Context, hash string) (bool, error) {
	_, found, err := r.FindByHash(ctx, hash)
	return found, err
}

// FindByHash returns the record with this digest, if one exists
func (r *SQLiteImageRepository) FindByHash(ctx context.Context, hash string) (*domain.ImageRecord, bool, error) {
	var row imageRow
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, findByHashQuery, hash).Scan(
		&row.Path,
		&row.Size,
		&row.Hash,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, domain.NewError(domain.KindStoreUnavailable, "looking up image by hash", err)
	}

	return row.toDomain(), true, nil
}

const getImageQuery = `
	SELECT path, size, hash
	FROM images
	WHERE path = ?
`

// GetImage retrieves a single record by path
func (r *SQLiteImageRepository) GetImage(ctx context.Context, path string) (*domain.ImageRecord, error) {
	if path == "" {
		return nil, domain.Errorf(domain.KindInvalidArgument, "getting image", "image path cannot be empty")
	}

	var row imageRow
	err := db.GetExecutor(ctx, r.db).QueryRowContext(ctx, getImageQuery, path).Scan(
		&row.Path,
		&row.Size,
		&row.Hash,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, domain.NewError(domain.KindStoreUnavailable, "getting image", err)
	}

	return row.toDomain(), nil
}

const listImagesQuery = `
	SELECT path, size, hash
	FROM images
	ORDER BY path DESC
`

// ListImages returns every record, ordered by path descending
func (r *SQLiteImageRepository) ListImages(ctx context.Context) ([]domain.ImageRecord, error) {
	rows, err := db.GetExecutor(ctx, r.db).QueryContext(ctx, listImagesQuery)
	if err != nil {
		return nil, domain.NewError(domain.KindStoreUnavailable, "listing images", err)
	}
	defer rows.Close()

	var images []domain.ImageRecord
	for rows.Next() {
		var row imageRow
		if err := rows.Scan(&row.Path, &row.Size, &row.Hash); err != nil {
			return nil, domain.NewError(domain.KindStoreUnavailable, "scanning image row", err)
		}
		images = append(images, *row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewError(domain.KindStoreUnavailable, "listing images", err)
	}

	return images, nil
}

func validateRecord(rec domain.ImageRecord) error {
	if rec.Path == "" {
		return domain.Errorf(domain.KindInvalidArgument, "validating image record", "image path cannot be empty")
	}
	if rec.Hash == "" {
		return domain.Errorf(domain.KindInvalidArgument, "validating image record", "image hash cannot be empty")
	}
	if rec.Size < 0 {
		return domain.Errorf(domain.KindInvalidArgument, "validating image record", "image size cannot be negative")
	}
	return nil
}

func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3lib.SQLITE_CONSTRAINT, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// imageRow is a private struct used to scan database rows
type imageRow struct {
	Path string `db:"path"`
	Size int64  `db:"size"`
	Hash string `db:"hash"`
}

func (ir *imageRow) toDomain() *domain.ImageRecord {
	return &domain.ImageRecord{
		Path: ir.Path,
		Size: ir.Size,
		Hash: ir.Hash,
	}
}
