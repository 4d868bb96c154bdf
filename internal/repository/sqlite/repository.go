package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cats-service/internal/model"
	"cats-service/internal/repository"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ repository.CatRepository = (*Repository)(nil)

// Repository — SQLite-реализация хранилища котов.
// Временные метки хранятся как unix-секунды, порядок создания
// обеспечивается автоинкрементным первичным ключом.
type Repository struct {
	db *sql.DB
}

// NewRepository открывает (или создает) базу SQLite по указанному пути
// и готовит таблицу cats
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		path = "cats.db"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		notes TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cats table: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close закрывает соединение с базой
func (r *Repository) Close() error {
	return r.db.Close()
}

// Create сохраняет нового кота одним INSERT (всё или ничего)
// и возвращает его с присвоенным ID
func (r *Repository) Create(ctx context.Context, cat model.Cat) (model.Cat, error) {
	now := time.Now()
	if cat.CreatedAt.IsZero() {
		cat.CreatedAt = now
	}
	cat.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cats (name, age, notes, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		cat.Name, cat.Age, cat.Notes, cat.CreatedAt.Unix(), cat.UpdatedAt.Unix(),
	)
	if err != nil {
		return model.Cat{}, fmt.Errorf("insert cat: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Cat{}, fmt.Errorf("last insert id: %w", err)
	}
	cat.ID = id

	// Выравниваем метки по секундной точности хранения
	cat.CreatedAt = time.Unix(cat.CreatedAt.Unix(), 0)
	cat.UpdatedAt = time.Unix(cat.UpdatedAt.Unix(), 0)

	return cat, nil
}

// GetByID возвращает кота по его ID
func (r *Repository) GetByID(ctx context.Context, id int64) (model.Cat, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, age, notes, created_at, updated_at FROM cats WHERE id = ?`, id)

	cat, err := scanCat(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Cat{}, repository.ErrCatNotFound
	}
	if err != nil {
		return model.Cat{}, fmt.Errorf("select cat: %w", err)
	}

	return cat, nil
}

// List возвращает всех котов в порядке создания
func (r *Repository) List(ctx context.Context) ([]model.Cat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, age, notes, created_at, updated_at FROM cats ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select cats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cats := make([]model.Cat, 0)
	for rows.Next() {
		cat, err := scanCat(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan cat: %w", err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cats: %w", err)
	}

	return cats, nil
}

// scanCat читает одну строку таблицы cats в доменную модель
func scanCat(scan func(dest ...any) error) (model.Cat, error) {
	var (
		cat       model.Cat
		notes     sql.NullString
		createdAt int64
		updatedAt int64
	)

	if err := scan(&cat.ID, &cat.Name, &cat.Age, &notes, &createdAt, &updatedAt); err != nil {
		return model.Cat{}, err
	}

	if notes.Valid {
		cat.Notes = &notes.String
	}
	cat.CreatedAt = time.Unix(createdAt, 0)
	cat.UpdatedAt = time.Unix(updatedAt, 0)

	return cat, nil
}
