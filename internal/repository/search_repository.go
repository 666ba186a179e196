package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/michaelkatsweb/Heronix-Application-sub012/internal/models"
)

// SearchRepository runs name-based lookups across the main entities.
type SearchRepository struct {
	db *sqlx.DB
}

// NewSearchRepository constructs the repository.
func NewSearchRepository(db *sqlx.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search returns up to limit matches per entity for the query string.
func (r *SearchRepository) Search(ctx context.Context, query string, limit int) (*models.SearchResults, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := "%" + strings.ToLower(query) + "%"
	results := &models.SearchResults{}

	studentQuery := fmt.Sprintf(`SELECT %s FROM students
WHERE LOWER(full_name) LIKE $1 OR LOWER(student_number) LIKE $1 ORDER BY full_name LIMIT %d`, studentColumns, limit)
	if err := r.db.SelectContext(ctx, &results.Students, studentQuery, pattern); err != nil {
		return nil, fmt.Errorf("search students: %w", err)
	}

	teacherQuery := fmt.Sprintf(`SELECT %s FROM teachers
WHERE LOWER(full_name) LIKE $1 OR LOWER(email) LIKE $1 ORDER BY full_name LIMIT %d`, teacherColumns, limit)
	if err := r.db.SelectContext(ctx, &results.Teachers, teacherQuery, pattern); err != nil {
		return nil, fmt.Errorf("search teachers: %w", err)
	}

	courseQuery := fmt.Sprintf(`SELECT %s FROM courses
WHERE LOWER(name) LIKE $1 OR LOWER(code) LIKE $1 ORDER BY code LIMIT %d`, courseColumns, limit)
	if err := r.db.SelectContext(ctx, &results.Courses, courseQuery, pattern); err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}

	roomQuery := fmt.Sprintf(`SELECT %s FROM rooms
WHERE LOWER(name) LIKE $1 OR LOWER(building) LIKE $1 ORDER BY building, name LIMIT %d`, roomColumns, limit)
	if err := r.db.SelectContext(ctx, &results.Rooms, roomQuery, pattern); err != nil {
		return nil, fmt.Errorf("search rooms: %w", err)
	}

	return results, nil
}
