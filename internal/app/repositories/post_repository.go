package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AngelaEmileJose/KNU-Link/internal/app/models"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/apperrors"
	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/dberrors"
)

// PostRepository handles database operations for activity posts
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, user_id, nickname, icon, activity, category, "time", location, expiration_date, created_at`

// Create inserts a new post into the database
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (user_id, nickname, icon, activity, category, "time", location, expiration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		post.UserID,
		post.Nickname,
		post.Icon,
		post.Activity,
		post.Category,
		post.Time,
		post.Location,
		post.ExpirationDate,
	).Scan(&post.ID, &post.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts WHERE id = $1`, postColumns)

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error retrieving post: %w", err)
	}

	return post, nil
}

// ListActive retrieves non-expired posts in created_at descending order,
// optionally narrowed to one category. CategoryAll (or empty) matches all.
func (r *PostRepository) ListActive(ctx context.Context, category models.Category, now time.Time) ([]*models.Post, error) {
	queryBuilder := squirrel.Select(
		"id", "user_id", "nickname", "icon", "activity", "category", `"time"`, "location", "expiration_date", "created_at",
	).
		From("posts").
		Where(squirrel.Or{
			squirrel.Eq{"expiration_date": nil},
			squirrel.Gt{"expiration_date": now},
		}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if category != "" && category != models.CategoryAll {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"category": category})
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// ListJoinedByUser retrieves the posts a user has participations for, most
// recent first.
func (r *PostRepository) ListJoinedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Post, error) {
	queryBuilder := squirrel.Select(
		"p.id", "p.user_id", "p.nickname", "p.icon", "p.activity", "p.category", `p."time"`, "p.location", "p.expiration_date", "p.created_at",
	).
		From("posts p").
		Join("participations pt ON pt.post_id = p.id").
		Where(squirrel.Eq{"pt.user_id": userID}).
		OrderBy("p.created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// DeleteExpired removes every post whose expiration date has passed and
// returns the deleted rows so the caller can publish their removal.
func (r *PostRepository) DeleteExpired(ctx context.Context, now time.Time) ([]*models.Post, error) {
	query := fmt.Sprintf(`
		DELETE FROM posts
		WHERE expiration_date IS NOT NULL AND expiration_date < $1
		RETURNING %s
	`, postColumns)

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("error deleting expired posts: %w", err)
	}
	defer rows.Close()

	var deleted []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning deleted post row: %w", err)
		}
		deleted = append(deleted, post)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deleted post rows: %w", err)
	}

	return deleted, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Nickname,
		&post.Icon,
		&post.Activity,
		&post.Category,
		&post.Time,
		&post.Location,
		&post.ExpirationDate,
		&post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
