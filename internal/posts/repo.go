package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/anagolic/anagoliccom/internal/content"
	"github.com/anagolic/anagoliccom/internal/telemetry/tracing"
	"github.com/anagolic/anagoliccom/pkg"
)

// posts table:
//	id serial, title text, slug text unique, excerpt text, category text,
//	cover_image_url text, read_time text, featured bool, status text,
//	personas text[], claps int, created_at/updated_at timestamptz,
//	published_at timestamptz null, content jsonb

var _ postsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, post *Post) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := post.Validate(); err != nil {
		return err
	}

	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	if post.Status == StatusPublished && post.PublishedAt == nil {
		post.PublishedAt = &now
	}

	contentJSON, err := json.Marshal(post.Content)
	if err != nil {
		return fmt.Errorf("marshal post content: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO posts
			(title, slug, excerpt, category, cover_image_url, read_time,
			featured, status, personas, claps, created_at, updated_at, published_at, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;`,
		post.Title, post.Slug, post.Excerpt, post.Category, post.CoverImageURL, post.ReadTime,
		post.Featured, post.Status, post.Personas, post.Claps,
		post.CreatedAt, post.UpdatedAt, post.PublishedAt, contentJSON,
	).Scan(&post.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// Update replaces the whole post, content document included. Claps and
// created_at are not touched. Last writer wins; there is no concurrency
// token.
func (r *Repo) Update(ctx context.Context, post *Post) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", post.ID))

	if err := post.Validate(); err != nil {
		return err
	}

	post.UpdatedAt = time.Now()
	if post.Status == StatusPublished && post.PublishedAt == nil {
		publishedAt := post.UpdatedAt
		post.PublishedAt = &publishedAt
	}

	contentJSON, err := json.Marshal(post.Content)
	if err != nil {
		return fmt.Errorf("marshal post content: %w", err)
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE posts SET
			title = $1, slug = $2, excerpt = $3, category = $4, cover_image_url = $5,
			read_time = $6, featured = $7, status = $8, personas = $9,
			updated_at = $10, published_at = $11, content = $12
		WHERE id = $13`,
		post.Title, post.Slug, post.Excerpt, post.Category, post.CoverImageURL,
		post.ReadTime, post.Featured, post.Status, post.Personas,
		post.UpdatedAt, post.PublishedAt, contentJSON, post.ID,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repo) PostClapped(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `UPDATE posts SET claps = claps + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id int) (_ *Post, err error) {
	log.Tracef("getting post %d", id)

	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.GetByID")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(ctx, selectPosts+` WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.onePost(rows)
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.GetBySlug")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("slug", slug))

	rows, err := r.db.Query(ctx, selectPosts+` WHERE slug = $1;`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.onePost(rows)
}

// ListAll returns every post, drafts included, newest first. Admin only.
func (r *Repo) ListAll(ctx context.Context) (_ []*Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.ListAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, selectPosts+` ORDER BY created_at DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2posts(rows)
}

// ListPublished returns published posts, newest published first,
// optionally filtered by category.
func (r *Repo) ListPublished(ctx context.Context, category string) (_ []*Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.ListPublished")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("category", category))

	query := selectPosts + ` WHERE status = 'published'`
	args := []any{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY published_at DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.rows2posts(rows)
}

func (r *Repo) Categories(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Categories")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT category FROM posts
			WHERE status = 'published' AND category <> ''
			ORDER BY category;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *Repo) Count(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.Count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

const selectPosts = `
	SELECT
		id, title, slug, excerpt, category, cover_image_url, read_time,
		featured, status, personas, claps, created_at, updated_at, published_at, content
	FROM posts`

func (r *Repo) onePost(rows pgx.Rows) (*Post, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrPostNotFound
	}
	return scanPost(rows)
}

func (r *Repo) rows2posts(rows pgx.Rows) ([]*Post, error) {
	var list []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, post)
	}
	return list, rows.Err()
}

func scanPost(rows pgx.Rows) (*Post, error) {
	post := &Post{}
	var contentJSON []byte
	if err := rows.Scan(
		&post.ID, &post.Title, &post.Slug, &post.Excerpt, &post.Category,
		&post.CoverImageURL, &post.ReadTime, &post.Featured, &post.Status,
		&post.Personas, &post.Claps, &post.CreatedAt, &post.UpdatedAt,
		&post.PublishedAt, &contentJSON,
	); err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}

	if err := json.Unmarshal(contentJSON, &post.Content); err != nil {
		// a post with a broken document is still listed, just empty
		log.Errorf("post %d: unmarshal content: %s", post.ID, err)
		post.Content = content.NewDocument()
	}

	return post, nil
}
