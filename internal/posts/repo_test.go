//go:build integration_test || all_tests

package posts

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anagolic/anagoliccom/internal/content"
	"github.com/anagolic/anagoliccom/internal/db"
)

func testRepoSetup(t *testing.T) (*Repo, func()) {
	t.Helper()

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postgres host: %s", host)

	dbPool, err := db.NewDBPool(timeoutCtx, db.NewDBPoolParams{
		DBHost:         host,
		DBPort:         "5432",
		DBName:         "anagolic_posts",
		TracingEnabled: false,
	})
	require.NoError(t, err)

	return NewRepo(dbPool), func() {
		dbPool.Close()
	}
}

func randomPost() *Post {
	return &Post{
		Title:    gofakeit.Sentence(4),
		Slug:     gofakeit.Regex(`[a-z]{5,10}-[a-z]{5,10}-[0-9]{6}`),
		Excerpt:  gofakeit.Sentence(10),
		Category: gofakeit.RandomString([]string{"engineering", "career", "teaching"}),
		Status:   StatusDraft,
		Personas: []string{"builder", "learner"},
		Content: content.NewDocument(
			&content.Heading{Level: 2, Content: gofakeit.Sentence(3)},
			&content.Text{Content: gofakeit.Paragraph(1, 3, 10, " ")},
		),
	}
}

func TestRepo_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	countBefore, err := repo.Count(ctx)
	require.NoError(t, err)

	post := randomPost()
	require.NoError(t, repo.Create(ctx, post))
	require.True(t, post.ID > 0)
	assert.False(t, post.CreatedAt.IsZero())

	fetched, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Title, fetched.Title)
	assert.Equal(t, post.Slug, fetched.Slug)
	assert.Equal(t, post.Personas, fetched.Personas)
	require.Equal(t, post.Content.Len(), fetched.Content.Len())
	assert.Equal(t, post.Content.Blocks[0], fetched.Content.Blocks[0])

	bySlug, err := repo.GetBySlug(ctx, post.Slug)
	require.NoError(t, err)
	assert.Equal(t, post.ID, bySlug.ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, countBefore+1, count)

	require.NoError(t, repo.Delete(ctx, post.ID))
	_, err = repo.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, post.ID), ErrPostNotFound)
}

func TestRepo_Create_SlugTaken(t *testing.T) {
	ctx := context.Background()
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	post := randomPost()
	require.NoError(t, repo.Create(ctx, post))
	defer func() {
		require.NoError(t, repo.Delete(ctx, post.ID))
	}()

	duplicate := randomPost()
	duplicate.Slug = post.Slug
	assert.ErrorIs(t, repo.Create(ctx, duplicate), ErrSlugTaken)
}

func TestRepo_Update_WholeDocumentReplace(t *testing.T) {
	ctx := context.Background()
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	post := randomPost()
	require.NoError(t, repo.Create(ctx, post))
	defer func() {
		require.NoError(t, repo.Delete(ctx, post.ID))
	}()
	require.Nil(t, post.PublishedAt)

	post.Title = "updated title"
	post.Status = StatusPublished
	post.Content = content.NewDocument(
		&content.Callout{Variant: content.CalloutSuccess, Title: "done", Content: "replaced"},
	)
	require.NoError(t, repo.Update(ctx, post))
	require.NotNil(t, post.PublishedAt)

	fetched, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated title", fetched.Title)
	assert.Equal(t, StatusPublished, fetched.Status)
	require.NotNil(t, fetched.PublishedAt)
	require.Equal(t, 1, fetched.Content.Len())
	assert.Equal(t, post.Content.Blocks[0], fetched.Content.Blocks[0])

	published, err := repo.ListPublished(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, published)
	assert.Equal(t, post.ID, published[0].ID)
}

func TestRepo_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, shutdown := testRepoSetup(t)
	defer shutdown()

	missing := randomPost()
	missing.ID = -1
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrPostNotFound)
}
