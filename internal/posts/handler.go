package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/anagolic/anagoliccom/internal/content"
	"github.com/anagolic/anagoliccom/internal/telemetry/metrics"
	"github.com/anagolic/anagoliccom/pkg"
)

type PostsResponse struct {
	Posts []*Post `json:"posts"`
	Total int     `json:"total"`
}

type clapPostRequest struct {
	ID int `json:"id"`
}

type postsRepo interface {
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int) error
	PostClapped(ctx context.Context, id int) error
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	ListAll(ctx context.Context) ([]*Post, error)
	ListPublished(ctx context.Context, category string) ([]*Post, error)
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	repo     postsRepo
	renderer *content.Renderer
	metrics  *metrics.Manager
}

func NewHandler(repo postsRepo, renderer *content.Renderer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:     repo,
		renderer: renderer,
		metrics:  metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	// admin editor surface
	router.HandleFunc("/posts/new", handler.handleNew).Methods("POST", "OPTIONS").Name("new-post")
	router.HandleFunc("/posts/update", handler.handleUpdate).Methods("POST", "OPTIONS").Name("update-post")
	router.HandleFunc("/posts/delete/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-post")
	router.HandleFunc("/posts/all", handler.handleAll).Methods("GET").Name("all-posts")
	router.HandleFunc("/posts/templates", handler.handleBlockTemplates).Methods("GET").Name("block-templates")

	// public surface
	router.HandleFunc("/posts/published", handler.handlePublished).Methods("GET").Name("published-posts")
	router.HandleFunc("/posts/categories", handler.handleCategories).Methods("GET").Name("post-categories")
	router.HandleFunc("/posts/slug/{slug}", handler.handleGetBySlug).Methods("GET").Name("post-by-slug")
	router.HandleFunc("/posts/slug/{slug}/html", handler.handleRenderBySlug).Methods("GET").Name("post-html")
	router.HandleFunc("/posts/clap", handler.handleClap).Methods("PATCH", "OPTIONS").Name("post-clapped")
}

func (handler *Handler) decodePost(r *http.Request) (*Post, error) {
	if r.Header.Get("Content-Type") != "application/json" {
		return nil, errors.New("expected application/json")
	}
	var post Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	post, err := handler.decodePost(r)
	if err != nil {
		log.Errorf("new post, decode: %s", err)
		http.Error(w, "add post failed", http.StatusBadRequest)
		return
	}

	if saveErr := handler.savePrecheck(w, post); saveErr {
		return
	}

	if err := handler.repo.Create(r.Context(), post); err != nil {
		if errors.Is(err, ErrSlugTaken) {
			http.Error(w, "error, slug already taken", http.StatusConflict)
			return
		}
		log.Errorf("add new post failed: %s", err)
		http.Error(w, "add new post failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new post %d: [%s] added", post.ID, post.Slug)
	handler.metrics.CounterPostsSaved.Inc()

	pkg.WriteResponse(w, pkg.ContentType.Text, fmt.Sprintf("added:%d", post.ID), http.StatusCreated)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	post, err := handler.decodePost(r)
	if err != nil {
		log.Errorf("update post, decode: %s", err)
		http.Error(w, "update post failed", http.StatusBadRequest)
		return
	}

	if saveErr := handler.savePrecheck(w, post); saveErr {
		return
	}
	if post.ID <= 0 {
		http.Error(w, "error, id invalid", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Update(r.Context(), post); err != nil {
		switch {
		case errors.Is(err, ErrPostNotFound):
			http.Error(w, "error, post not found", http.StatusNotFound)
		case errors.Is(err, ErrSlugTaken):
			http.Error(w, "error, slug already taken", http.StatusConflict)
		default:
			log.Errorf("update post failed: %s", err)
			http.Error(w, "update post failed", http.StatusInternalServerError)
		}
		return
	}

	handler.metrics.CounterPostsSaved.Inc()
	pkg.WriteTextResponseOK(w, fmt.Sprintf("updated:%d", post.ID))
}

// savePrecheck blocks a save with an empty title or slug before any
// repo call is made. Returns true if the response was already written.
func (handler *Handler) savePrecheck(w http.ResponseWriter, post *Post) bool {
	if post.Status == "" {
		post.Status = StatusDraft
	}
	switch err := post.Validate(); {
	case errors.Is(err, ErrTitleOrSlugEmpty):
		http.Error(w, "error, title or slug empty", http.StatusBadRequest)
		return true
	case errors.Is(err, ErrSlugInvalid):
		http.Error(w, "error, slug not url safe", http.StatusBadRequest)
		return true
	case err != nil:
		http.Error(w, "error, invalid post", http.StatusBadRequest)
		return true
	}
	return false
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	idStr := vars["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "error, post not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete post %d: %s", id, err)
		http.Error(w, "error, post not deleted, internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%d", id))
}

func (handler *Handler) handleClap(w http.ResponseWriter, r *http.Request) {
	var clapReq clapPostRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&clapReq); err != nil {
			log.Errorf("post clap, unmarshal json params: %s", err)
			http.Error(w, "clap post failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		id, err := strconv.Atoi(r.Form.Get("id"))
		if err != nil {
			http.Error(w, "error, id NaN", http.StatusBadRequest)
			return
		}
		clapReq.ID = id
	}

	if err := handler.repo.PostClapped(r.Context(), clapReq.ID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "error, post not found", http.StatusNotFound)
			return
		}
		log.Errorf("clap post failed: %s", err)
		http.Error(w, "clap post failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterPostClaps.Inc()
	pkg.WriteTextResponseOK(w, fmt.Sprintf("clapped:%d", clapReq.ID))
}

func (handler *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	allPosts, err := handler.repo.ListAll(r.Context())
	if err != nil {
		log.Errorf("get all posts error: %s", err)
		http.Error(w, "get all posts error", http.StatusInternalServerError)
		return
	}

	total, err := handler.repo.Count(r.Context())
	if err != nil {
		log.Errorf("get posts count error: %s", err)
		http.Error(w, "get all posts error", http.StatusInternalServerError)
		return
	}

	handler.writePostsResponse(w, allPosts, total)
}

func (handler *Handler) handlePublished(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	published, err := handler.repo.ListPublished(r.Context(), category)
	if err != nil {
		log.Errorf("get published posts error: %s", err)
		http.Error(w, "get published posts error", http.StatusInternalServerError)
		return
	}

	handler.writePostsResponse(w, published, len(published))
}

func (handler *Handler) writePostsResponse(w http.ResponseWriter, list []*Post, total int) {
	if list == nil {
		list = []*Post{}
	}
	resp, err := json.Marshal(PostsResponse{
		Posts: list,
		Total: total,
	})
	if err != nil {
		log.Errorf("marshal posts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := handler.repo.Categories(r.Context())
	if err != nil {
		log.Errorf("get categories error: %s", err)
		http.Error(w, "get categories error", http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	categoriesJSON, err := json.Marshal(categories)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, categoriesJSON)
}

// handleBlockTemplates serves the registry metadata the admin editor's
// "add block" menu is built from.
func (handler *Handler) handleBlockTemplates(w http.ResponseWriter, _ *http.Request) {
	templatesJSON, err := json.Marshal(content.Templates())
	if err != nil {
		log.Errorf("marshal block templates error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, templatesJSON)
}

func (handler *Handler) getPublishedBySlug(w http.ResponseWriter, r *http.Request) *Post {
	slug := mux.Vars(r)["slug"]
	if slug == "" {
		http.Error(w, "error, slug empty", http.StatusBadRequest)
		return nil
	}

	post, err := handler.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "error, post not found", http.StatusNotFound)
			return nil
		}
		log.Errorf("get post by slug [%s]: %s", slug, err)
		http.Error(w, "get post failed", http.StatusInternalServerError)
		return nil
	}

	// drafts are admin only, and the admin uses /posts/all
	if post.Status != StatusPublished {
		http.Error(w, "error, post not found", http.StatusNotFound)
		return nil
	}

	return post
}

func (handler *Handler) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	post := handler.getPublishedBySlug(w, r)
	if post == nil {
		return
	}

	postJSON, err := json.Marshal(post)
	if err != nil {
		log.Errorf("marshal post error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postJSON)
}

// handleRenderBySlug returns the post body as HTML fragments, one per
// block, in display order. Unknown blocks are skipped, never an error.
func (handler *Handler) handleRenderBySlug(w http.ResponseWriter, r *http.Request) {
	post := handler.getPublishedBySlug(w, r)
	if post == nil {
		return
	}

	html := handler.renderer.RenderDocument(post.Content)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.HTML, []byte(html))
}
