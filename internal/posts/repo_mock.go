package posts

import (
	"context"
	"sort"
	"sync"
)

var _ postsRepo = (*repoMock)(nil)

type repoMock struct {
	posts  map[int]*Post
	nextID int
	mutex  sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		posts:  make(map[int]*Post),
		nextID: 1,
	}
}

func (r *repoMock) Create(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := post.Validate(); err != nil {
		return err
	}
	for _, existing := range r.posts {
		if existing.Slug == post.Slug {
			return ErrSlugTaken
		}
	}

	post.ID = r.nextID
	r.nextID++
	r.posts[post.ID] = post
	return nil
}

func (r *repoMock) Update(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := post.Validate(); err != nil {
		return err
	}
	if _, ok := r.posts[post.ID]; !ok {
		return ErrPostNotFound
	}
	for id, existing := range r.posts {
		if id != post.ID && existing.Slug == post.Slug {
			return ErrSlugTaken
		}
	}

	r.posts[post.ID] = post
	return nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *repoMock) PostClapped(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	post.Claps++
	return nil
}

func (r *repoMock) GetByID(_ context.Context, id int) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (r *repoMock) GetBySlug(_ context.Context, slug string) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, post := range r.posts {
		if post.Slug == slug {
			return post, nil
		}
	}
	return nil, ErrPostNotFound
}

func (r *repoMock) ListAll(_ context.Context) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.sorted(func(*Post) bool { return true }), nil
}

func (r *repoMock) ListPublished(_ context.Context, category string) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.sorted(func(p *Post) bool {
		if p.Status != StatusPublished {
			return false
		}
		return category == "" || p.Category == category
	}), nil
}

func (r *repoMock) Categories(_ context.Context) ([]string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	seen := make(map[string]bool)
	var categories []string
	for _, post := range r.posts {
		if post.Status == StatusPublished && post.Category != "" && !seen[post.Category] {
			seen[post.Category] = true
			categories = append(categories, post.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *repoMock) Count(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.posts), nil
}

func (r *repoMock) sorted(keep func(*Post) bool) []*Post {
	var list []*Post
	for _, post := range r.posts {
		if keep(post) {
			list = append(list, post)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID > list[j].ID
	})
	return list
}
