package storage

import (
	"context"

	"blog/internal/models"
)

// CreatePost assigns the next post id and persists the posts collection.
// authorID is stored as given; checking that the author exists is the
// caller's job (see service.PostService).
func (s *Store) CreatePost(ctx context.Context, authorID int, title, content string) (*models.Post, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	now := s.now()
	post := &models.Post{
		ID:        s.nextPostID,
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.posts[post.ID] = post
	s.nextPostID++

	if err := s.persistPostsLocked(ctx); err != nil {
		delete(s.posts, post.ID)
		s.nextPostID--
		s.postLog.LogError(ctx, err, "create")
		return nil, err
	}

	s.postMetrics.SetCount(len(s.posts))
	s.postLog.LogCreate(ctx, post.ID)
	out := *post
	return &out, nil
}

// GetAllPosts returns every live post in insertion order.
func (s *Store) GetAllPosts(_ context.Context) []models.Post {
	s.postsMu.RLock()
	defer s.postsMu.RUnlock()

	out := make([]models.Post, 0, len(s.posts))
	for _, id := range sortedIDs(s.posts) {
		out = append(out, *s.posts[id])
	}
	return out
}

// GetPostByID looks up a post. The bool is false when no live post has id.
func (s *Store) GetPostByID(_ context.Context, id int) (*models.Post, bool) {
	s.postsMu.RLock()
	defer s.postsMu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, false
	}
	out := *p
	return &out, true
}

// GetPostsByAuthor returns the author's posts in insertion order. The
// result is empty, never nil, when nothing matches.
func (s *Store) GetPostsByAuthor(_ context.Context, authorID int) []models.Post {
	s.postsMu.RLock()
	defer s.postsMu.RUnlock()

	out := make([]models.Post, 0)
	for _, id := range sortedIDs(s.posts) {
		if p := s.posts[id]; p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out
}

// UpdatePost replaces title and content only.
func (s *Store) UpdatePost(ctx context.Context, id int, title, content string) (*models.Post, bool, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, false, nil
	}
	prev := *p
	p.Title = title
	p.Content = content
	p.UpdatedAt = s.touch(p.CreatedAt)

	if err := s.persistPostsLocked(ctx); err != nil {
		*p = prev
		s.postLog.LogError(ctx, err, "update")
		return nil, true, err
	}

	s.postLog.LogUpdate(ctx, id)
	out := *p
	return &out, true, nil
}

// DeletePost removes a post.
func (s *Store) DeletePost(ctx context.Context, id int) (bool, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return false, nil
	}
	delete(s.posts, id)

	if err := s.persistPostsLocked(ctx); err != nil {
		s.posts[id] = p
		s.postLog.LogError(ctx, err, "delete")
		return true, err
	}

	s.postMetrics.SetCount(len(s.posts))
	s.postLog.LogDelete(ctx, id)
	return true, nil
}

// LikePost increments the like counter and returns the post as written.
func (s *Store) LikePost(ctx context.Context, id int) (*models.Post, bool, error) {
	return s.react(ctx, id, "like")
}

// DislikePost increments the dislike counter and returns the post as written.
func (s *Store) DislikePost(ctx context.Context, id int) (*models.Post, bool, error) {
	return s.react(ctx, id, "dislike")
}

// react copies the post while postsMu is still held, so a concurrent
// delete cannot hide a reaction that was already persisted.
func (s *Store) react(ctx context.Context, id int, reaction string) (*models.Post, bool, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, false, nil
	}
	prev := *p
	if reaction == "like" {
		p.Likes++
	} else {
		p.Dislikes++
	}
	p.UpdatedAt = s.touch(p.CreatedAt)

	if err := s.persistPostsLocked(ctx); err != nil {
		*p = prev
		s.postLog.LogError(ctx, err, reaction)
		return nil, true, err
	}

	s.postLog.LogReaction(ctx, id, reaction)
	out := *p
	return &out, true, nil
}
