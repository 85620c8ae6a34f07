package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"blog/internal/models"
)

// naiveISOLayout matches timestamps written without a zone offset. Go's
// parser accepts an optional fractional second after the seconds field.
const naiveISOLayout = "2006-01-02T15:04:05"

type userRecord struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Login     string `json:"login"`
	Password  string `json:"password"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type usersSnapshot struct {
	Users      map[string]userRecord `json:"users"`
	NextUserID int                   `json:"next_user_id"`
}

type postRecord struct {
	ID        int    `json:"id"`
	AuthorID  int    `json:"authorId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	Likes     int    `json:"likes"`
	Dislikes  int    `json:"dislikes"`
}

type postsSnapshot struct {
	Posts      map[string]postRecord `json:"posts"`
	NextPostID int                   `json:"next_post_id"`
}

// FormatTimestamp renders t the way snapshots and API responses carry it.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO 8601 (read as UTC).
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(naiveISOLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t.UTC(), nil
}

func encodeUsers(users map[int]*models.User, nextID int) ([]byte, error) {
	snap := usersSnapshot{
		Users:      make(map[string]userRecord, len(users)),
		NextUserID: nextID,
	}
	for id, u := range users {
		snap.Users[strconv.Itoa(id)] = userRecord{
			ID:        u.ID,
			Email:     u.Email,
			Login:     u.Login,
			Password:  u.Password,
			CreatedAt: FormatTimestamp(u.CreatedAt),
			UpdatedAt: FormatTimestamp(u.UpdatedAt),
		}
	}
	return json.MarshalIndent(snap, "", "  ")
}

func decodeUsers(data []byte) (map[int]*models.User, int, error) {
	var snap usersSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, 0, err
	}

	users := make(map[int]*models.User, len(snap.Users))
	maxID := 0
	for key, rec := range snap.Users {
		id, err := recordID(key, rec.ID)
		if err != nil {
			return nil, 0, err
		}
		if _, dup := users[id]; dup {
			return nil, 0, fmt.Errorf("duplicate user id %d", id)
		}
		created, err := ParseTimestamp(rec.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("user %d createdAt: %w", id, err)
		}
		updated, err := ParseTimestamp(rec.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("user %d updatedAt: %w", id, err)
		}
		users[id] = &models.User{
			ID:        id,
			Email:     rec.Email,
			Login:     rec.Login,
			Password:  rec.Password,
			CreatedAt: created,
			UpdatedAt: updated,
		}
		maxID = max(maxID, id)
	}
	return users, nextCounter(snap.NextUserID, maxID), nil
}

func encodePosts(posts map[int]*models.Post, nextID int) ([]byte, error) {
	snap := postsSnapshot{
		Posts:      make(map[string]postRecord, len(posts)),
		NextPostID: nextID,
	}
	for id, p := range posts {
		snap.Posts[strconv.Itoa(id)] = postRecord{
			ID:        p.ID,
			AuthorID:  p.AuthorID,
			Title:     p.Title,
			Content:   p.Content,
			CreatedAt: FormatTimestamp(p.CreatedAt),
			UpdatedAt: FormatTimestamp(p.UpdatedAt),
			Likes:     p.Likes,
			Dislikes:  p.Dislikes,
		}
	}
	return json.MarshalIndent(snap, "", "  ")
}

func decodePosts(data []byte) (map[int]*models.Post, int, error) {
	var snap postsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, 0, err
	}

	posts := make(map[int]*models.Post, len(snap.Posts))
	maxID := 0
	for key, rec := range snap.Posts {
		id, err := recordID(key, rec.ID)
		if err != nil {
			return nil, 0, err
		}
		if _, dup := posts[id]; dup {
			return nil, 0, fmt.Errorf("duplicate post id %d", id)
		}
		created, err := ParseTimestamp(rec.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("post %d createdAt: %w", id, err)
		}
		updated, err := ParseTimestamp(rec.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("post %d updatedAt: %w", id, err)
		}
		posts[id] = &models.Post{
			ID:        id,
			AuthorID:  rec.AuthorID,
			Title:     rec.Title,
			Content:   rec.Content,
			CreatedAt: created,
			UpdatedAt: updated,
			Likes:     max(rec.Likes, 0),
			Dislikes:  max(rec.Dislikes, 0),
		}
		maxID = max(maxID, id)
	}
	return posts, nextCounter(snap.NextPostID, maxID), nil
}

// recordID resolves a snapshot entry's id from its map key. A record that
// carries its own id must agree with the key; a record without one takes
// the key.
func recordID(key string, id int) (int, error) {
	n, err := strconv.Atoi(key)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid record id %q", key)
	}
	if id != 0 && id != n {
		return 0, fmt.Errorf("record %q carries id %d", key, id)
	}
	return n, nil
}

// nextCounter never lets the counter fall at or below an id already issued.
func nextCounter(stored, maxID int) int {
	return max(stored, maxID+1, 1)
}
