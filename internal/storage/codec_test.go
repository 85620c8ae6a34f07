package storage

import (
	"encoding/json"
	"testing"
	"time"

	"blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  time.Time
		isErr bool
	}{
		{"rfc3339", "2024-03-01T10:20:30Z", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), false},
		{"offset normalized to utc", "2024-03-01T12:20:30+02:00", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), false},
		{"naive micros", "2024-03-01T10:20:30.123456", time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC), false},
		{"naive seconds", "2024-03-01T10:20:30", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), false},
		{"garbage", "yesterday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if tt.isErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestDecodePosts_LegacySnapshot(t *testing.T) {
	// Older snapshots lack counters and carry zone-less timestamps.
	raw := `{
  "posts": {
    "3": {"id": 3, "authorId": 1, "title": "Old", "content": "Old content here",
          "createdAt": "2023-05-01T08:00:00.000001", "updatedAt": "2023-05-01T08:00:00.000001"}
  },
  "next_post_id": 2
}`
	posts, next, err := decodePosts([]byte(raw))
	require.NoError(t, err)
	require.Contains(t, posts, 3)
	assert.Zero(t, posts[3].Likes)
	assert.Zero(t, posts[3].Dislikes)
	assert.Equal(t, 4, next, "counter must move past the highest stored id")
}

func TestDecodePosts_NegativeCountersClamped(t *testing.T) {
	raw := `{"posts":{"1":{"id":1,"authorId":1,"title":"x","content":"y",
"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z","likes":-3,"dislikes":2}},"next_post_id":5}`
	posts, next, err := decodePosts([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 0, posts[1].Likes)
	assert.Equal(t, 2, posts[1].Dislikes)
	assert.Equal(t, 5, next)
}

func TestDecodeUsers_KeyFallback(t *testing.T) {
	raw := `{"users":{"7":{"email":"a@b.c","login":"abc","password":"secret",
"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}},"next_user_id":0}`
	users, next, err := decodeUsers([]byte(raw))
	require.NoError(t, err)
	require.Contains(t, users, 7)
	assert.Equal(t, 7, users[7].ID)
	assert.Equal(t, 8, next)
}

func TestDecodeUsers_BadKey(t *testing.T) {
	raw := `{"users":{"abc":{"email":"a@b.c","login":"abc","password":"secret",
"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}},"next_user_id":1}`
	_, _, err := decodeUsers([]byte(raw))
	assert.Error(t, err)
}

func TestDecodePosts_ConflictingIDs(t *testing.T) {
	const ts = `"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"`

	mismatch := `{"posts":{"4":{"id":5,"authorId":1,"title":"x","content":"y",` + ts + `}},"next_post_id":6}`
	_, _, err := decodePosts([]byte(mismatch))
	assert.ErrorContains(t, err, `record "4" carries id 5`)

	duplicate := `{"posts":{"2":{"id":2,"authorId":1,"title":"a","content":"b",` + ts + `},` +
		`"002":{"id":2,"authorId":1,"title":"c","content":"d",` + ts + `}},"next_post_id":3}`
	_, _, err = decodePosts([]byte(duplicate))
	assert.ErrorContains(t, err, "duplicate post id 2")
}

func TestEncodeUsers_Shape(t *testing.T) {
	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	data, err := encodeUsers(map[int]*models.User{
		2: {ID: 2, Email: "a@b.c", Login: "abc", Password: "secret", CreatedAt: ts, UpdatedAt: ts},
	}, 3)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.EqualValues(t, 3, doc["next_user_id"])

	users := doc["users"].(map[string]any)
	rec := users["2"].(map[string]any)
	assert.Equal(t, "abc", rec["login"])
	assert.Equal(t, "secret", rec["password"])
	assert.Equal(t, "2024-02-03T04:05:06Z", rec["createdAt"])
}

func TestNextCounter(t *testing.T) {
	assert.Equal(t, 1, nextCounter(0, 0))
	assert.Equal(t, 5, nextCounter(5, 2))
	assert.Equal(t, 10, nextCounter(3, 9))
}
