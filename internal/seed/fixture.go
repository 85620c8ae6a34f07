package seed

import (
	"context"
	"fmt"
	"os"

	"blog/internal/service"

	"gopkg.in/yaml.v3"
)

// Fixture is a hand-written data set. Posts name their author by login.
type Fixture struct {
	Users []FixtureUser `yaml:"users"`
	Posts []FixturePost `yaml:"posts"`
}

// FixtureUser is one user entry.
type FixtureUser struct {
	Email    string `yaml:"email"`
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
}

// FixturePost is one post entry.
type FixturePost struct {
	Author   string `yaml:"author"`
	Title    string `yaml:"title"`
	Content  string `yaml:"content"`
	Likes    int    `yaml:"likes"`
	Dislikes int    `yaml:"dislikes"`
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	// #nosec G304: path comes from a CLI flag in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFixture(raw)
}

// ParseFixture decodes fixture YAML.
func ParseFixture(raw []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// ApplyFixture creates the fixture's users, then its posts. An author login
// may refer to a fixture user or to a user already in the store.
func (s *Seeder) ApplyFixture(ctx context.Context, f *Fixture) (Result, error) {
	var res Result

	byLogin := make(map[string]int)
	for _, u := range s.users.ListUsers(ctx) {
		if _, seen := byLogin[u.Login]; !seen {
			byLogin[u.Login] = u.ID
		}
	}

	for _, fu := range f.Users {
		u, err := s.users.CreateUser(ctx, service.UserInput{
			Email:    fu.Email,
			Login:    fu.Login,
			Password: fu.Password,
		})
		if err != nil {
			return res, fmt.Errorf("fixture user %q: %w", fu.Login, err)
		}
		byLogin[u.Login] = u.ID
		res.Users++
	}

	for _, fp := range f.Posts {
		authorID, ok := byLogin[fp.Author]
		if !ok {
			return res, fmt.Errorf("fixture post %q: unknown author %q", fp.Title, fp.Author)
		}
		post, err := s.posts.CreatePost(ctx, service.CreatePostInput{
			AuthorID: authorID,
			Title:    fp.Title,
			Content:  fp.Content,
		})
		if err != nil {
			return res, fmt.Errorf("fixture post %q: %w", fp.Title, err)
		}
		res.Posts++

		n, err := s.react(ctx, post, fp.Likes, fp.Dislikes)
		res.Reactions += n
		if err != nil {
			return res, err
		}
	}
	return res, nil
}
