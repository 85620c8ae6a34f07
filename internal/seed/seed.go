// Package seed fills the store with demo data, either generated with
// gofakeit or read from a YAML fixture. Everything goes through the
// service layer, so seeded records obey the same rules as user input.
package seed

import (
	"context"
	"fmt"
	"log"
	"unicode/utf8"

	"blog/internal/models"
	"blog/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

// Store is what the seeder needs from storage.Store.
type Store interface {
	service.UserStore
	service.PostStore
}

// Result counts what a seeding run created.
type Result struct {
	Users     int
	Posts     int
	Reactions int
}

// Seeder creates users and posts through the service layer.
type Seeder struct {
	users *service.UserService
	posts *service.PostService
	faker *gofakeit.Faker
}

// NewSeeder returns a seeder writing to store. The same seed produces the
// same generated content.
func NewSeeder(store Store, seed int64) *Seeder {
	return &Seeder{
		users: service.NewUserService(store),
		posts: service.NewPostService(store, store),
		faker: gofakeit.New(seed),
	}
}

// BuildUser returns generated user fields that pass validation.
func (s *Seeder) BuildUser() service.UserInput {
	login := s.faker.Username()
	for utf8.RuneCountInString(login) < 3 {
		login += s.faker.Word()
	}
	return service.UserInput{
		Email:    s.faker.Email(),
		Login:    login,
		Password: s.faker.Password(true, true, true, false, false, 10),
	}
}

// BuildPost returns generated post fields that pass validation.
func (s *Seeder) BuildPost(authorID int) service.CreatePostInput {
	title := s.faker.Sentence(5)
	if utf8.RuneCountInString(title) > 100 {
		title = string([]rune(title)[:100])
	}
	return service.CreatePostInput{
		AuthorID: authorID,
		Title:    title,
		Content:  s.faker.Paragraph(1, 3, 8, " "),
	}
}

// SeedRandom creates numUsers users and numPosts posts spread over them,
// each post with a handful of likes and dislikes.
func (s *Seeder) SeedRandom(ctx context.Context, numUsers, numPosts int) (Result, error) {
	var res Result
	if numPosts > 0 && numUsers <= 0 && len(s.users.ListUsers(ctx)) == 0 {
		return res, fmt.Errorf("cannot seed %d posts without any users", numPosts)
	}

	for i := 0; i < numUsers; i++ {
		if _, err := s.users.CreateUser(ctx, s.BuildUser()); err != nil {
			return res, fmt.Errorf("create user %d: %w", i+1, err)
		}
		res.Users++
	}

	authors := s.users.ListUsers(ctx)
	for i := 0; i < numPosts; i++ {
		author := authors[s.faker.Number(0, len(authors)-1)]
		post, err := s.posts.CreatePost(ctx, s.BuildPost(author.ID))
		if err != nil {
			return res, fmt.Errorf("create post %d: %w", i+1, err)
		}
		res.Posts++

		n, err := s.react(ctx, post, s.faker.Number(0, 5), s.faker.Number(0, 2))
		res.Reactions += n
		if err != nil {
			return res, err
		}
	}

	log.Printf("Seeded %d users, %d posts, %d reactions", res.Users, res.Posts, res.Reactions)
	return res, nil
}

func (s *Seeder) react(ctx context.Context, post *models.Post, likes, dislikes int) (int, error) {
	n := 0
	for i := 0; i < likes; i++ {
		if _, err := s.posts.LikePost(ctx, post.ID); err != nil {
			return n, fmt.Errorf("like post %d: %w", post.ID, err)
		}
		n++
	}
	for i := 0; i < dislikes; i++ {
		if _, err := s.posts.DislikePost(ctx, post.ID); err != nil {
			return n, fmt.Errorf("dislike post %d: %w", post.ID, err)
		}
		n++
	}
	return n, nil
}
