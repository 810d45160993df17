package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/render"
	"yatube/internal/repository"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "CorrectHorse9Battery"

func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: "unit-test-secret-0123456789abcdef",
		Port:      "8000",
		PageSize:  10,
		Env:       "test",
	}

	s := &Server{
		config:    cfg,
		db:        db,
		userRepo:  repository.NewUserRepository(db),
		groupRepo: repository.NewGroupRepository(db),
		postRepo:  repository.NewPostRepository(db),
		paginator: pagination.New(cfg.PageSize),
		views:     render.JSON{},
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createTestGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	group := &models.Group{
		Title:       "Group " + slug,
		Slug:        slug,
		Description: "about " + slug,
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return group
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, text string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Text:      text,
		AuthorID:  author.ID,
		CreatedAt: createdAt,
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

// sessionFor builds the session cookie a logged-in browser would carry.
func sessionFor(t *testing.T, s *Server, user *models.User) *http.Cookie {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return &http.Cookie{Name: sessionCookie, Value: token}
}

// renderDoc is the instruction the JSON renderer emits.
type renderDoc struct {
	Template string         `json:"template"`
	Context  map[string]any `json:"context"`
}

func decodeRender(t *testing.T, resp *http.Response) renderDoc {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var doc renderDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("decode render instruction: %v (body %q)", err, body)
	}
	return doc
}

// pagePosts extracts the post list from a rendered feed context.
func pagePosts(t *testing.T, doc renderDoc) []map[string]any {
	t.Helper()
	value, present := doc.Context["page"]
	if !present {
		t.Fatalf("context %q has no page entry", doc.Template)
	}
	if value == nil {
		return nil
	}
	raw, ok := value.([]any)
	if !ok {
		t.Fatalf("page entry is %T, want list", value)
	}
	posts := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		post, ok := item.(map[string]any)
		if !ok {
			t.Fatalf("page entry is %T, want object", item)
		}
		posts = append(posts, post)
	}
	return posts
}

func postCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Post{}).Count(&n).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	return n
}

// spreadTimes returns n timestamps one minute apart, oldest first.
func spreadTimes(n int) []time.Time {
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = base.Add(time.Duration(i) * time.Minute)
	}
	return times
}

func feedTexts(posts []map[string]any) []string {
	texts := make([]string, 0, len(posts))
	for _, p := range posts {
		texts = append(texts, fmt.Sprintf("%v", p["text"]))
	}
	return texts
}
