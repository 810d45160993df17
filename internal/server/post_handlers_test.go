package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(target string, values url.Values, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestCreatePost(t *testing.T) {
	t.Parallel()

	s, app := setupTestServer(t)
	user := createTestUser(t, s.db, "sarah")
	createTestPost(t, s.db, user, nil, "existing", time.Now().Add(-time.Hour))

	req := postForm("/new/", url.Values{"text": {"fresh words"}}, sessionFor(t, s, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, int64(2), postCount(t, s.db))

	// The new post leads the feed.
	feedResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer func() { _ = feedResp.Body.Close() }()
	texts := feedTexts(pagePosts(t, decodeRender(t, feedResp)))
	require.NotEmpty(t, texts)
	assert.Equal(t, "fresh words", texts[0])
}

func TestCreatePostWithGroup(t *testing.T) {
	t.Parallel()

	s, app := setupTestServer(t)
	user := createTestUser(t, s.db, "sarah")
	group := createTestGroup(t, s.db, "cats")

	req := postForm("/new/", url.Values{
		"text":  {"about my cat"},
		"group": {"1"},
	}, sessionFor(t, s, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var post models.Post
	require.NoError(t, s.db.First(&post).Error)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)
	assert.Equal(t, user.ID, post.AuthorID)

	// The new post leads its group's feed too.
	feedResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/group/cats/", nil))
	require.NoError(t, err)
	defer func() { _ = feedResp.Body.Close() }()
	texts := feedTexts(pagePosts(t, decodeRender(t, feedResp)))
	require.NotEmpty(t, texts)
	assert.Equal(t, "about my cat", texts[0])
}

func TestCreatePostUnauthenticated(t *testing.T) {
	t.Parallel()

	s, app := setupTestServer(t)

	req := postForm("/new/", url.Values{"text": {"sneaky"}}, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/?next="+url.QueryEscape("/new/"), resp.Header.Get("Location"))
	assert.Equal(t, int64(0), postCount(t, s.db), "nothing may be saved without a session")
}

func TestNewPostFormRequiresLogin(t *testing.T) {
	t.Parallel()

	_, app := setupTestServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/new/", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/auth/login/?next=")
}

func TestCreatePostValidation(t *testing.T) {
	t.Parallel()

	s, app := setupTestServer(t)
	user := createTestUser(t, s.db, "sarah")
	createTestGroup(t, s.db, "cats")

	cases := []struct {
		name      string
		values    url.Values
		wantField string
	}{
		{"empty text", url.Values{"text": {""}}, "text"},
		{"whitespace text", url.Values{"text": {"   \n\t"}}, "text"},
		{"unknown group", url.Values{"text": {"fine"}, "group": {"42"}}, "group"},
		{"malformed group", url.Values{"text": {"fine"}, "group": {"cats"}}, "group"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(postForm("/new/", tc.values, sessionFor(t, s, user)))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			// An invalid form re-renders rather than redirecting.
			require.Equal(t, http.StatusOK, resp.StatusCode)
			doc := decodeRender(t, resp)
			assert.Equal(t, "posts/new.html", doc.Template)

			form, ok := doc.Context["form"].(map[string]any)
			require.True(t, ok)
			errs, ok := form["errors"].(map[string]any)
			require.True(t, ok)
			assert.Contains(t, errs, tc.wantField)
		})
	}

	assert.Equal(t, int64(0), postCount(t, s.db))
}

func TestNewPostFormRenders(t *testing.T) {
	t.Parallel()

	s, app := setupTestServer(t)
	user := createTestUser(t, s.db, "sarah")
	createTestGroup(t, s.db, "cats")
	createTestGroup(t, s.db, "dogs")

	req := httptest.NewRequest(http.MethodGet, "/new/", nil)
	req.AddCookie(sessionFor(t, s, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := decodeRender(t, resp)
	assert.Equal(t, "posts/new.html", doc.Template)
	assert.Equal(t, false, doc.Context["is_edit"])

	groups, ok := doc.Context["groups"].([]any)
	require.True(t, ok)
	assert.Len(t, groups, 2)
}

func TestEditPost(t *testing.T) {
	t.Parallel()

	s, app := setupTestServer(t)
	user := createTestUser(t, s.db, "sarah")
	group := createTestGroup(t, s.db, "cats")
	post := createTestPost(t, s.db, user, nil, "original", time.Now())

	editPath := postDetailPath("sarah", post.ID) + "edit/"

	// The form comes pre-filled.
	getReq := httptest.NewRequest(http.MethodGet, editPath, nil)
	getReq.AddCookie(sessionFor(t, s, user))
	getResp, err := app.Test(getReq)
	require.NoError(t, err)
	defer func() { _ = getResp.Body.Close() }()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	doc := decodeRender(t, getResp)
	assert.Equal(t, "posts/new.html", doc.Template)
	assert.Equal(t, true, doc.Context["is_edit"])
	form, ok := doc.Context["form"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "original", form["text"])

	// Saving changes text and group, nothing else.
	resp, err := app.Test(postForm(editPath, url.Values{
		"text":  {"revised"},
		"group": {"1"},
	}, sessionFor(t, s, user)))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, postDetailPath("sarah", post.ID), resp.Header.Get("Location"))

	var reloaded models.Post
	require.NoError(t, s.db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "revised", reloaded.Text)
	require.NotNil(t, reloaded.GroupID)
	assert.Equal(t, group.ID, *reloaded.GroupID)
	assert.Equal(t, post.ID, reloaded.ID)
	assert.Equal(t, user.ID, reloaded.AuthorID)
	assert.WithinDuration(t, post.CreatedAt, reloaded.CreatedAt, time.Second)
	assert.Equal(t, int64(1), postCount(t, s.db), "editing must not create a post")
}

func TestEditPostClearsGroup(t *testing.T) {
	t.Parallel()

	s, app := setupTestServer(t)
	user := createTestUser(t, s.db, "sarah")
	group := createTestGroup(t, s.db, "cats")
	post := createTestPost(t, s.db, user, group, "grouped", time.Now())

	resp, err := app.Test(postForm(postDetailPath("sarah", post.ID)+"edit/", url.Values{
		"text":  {"grouped"},
		"group": {""},
	}, sessionFor(t, s, user)))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	var reloaded models.Post
	require.NoError(t, s.db.First(&reloaded, post.ID).Error)
	assert.Nil(t, reloaded.GroupID)
}

func TestEditPostNonOwner(t *testing.T) {
	t.Parallel()

	s, app := setupTestServer(t)
	owner := createTestUser(t, s.db, "sarah")
	intruder := createTestUser(t, s.db, "leo")
	post := createTestPost(t, s.db, owner, nil, "hers", time.Now())

	editPath := postDetailPath("sarah", post.ID) + "edit/"
	detailPath := postDetailPath("sarah", post.ID)

	getReq := httptest.NewRequest(http.MethodGet, editPath, nil)
	getReq.AddCookie(sessionFor(t, s, intruder))
	getResp, err := app.Test(getReq)
	require.NoError(t, err)
	defer func() { _ = getResp.Body.Close() }()
	assert.Equal(t, http.StatusFound, getResp.StatusCode)
	assert.Equal(t, detailPath, getResp.Header.Get("Location"))

	postResp, err := app.Test(postForm(editPath, url.Values{
		"text": {"defaced"},
	}, sessionFor(t, s, intruder)))
	require.NoError(t, err)
	defer func() { _ = postResp.Body.Close() }()
	assert.Equal(t, http.StatusFound, postResp.StatusCode)
	assert.Equal(t, detailPath, postResp.Header.Get("Location"))

	var reloaded models.Post
	require.NoError(t, s.db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "hers", reloaded.Text, "a non-owner submit must change nothing")
}

func TestEditPostNotFound(t *testing.T) {
	t.Parallel()

	s, app := setupTestServer(t)
	sarah := createTestUser(t, s.db, "sarah")
	leo := createTestUser(t, s.db, "leo")
	post := createTestPost(t, s.db, sarah, nil, "hers", time.Now())

	cases := []struct {
		name string
		path string
	}{
		{"unknown username", "/nobody/1/edit/"},
		{"unknown post id", "/sarah/999/edit/"},
		{"post under wrong author", postDetailPath("leo", post.ID) + "edit/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.AddCookie(sessionFor(t, s, leo))
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}

func TestUpdatePostValidationRerenders(t *testing.T) {
	t.Parallel()

	s, app := setupTestServer(t)
	user := createTestUser(t, s.db, "sarah")
	post := createTestPost(t, s.db, user, nil, "original", time.Now())

	resp, err := app.Test(postForm(postDetailPath("sarah", post.ID)+"edit/", url.Values{
		"text": {"  "},
	}, sessionFor(t, s, user)))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decodeRender(t, resp)
	assert.Equal(t, "posts/new.html", doc.Template)
	assert.Equal(t, true, doc.Context["is_edit"])

	var reloaded models.Post
	require.NoError(t, s.db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "original", reloaded.Text)
}
