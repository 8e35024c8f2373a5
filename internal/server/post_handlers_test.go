package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"testing"

	"postboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPost(t *testing.T, app *fiber.App, body string) CreatePostResponse {
	t.Helper()
	resp, data := doRequest(t, app, http.MethodPost, "/posts", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))

	var created CreatePostResponse
	require.NoError(t, json.Unmarshal(data, &created))
	require.NotZero(t, created.ID)
	return created
}

func getPost(t *testing.T, app *fiber.App, id uint) models.Post {
	t.Helper()
	resp, data := doRequest(t, app, http.MethodGet, fmt.Sprintf("/posts/%d", id), "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))

	var post models.Post
	require.NoError(t, json.Unmarshal(data, &post))
	return post
}

func listPosts(t *testing.T, app *fiber.App) []models.Post {
	t.Helper()
	resp, data := doRequest(t, app, http.MethodGet, "/posts", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))

	var posts []models.Post
	require.NoError(t, json.Unmarshal(data, &posts))
	return posts
}

func TestGetPosts_EmptyIsArray(t *testing.T) {
	_, app := newTestServer(t, testConfig())

	resp, data := doRequest(t, app, http.MethodGet, "/posts", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(data))
}

func TestCreateThenGet_RoundTrip(t *testing.T) {
	_, app := newTestServer(t, testConfig())

	created := createPost(t, app, `{"title":"A","description":"B"}`)
	assert.Equal(t, "A", created.Title)
	require.NotNil(t, created.Description)
	assert.Equal(t, "B", *created.Description)
	assert.Equal(t, "Post created", created.Message)

	post := getPost(t, app, created.ID)
	assert.Equal(t, created.ID, post.ID)
	assert.Equal(t, "A", post.Title)
	require.NotNil(t, post.Description)
	assert.Equal(t, "B", *post.Description)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestCreatePost_WithoutDescriptionStoresNull(t *testing.T) {
	_, app := newTestServer(t, testConfig())

	resp, data := doRequest(t, app, http.MethodPost, "/posts", `{"title":"Only title"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "description")
	assert.Nil(t, raw["description"])

	created := CreatePostResponse{ID: uint(raw["idPost"].(float64))}
	assert.Nil(t, getPost(t, app, created.ID).Description)
}

func TestGetPost_Idempotent(t *testing.T) {
	_, app := newTestServer(t, testConfig())
	created := createPost(t, app, `{"title":"Same","description":"twice"}`)

	path := fmt.Sprintf("/posts/%d", created.ID)
	_, first := doRequest(t, app, http.MethodGet, path, "")
	_, second := doRequest(t, app, http.MethodGet, path, "")
	assert.JSONEq(t, string(first), string(second))
}

func TestCreatePost_MissingTitleRejected(t *testing.T) {
	_, app := newTestServer(t, testConfig())
	createPost(t, app, `{"title":"Existing"}`)

	for _, body := range []string{`{}`, `{"description":"no title"}`, `{"title":""}`, `{"title":null}`} {
		resp, data := doRequest(t, app, http.MethodPost, "/posts", body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)
		e := decodeError(t, data)
		assert.Equal(t, models.CodeValidation, e.Code)
		assert.Contains(t, e.Message, "Title")
	}

	assert.Len(t, listPosts(t, app), 1)
}

func TestGetPosts_NewestFirst(t *testing.T) {
	_, app := newTestServer(t, testConfig())

	p1 := createPost(t, app, `{"title":"P1"}`)
	p2 := createPost(t, app, `{"title":"P2"}`)
	p3 := createPost(t, app, `{"title":"P3"}`)

	posts := listPosts(t, app)
	require.Len(t, posts, 3)
	assert.Equal(t, []uint{p3.ID, p2.ID, p1.ID}, []uint{posts[0].ID, posts[1].ID, posts[2].ID})
}

func TestUpdatePost_PreservesUntouchedFields(t *testing.T) {
	_, app := newTestServer(t, testConfig())
	created := createPost(t, app, `{"title":"X","description":"Y"}`)
	path := fmt.Sprintf("/posts/%d", created.ID)

	resp, data := doRequest(t, app, http.MethodPut, path, `{"description":"Z"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	assert.JSONEq(t, fmt.Sprintf(`{"message":"Post updated","idPost":%d}`, created.ID), string(data))

	post := getPost(t, app, created.ID)
	assert.Equal(t, "X", post.Title)
	require.NotNil(t, post.Description)
	assert.Equal(t, "Z", *post.Description)

	// Null and empty values count as absent.
	resp, _ = doRequest(t, app, http.MethodPut, path, `{"title":"X2","description":null}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	post = getPost(t, app, created.ID)
	assert.Equal(t, "X2", post.Title)
	assert.Equal(t, "Z", *post.Description)

	resp, _ = doRequest(t, app, http.MethodPut, path, `{"title":"X3","description":""}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	post = getPost(t, app, created.ID)
	assert.Equal(t, "X3", post.Title)
	assert.Equal(t, "Z", *post.Description)
}

func TestUpdatePost_UnchangedValuesStillMatch(t *testing.T) {
	_, app := newTestServer(t, testConfig())
	created := createPost(t, app, `{"title":"Same"}`)

	resp, _ := doRequest(t, app, http.MethodPut, fmt.Sprintf("/posts/%d", created.ID), `{"title":"Same"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestUpdatePost_RequiresAField(t *testing.T) {
	_, app := newTestServer(t, testConfig())
	created := createPost(t, app, `{"title":"X"}`)

	for _, body := range []string{`{}`, `{"title":"","description":""}`, `{"title":null}`} {
		resp, data := doRequest(t, app, http.MethodPut, fmt.Sprintf("/posts/%d", created.ID), body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, models.CodeValidation, decodeError(t, data).Code)
	}
}

func TestNotFound_EchoesID(t *testing.T) {
	_, app := newTestServer(t, testConfig())

	tests := []struct {
		method string
		body   string
	}{
		{http.MethodGet, ""},
		{http.MethodPut, `{"title":"X"}`},
		{http.MethodDelete, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			resp, data := doRequest(t, app, tt.method, "/posts/999", tt.body)
			assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
			e := decodeError(t, data)
			assert.Equal(t, models.CodeNotFound, e.Code)
			assert.Contains(t, e.Message, "999")
		})
	}
}

func TestDeletePost_RemovesExactlyOne(t *testing.T) {
	_, app := newTestServer(t, testConfig())
	keep := createPost(t, app, `{"title":"keep"}`)
	drop := createPost(t, app, `{"title":"drop"}`)

	path := fmt.Sprintf("/posts/%d", drop.ID)
	resp, data := doRequest(t, app, http.MethodDelete, path, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, fmt.Sprintf(`{"message":"Post deleted","idPost":%d}`, drop.ID), string(data))

	posts := listPosts(t, app)
	require.Len(t, posts, 1)
	assert.Equal(t, keep.ID, posts[0].ID)

	resp, _ = doRequest(t, app, http.MethodGet, path, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = doRequest(t, app, http.MethodDelete, path, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPosts_APIPrefixAlias(t *testing.T) {
	_, app := newTestServer(t, testConfig())

	resp, data := doRequest(t, app, http.MethodPost, "/api/posts", `{"title":"via api"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created CreatePostResponse
	require.NoError(t, json.Unmarshal(data, &created))

	resp, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", created.ID), "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, listPosts(t, app), 1)
}

func TestStorageFailure_IsGeneric500(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:3306: connect: connection refused")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		expect func(mock sqlmock.Sqlmock)
	}{
		{
			name: "List", method: http.MethodGet, path: "/posts",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `Post`")).WillReturnError(cause)
			},
		},
		{
			name: "Get", method: http.MethodGet, path: "/posts/1",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `Post`")).WillReturnError(cause)
			},
		},
		{
			name: "Create", method: http.MethodPost, path: "/posts", body: `{"title":"A"}`,
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `Post`")).WillReturnError(cause)
			},
		},
		{
			name: "Update", method: http.MethodPut, path: "/posts/1", body: `{"title":"A"}`,
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE `Post`")).WillReturnError(cause)
			},
		},
		{
			name: "Delete", method: http.MethodDelete, path: "/posts/1",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `Post`")).WillReturnError(cause)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			tt.expect(mock)

			srv, err := NewServerWithDeps(testConfig(), db, nil)
			require.NoError(t, err)

			resp, data := doRequest(t, srv.App(), tt.method, tt.path, tt.body)
			assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
			assert.JSONEq(t, `{"message":"Internal server error","code":"INTERNAL_ERROR"}`, string(data))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
