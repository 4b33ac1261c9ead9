package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/VitaminP8/qupp/internal/auth"
	"github.com/VitaminP8/qupp/internal/content"
	"github.com/VitaminP8/qupp/internal/mocks"
	"github.com/VitaminP8/qupp/internal/pagination"
	"github.com/VitaminP8/qupp/internal/storage/memory"
	"github.com/VitaminP8/qupp/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	tokens  *mocks.MockTokenIssuer
	store   *memory.ContentMemoryStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	users := memory.NewUserMemoryStorage()
	store := memory.NewContentMemoryStorage()
	tokens := &mocks.MockTokenIssuer{}
	dir := user.NewDirectory(users)

	h := &Handler{
		Users:    dir,
		Gate:     user.NewCredentialGate(users, mocks.MockHasher{}),
		Hasher:   mocks.MockHasher{},
		Tokens:   tokens,
		Content:  content.NewAggregator(dir, store, content.NewStorageSummaryResolver(store)),
		Store:    store,
		PageSize: 2,
	}
	return &testServer{
		handler: auth.AuthMiddleware(tokens)(h.Routes()),
		tokens:  tokens,
		store:   store,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, email, nickname string) authResponse {
	t.Helper()
	w := s.do(t, "POST", "/user", "", registerRequest{Email: email, Nickname: nickname, Password: "secret"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	resp := s.register(t, "q@unittest.com", "qupp")
	assert.NotZero(t, resp.User.ID)
	assert.Equal(t, "qupp", resp.User.Nickname)
	assert.Equal(t, fmt.Sprintf("jwt-token-for-user-%d", resp.User.ID), resp.AccessToken)
	require.Len(t, s.tokens.Issued, 1)
	assert.Equal(t, "q@unittest.com", s.tokens.Issued[0].Email)

	t.Run("Duplicate email", func(t *testing.T) {
		w := s.do(t, "POST", "/user", "", registerRequest{Email: "q@unittest.com", Nickname: "other", Password: "x"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Missing password", func(t *testing.T) {
		w := s.do(t, "POST", "/user", "", registerRequest{Email: "new@unittest.com", Nickname: "new"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/user", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Authenticated caller cannot register", func(t *testing.T) {
		w := s.do(t, "POST", "/user", resp.AccessToken, registerRequest{Email: "a@unittest.com", Nickname: "a", Password: "x"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Login", func(t *testing.T) {
		w := s.do(t, "POST", "/login", "", loginRequest{Email: "q@unittest.com", Password: "secret"})
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[authResponse](t, w)
		assert.Equal(t, resp.User, got.User)
		assert.NotEmpty(t, got.AccessToken)
	})

	t.Run("Login with wrong password", func(t *testing.T) {
		w := s.do(t, "POST", "/login", "", loginRequest{Email: "q@unittest.com", Password: "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Login with unknown email", func(t *testing.T) {
		w := s.do(t, "POST", "/login", "", loginRequest{Email: "nobody@unittest.com", Password: "secret"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Token failure", func(t *testing.T) {
		s.tokens.Err = errors.New("signing failed")
		defer func() { s.tokens.Err = nil }()

		w := s.do(t, "POST", "/login", "", loginRequest{Email: "q@unittest.com", Password: "secret"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "signing failed")
	})
}

func TestDuplicateChecks(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "q@unittest.com", "qupp")

	tests := []struct {
		path string
		code int
	}{
		{"/user/duplicate/email?email=q@unittest.com", http.StatusConflict},
		{"/user/duplicate/email?email=free@unittest.com", http.StatusOK},
		{"/user/duplicate/nickname?nickname=qupp", http.StatusConflict},
		{"/user/duplicate/nickname?nickname=free", http.StatusOK},
		{"/user/duplicate/nickname", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.code, s.do(t, "GET", tt.path, "", nil).Code)
		})
	}
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	alice := s.register(t, "alice@unittest.com", "alice")
	bob := s.register(t, "bob@unittest.com", "bob")
	path := fmt.Sprintf("/user/%d", alice.User.ID)

	t.Run("Requires a token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(t, "GET", path, "", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, s.do(t, "GET", path, "garbage", nil).Code)
	})

	t.Run("Get", func(t *testing.T) {
		w := s.do(t, "GET", path, bob.AccessToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, alice.User, decode[userResponse](t, w))
	})

	t.Run("Unknown user", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, s.do(t, "GET", "/user/999", bob.AccessToken, nil).Code)
	})

	t.Run("Update nickname", func(t *testing.T) {
		nickname := "alicia"
		w := s.do(t, "PUT", path+"/nickname", alice.AccessToken, nicknameRequest{Nickname: &nickname})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, profileResponse{Email: "alice@unittest.com", Nickname: "alicia"}, decode[profileResponse](t, w))
	})

	t.Run("Nickname taken", func(t *testing.T) {
		nickname := "bob"
		w := s.do(t, "PUT", path+"/nickname", alice.AccessToken, nicknameRequest{Nickname: &nickname})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Missing nickname field", func(t *testing.T) {
		w := s.do(t, "PUT", path+"/nickname", alice.AccessToken, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update email", func(t *testing.T) {
		email := "alice@new.com"
		w := s.do(t, "PUT", path+"/email", alice.AccessToken, emailRequest{Email: &email})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice@new.com", decode[profileResponse](t, w).Email)
	})

	t.Run("Missing email field", func(t *testing.T) {
		w := s.do(t, "PUT", path+"/email", alice.AccessToken, map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestContent(t *testing.T) {
	s := newTestServer(t)
	asker := s.register(t, "asker@unittest.com", "asker")
	other := s.register(t, "other@unittest.com", "other")

	var questionIDs []uint
	for i := 0; i < 3; i++ {
		w := s.do(t, "POST", "/questions", asker.AccessToken, questionRequest{Title: fmt.Sprintf("q%d", i), Content: "body"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		q := decode[questionResponse](t, w)
		assert.Equal(t, asker.User.ID, q.AuthorID)
		questionIDs = append(questionIDs, q.ID)
	}

	w := s.do(t, "POST", fmt.Sprintf("/questions/%d/answers", questionIDs[0]), other.AccessToken, textRequest{Content: "answer"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ans := decode[answerResponse](t, w)

	w = s.do(t, "POST", fmt.Sprintf("/answers/%d/comments", ans.ID), other.AccessToken, textRequest{Content: "on answer"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "answer", string(decode[commentResponse](t, w).ParentKind))

	w = s.do(t, "POST", fmt.Sprintf("/questions/%d/comments", questionIDs[1]), other.AccessToken, textRequest{Content: "on question"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("Create requires a token", func(t *testing.T) {
		w := s.do(t, "POST", "/questions", "", questionRequest{Title: "t", Content: "c"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Create validation", func(t *testing.T) {
		w := s.do(t, "POST", "/questions", asker.AccessToken, questionRequest{Title: "t"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, "POST", fmt.Sprintf("/questions/%d/answers", questionIDs[0]), asker.AccessToken, textRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing parent", func(t *testing.T) {
		w := s.do(t, "POST", "/questions/999/answers", other.AccessToken, textRequest{Content: "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, "POST", "/answers/999/comments", other.AccessToken, textRequest{Content: "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Questions listing is paged", func(t *testing.T) {
		path := fmt.Sprintf("/user/%d/questions", asker.User.ID)

		first := decode[pagination.Page[content.QuestionSummary]](t, s.do(t, "GET", path, other.AccessToken, nil))
		assert.Len(t, first.Items, 2)
		assert.Equal(t, 3, first.Total)
		assert.Equal(t, 2, first.PageSize)

		second := decode[pagination.Page[content.QuestionSummary]](t, s.do(t, "GET", path+"?page=1", other.AccessToken, nil))
		assert.Len(t, second.Items, 1)

		w := s.do(t, "GET", path+"?page=4611686018427387904", other.AccessToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		far := decode[pagination.Page[content.QuestionSummary]](t, w)
		assert.Empty(t, far.Items)
		assert.Equal(t, 3, far.Total)

		assert.Equal(t, http.StatusBadRequest, s.do(t, "GET", path+"?page=abc", other.AccessToken, nil).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(t, "GET", path+"?page=-1", other.AccessToken, nil).Code)
	})

	t.Run("Answers listing", func(t *testing.T) {
		w := s.do(t, "GET", fmt.Sprintf("/user/%d/answers", other.User.ID), other.AccessToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		page := decode[pagination.Page[content.QuestionSummary]](t, w)
		require.Len(t, page.Items, 1)
		assert.Equal(t, questionIDs[0], page.Items[0].ID)
		assert.Equal(t, content.KindAnswer, page.Items[0].Source)
	})

	t.Run("Comments listing resolves both parent kinds", func(t *testing.T) {
		w := s.do(t, "GET", fmt.Sprintf("/user/%d/comments", other.User.ID), other.AccessToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		page := decode[pagination.Page[content.QuestionSummary]](t, w)
		require.Len(t, page.Items, 2)
		assert.ElementsMatch(t, []uint{questionIDs[0], questionIDs[1]}, []uint{page.Items[0].ID, page.Items[1].ID})
	})

	t.Run("Listing for unknown user", func(t *testing.T) {
		w := s.do(t, "GET", "/user/999/questions", other.AccessToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(requestIDHeader, "client-id")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "client-id", rec.Header().Get(requestIDHeader))
}

type failingWriter struct {
	*httptest.ResponseRecorder
}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestHealthWriteErrorIsLogged(t *testing.T) {
	s := newTestServer(t)

	var logs bytes.Buffer
	log.SetOutput(&logs)
	defer log.SetOutput(os.Stderr)

	s.handler.ServeHTTP(failingWriter{httptest.NewRecorder()}, httptest.NewRequest("GET", "/health", nil))
	assert.Contains(t, logs.String(), "Error writing health response: connection reset")
}
