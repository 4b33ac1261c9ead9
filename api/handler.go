package api

import (
	"log"
	"net/http"

	"github.com/VitaminP8/qupp/internal/auth"
	"github.com/VitaminP8/qupp/internal/content"
	"github.com/VitaminP8/qupp/internal/pagination"
	"github.com/VitaminP8/qupp/internal/user"
	"github.com/gorilla/mux"
)

// PasswordHasher hashes a plain password for storage.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// Handler is the root of all HTTP handlers. Dependencies are injected here.
type Handler struct {
	Users    *user.Directory
	Gate     *user.CredentialGate
	Hasher   PasswordHasher
	Tokens   auth.TokenIssuer
	Content  *content.Aggregator
	Store    content.ContentStorage
	PageSize int
}

// Routes builds the router. Wrap it with auth.AuthMiddleware so that
// authenticated routes can see the caller.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Printf("Error writing health response: %v", err)
		}
	}).Methods("GET")

	r.HandleFunc("/user", anonymous(h.register)).Methods("POST")
	r.HandleFunc("/user/duplicate/email", anonymous(h.duplicateEmail)).Methods("GET")
	r.HandleFunc("/user/duplicate/nickname", anonymous(h.duplicateNickname)).Methods("GET")
	r.HandleFunc("/login", anonymous(h.login)).Methods("POST")

	r.HandleFunc("/user/{id:[0-9]+}", authenticated(h.profile)).Methods("GET")
	r.HandleFunc("/user/{id:[0-9]+}/nickname", authenticated(h.updateNickname)).Methods("PUT")
	r.HandleFunc("/user/{id:[0-9]+}/email", authenticated(h.updateEmail)).Methods("PUT")
	r.HandleFunc("/user/{id:[0-9]+}/questions", authenticated(h.listQuestions)).Methods("GET")
	r.HandleFunc("/user/{id:[0-9]+}/answers", authenticated(h.listAnswers)).Methods("GET")
	r.HandleFunc("/user/{id:[0-9]+}/comments", authenticated(h.listComments)).Methods("GET")

	r.HandleFunc("/questions", authenticated(h.createQuestion)).Methods("POST")
	r.HandleFunc("/questions/{id:[0-9]+}/answers", authenticated(h.createAnswer)).Methods("POST")
	r.HandleFunc("/questions/{id:[0-9]+}/comments", authenticated(h.commentOnQuestion)).Methods("POST")
	r.HandleFunc("/answers/{id:[0-9]+}/comments", authenticated(h.commentOnAnswer)).Methods("POST")

	return r
}

func (h *Handler) pageSize() int {
	if h.PageSize <= 0 {
		return pagination.DefaultPageSize
	}
	return h.PageSize
}

// anonymous rejects callers that already hold a valid token.
func anonymous(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.GetUserIDFromContext(r.Context()); err == nil {
			writeMessage(w, http.StatusForbidden, "already authenticated")
			return
		}
		next(w, r)
	}
}

func authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.GetUserIDFromContext(r.Context()); err != nil {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}
