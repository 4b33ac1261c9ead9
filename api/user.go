package api

import (
	"net/http"

	"github.com/VitaminP8/qupp/internal/apperr"
	"github.com/VitaminP8/qupp/internal/auth"
	"github.com/VitaminP8/qupp/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type profileResponse struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// Pointer fields tell a missing field apart from an empty one.
type nicknameRequest struct {
	Nickname *string `json:"nickname"`
}

type emailRequest struct {
	Email *string `json:"email"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Nickname: u.Nickname}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Password == "" {
		writeError(w, r, apperr.Validation("password is required"))
		return
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.Users.Register(req.Email, req.Nickname, hash)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.writeAuth(w, r, http.StatusCreated, u)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.Gate.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.writeAuth(w, r, http.StatusOK, u)
}

func (h *Handler) writeAuth(w http.ResponseWriter, r *http.Request, status int, u *models.User) {
	token, err := h.Tokens.Issue(auth.Identity{UserID: u.ID, Email: u.Email, Nickname: u.Nickname})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, authResponse{User: toUserResponse(u), AccessToken: token})
}

func (h *Handler) duplicateEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, r, apperr.Validation("email is required"))
		return
	}
	dup, err := h.Users.IsDuplicateEmail(email)
	writeDuplicate(w, r, dup, err, "email")
}

func (h *Handler) duplicateNickname(w http.ResponseWriter, r *http.Request) {
	nickname := r.URL.Query().Get("nickname")
	if nickname == "" {
		writeError(w, r, apperr.Validation("nickname is required"))
		return
	}
	dup, err := h.Users.IsDuplicateNickname(nickname)
	writeDuplicate(w, r, dup, err, "nickname")
}

func writeDuplicate(w http.ResponseWriter, r *http.Request, dup bool, err error, field string) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	if dup {
		writeError(w, r, apperr.Conflict("%s is already in use", field))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": true})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.Users.FindByID(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) updateNickname(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req nicknameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Nickname == nil {
		writeError(w, r, apperr.Validation("nickname is required"))
		return
	}

	u, err := h.Users.UpdateNickname(id, *req.Nickname)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{Email: u.Email, Nickname: u.Nickname})
}

func (h *Handler) updateEmail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req emailRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email == nil {
		writeError(w, r, apperr.Validation("email is required"))
		return
	}

	u, err := h.Users.UpdateEmail(id, *req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{Email: u.Email, Nickname: u.Nickname})
}
