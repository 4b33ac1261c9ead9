package api

import (
	"net/http"
	"time"

	"github.com/VitaminP8/qupp/internal/apperr"
	"github.com/VitaminP8/qupp/internal/auth"
	"github.com/VitaminP8/qupp/internal/content"
	"github.com/VitaminP8/qupp/internal/pagination"
	"github.com/VitaminP8/qupp/models"
)

type questionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type textRequest struct {
	Content string `json:"content"`
}

type questionResponse struct {
	ID        uint      `json:"id"`
	AuthorID  uint      `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type answerResponse struct {
	ID         uint   `json:"id"`
	AuthorID   uint   `json:"authorId"`
	QuestionID uint   `json:"questionId"`
	Content    string `json:"content"`
}

type commentResponse struct {
	ID         uint              `json:"id"`
	AuthorID   uint              `json:"authorId"`
	ParentKind models.ParentKind `json:"parentKind"`
	ParentID   uint              `json:"parentId"`
	Content    string            `json:"content"`
}

type listFunc func(userID uint, page, pageSize int) (pagination.Page[content.QuestionSummary], error)

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Content.ListAuthoredQuestions)
}

func (h *Handler) listAnswers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Content.ListAuthoredAnswers)
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Content.ListAuthoredComments)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fn listFunc) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := queryPage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := fn(id, page, h.pageSize())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Title == "" || req.Content == "" {
		writeError(w, r, apperr.Validation("title and content are required"))
		return
	}

	q := &models.Question{UserID: callerID(r), Title: req.Title, Content: req.Content}
	if err := h.Store.CreateQuestion(q); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, questionResponse{
		ID:        q.ID,
		AuthorID:  q.UserID,
		Title:     q.Title,
		Content:   q.Content,
		CreatedAt: q.CreatedAt,
	})
}

func (h *Handler) createAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	text, err := decodeText(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	a := &models.Answer{UserID: callerID(r), QuestionID: questionID, Content: text}
	if err := h.Store.CreateAnswer(a); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, answerResponse{
		ID:         a.ID,
		AuthorID:   a.UserID,
		QuestionID: a.QuestionID,
		Content:    a.Content,
	})
}

func (h *Handler) commentOnQuestion(w http.ResponseWriter, r *http.Request) {
	h.createComment(w, r, models.OnQuestion)
}

func (h *Handler) commentOnAnswer(w http.ResponseWriter, r *http.Request) {
	h.createComment(w, r, models.OnAnswer)
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request, parent func(id uint) models.CommentParent) {
	parentID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	text, err := decodeText(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c := &models.Comment{UserID: callerID(r), Content: text}
	c.SetParent(parent(parentID))
	if err := h.Store.CreateComment(c); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentResponse{
		ID:         c.ID,
		AuthorID:   c.UserID,
		ParentKind: c.ParentKind,
		ParentID:   c.ParentID,
		Content:    c.Content,
	})
}

func decodeText(r *http.Request) (string, error) {
	var req textRequest
	if err := decodeBody(r, &req); err != nil {
		return "", err
	}
	if req.Content == "" {
		return "", apperr.Validation("content is required")
	}
	return req.Content, nil
}

// callerID is only called behind authenticated, so the ID is always present.
func callerID(r *http.Request) uint {
	id, _ := auth.GetUserIDFromContext(r.Context())
	return id
}
