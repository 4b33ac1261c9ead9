package content

import (
	"fmt"
	"time"

	"github.com/VitaminP8/qupp/models"
)

// Kind is the kind of authored item a listing entry came from.
type Kind string

const (
	KindQuestion Kind = "question"
	KindAnswer   Kind = "answer"
	KindComment  Kind = "comment"
)

// QuestionSummary is a listing entry. Source tells which kind of authored item produced it.
type QuestionSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	AuthorID     uint      `json:"authorId"`
	AnswerCount  int       `json:"answerCount"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
	Source       Kind      `json:"source"`
}

// SummaryResolver formats a question for listing responses.
type SummaryResolver interface {
	Summarize(q models.Question) (QuestionSummary, error)
}

// StorageSummaryResolver builds summaries with counts read from a ContentStorage.
type StorageSummaryResolver struct {
	store ContentStorage
}

func NewStorageSummaryResolver(store ContentStorage) *StorageSummaryResolver {
	return &StorageSummaryResolver{store: store}
}

// Summarize counts the question's answers and direct comments.
func (r *StorageSummaryResolver) Summarize(q models.Question) (QuestionSummary, error) {
	answers, err := r.store.CountAnswers(q.ID)
	if err != nil {
		return QuestionSummary{}, fmt.Errorf("could not count answers of question %d: %w", q.ID, err)
	}
	comments, err := r.store.CountComments(q.ID)
	if err != nil {
		return QuestionSummary{}, fmt.Errorf("could not count comments of question %d: %w", q.ID, err)
	}

	return QuestionSummary{
		ID:           q.ID,
		Title:        q.Title,
		AuthorID:     q.UserID,
		AnswerCount:  answers,
		CommentCount: comments,
		CreatedAt:    q.CreatedAt,
	}, nil
}
