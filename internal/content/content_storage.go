package content

import (
	"github.com/VitaminP8/qupp/models"
)

// ContentStorage persists questions, answers and comments.
// Lookups by ID return (nil, nil) when nothing matches; ByAuthor lists are in ID order.
type ContentStorage interface {
	CreateQuestion(q *models.Question) error
	CreateAnswer(a *models.Answer) error
	CreateComment(c *models.Comment) error
	QuestionByID(id uint) (*models.Question, error)
	AnswerByID(id uint) (*models.Answer, error)
	QuestionsByAuthor(userID uint) ([]models.Question, error)
	AnswersByAuthor(userID uint) ([]models.Answer, error)
	CommentsByAuthor(userID uint) ([]models.Comment, error)
	CountAnswers(questionID uint) (int, error)
	// CountComments counts comments attached directly to the question.
	CountComments(questionID uint) (int, error)
}
