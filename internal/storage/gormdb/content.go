package gormdb

import (
	"fmt"

	"github.com/VitaminP8/qupp/internal/apperr"
	"github.com/VitaminP8/qupp/models"
	"github.com/jinzhu/gorm"
)

// ContentStorage implements content.ContentStorage on the global DB.
type ContentStorage struct{}

func NewContentStorage() *ContentStorage {
	return &ContentStorage{}
}

func (s *ContentStorage) CreateQuestion(q *models.Question) error {
	err := DB.Create(q).Error
	if err != nil {
		return fmt.Errorf("could not create question: %w", err)
	}
	return nil
}

// CreateAnswer fails with apperr.ErrNotFound when the question does not exist.
func (s *ContentStorage) CreateAnswer(a *models.Answer) error {
	q, err := s.QuestionByID(a.QuestionID)
	if err != nil {
		return err
	}
	if q == nil {
		return apperr.NotFound("question with ID %d not found", a.QuestionID)
	}

	err = DB.Create(a).Error
	if err != nil {
		return fmt.Errorf("could not create answer: %w", err)
	}
	return nil
}

// CreateComment checks that the comment's parent exists before inserting it.
func (s *ContentStorage) CreateComment(c *models.Comment) error {
	switch c.ParentKind {
	case models.ParentQuestion:
		q, err := s.QuestionByID(c.ParentID)
		if err != nil {
			return err
		}
		if q == nil {
			return apperr.NotFound("question with ID %d not found", c.ParentID)
		}
	case models.ParentAnswer:
		a, err := s.AnswerByID(c.ParentID)
		if err != nil {
			return err
		}
		if a == nil {
			return apperr.NotFound("answer with ID %d not found", c.ParentID)
		}
	default:
		return apperr.Validation("unknown comment parent kind %q", c.ParentKind)
	}

	err := DB.Create(c).Error
	if err != nil {
		return fmt.Errorf("could not create comment: %w", err)
	}
	return nil
}

// QuestionByID returns nil, nil when there is no such question.
func (s *ContentStorage) QuestionByID(id uint) (*models.Question, error) {
	var q models.Question
	err := DB.First(&q, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get question by id: %w", err)
	}
	return &q, nil
}

func (s *ContentStorage) AnswerByID(id uint) (*models.Answer, error) {
	var a models.Answer
	err := DB.First(&a, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get answer by id: %w", err)
	}
	return &a, nil
}

func (s *ContentStorage) QuestionsByAuthor(userID uint) ([]models.Question, error) {
	questions := []models.Question{}
	err := DB.Where("user_id = ?", userID).Order("id asc").Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("could not get questions: %w", err)
	}
	return questions, nil
}

func (s *ContentStorage) AnswersByAuthor(userID uint) ([]models.Answer, error) {
	answers := []models.Answer{}
	err := DB.Where("user_id = ?", userID).Order("id asc").Find(&answers).Error
	if err != nil {
		return nil, fmt.Errorf("could not get answers: %w", err)
	}
	return answers, nil
}

func (s *ContentStorage) CommentsByAuthor(userID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := DB.Where("user_id = ?", userID).Order("id asc").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("could not get comments: %w", err)
	}
	return comments, nil
}

func (s *ContentStorage) CountAnswers(questionID uint) (int, error) {
	var count int
	err := DB.Model(&models.Answer{}).Where("question_id = ?", questionID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("could not count answers: %w", err)
	}
	return count, nil
}

// CountComments counts comments left directly on the question.
func (s *ContentStorage) CountComments(questionID uint) (int, error) {
	var count int
	err := DB.Model(&models.Comment{}).
		Where("parent_kind = ? AND parent_id = ?", models.ParentQuestion, questionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("could not count comments: %w", err)
	}
	return count, nil
}
