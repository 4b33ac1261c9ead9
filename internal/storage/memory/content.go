package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/qupp/internal/apperr"
	"github.com/VitaminP8/qupp/models"
	"github.com/jinzhu/gorm"
)

// ContentMemoryStorage keeps questions, answers and comments in memory.
type ContentMemoryStorage struct {
	mu        sync.Mutex
	questions map[uint]*models.Question
	answers   map[uint]*models.Answer
	comments  map[uint]*models.Comment
	nextID    uint // shared by all three kinds
	now       func() time.Time
}

func NewContentMemoryStorage() *ContentMemoryStorage {
	return &ContentMemoryStorage{
		questions: make(map[uint]*models.Question),
		answers:   make(map[uint]*models.Answer),
		comments:  make(map[uint]*models.Comment),
		nextID:    1,
		now:       time.Now,
	}
}

func (s *ContentMemoryStorage) stamp(m *gorm.Model) {
	m.ID = s.nextID
	s.nextID++
	now := s.now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

func (s *ContentMemoryStorage) CreateQuestion(q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stamp(&q.Model)
	stored := *q
	s.questions[q.ID] = &stored
	return nil
}

func (s *ContentMemoryStorage) CreateAnswer(a *models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[a.QuestionID]; !ok {
		return apperr.NotFound("question with ID %d not found", a.QuestionID)
	}

	s.stamp(&a.Model)
	stored := *a
	s.answers[a.ID] = &stored
	return nil
}

// CreateComment checks that the comment's parent exists before storing it.
func (s *ContentMemoryStorage) CreateComment(c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c.ParentKind {
	case models.ParentQuestion:
		if _, ok := s.questions[c.ParentID]; !ok {
			return apperr.NotFound("question with ID %d not found", c.ParentID)
		}
	case models.ParentAnswer:
		if _, ok := s.answers[c.ParentID]; !ok {
			return apperr.NotFound("answer with ID %d not found", c.ParentID)
		}
	default:
		return apperr.Validation("unknown comment parent kind %q", c.ParentKind)
	}

	s.stamp(&c.Model)
	stored := *c
	s.comments[c.ID] = &stored
	return nil
}

func (s *ContentMemoryStorage) QuestionByID(id uint) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return nil, nil
	}
	found := *q
	return &found, nil
}

func (s *ContentMemoryStorage) AnswerByID(id uint) (*models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.answers[id]
	if !ok {
		return nil, nil
	}
	found := *a
	return &found, nil
}

// QuestionsByAuthor returns the user's questions in ID order.
func (s *ContentMemoryStorage) QuestionsByAuthor(userID uint) ([]models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.Question{}
	for _, q := range s.questions {
		if q.UserID == userID {
			result = append(result, *q)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *ContentMemoryStorage) AnswersByAuthor(userID uint) ([]models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.Answer{}
	for _, a := range s.answers {
		if a.UserID == userID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *ContentMemoryStorage) CommentsByAuthor(userID uint) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.Comment{}
	for _, c := range s.comments {
		if c.UserID == userID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *ContentMemoryStorage) CountAnswers(questionID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			count++
		}
	}
	return count, nil
}

func (s *ContentMemoryStorage) CountComments(questionID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, c := range s.comments {
		if c.ParentKind == models.ParentQuestion && c.ParentID == questionID {
			count++
		}
	}
	return count, nil
}

// DeleteQuestion drops a question without touching what hangs off it.
// Only tests use it, to simulate broken references.
func (s *ContentMemoryStorage) DeleteQuestion(id uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.questions, id)
}
