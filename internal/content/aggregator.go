package content

import (
	"fmt"
	"sort"

	"github.com/VitaminP8/qupp/internal/apperr"
	"github.com/VitaminP8/qupp/internal/pagination"
	"github.com/VitaminP8/qupp/models"
)

// UserFinder loads a user, failing with apperr.ErrNotFound when absent.
type UserFinder interface {
	FindByID(id uint) (*models.User, error)
}

// Item is an authored item resolved to the question it belongs to.
type Item struct {
	Kind     Kind
	Question models.Question
}

// Aggregator lists the questions a user's questions, answers and comments belong to.
//
// Every listing resolves all of the user's items before slicing out a page, so
// its cost grows with the user's total content.
type Aggregator struct {
	users     UserFinder
	store     ContentStorage
	summaries SummaryResolver
}

// NewAggregator creates an Aggregator.
func NewAggregator(users UserFinder, store ContentStorage, summaries SummaryResolver) *Aggregator {
	return &Aggregator{users: users, store: store, summaries: summaries}
}

// ListAuthoredQuestions lists the questions the user asked, newest first.
func (a *Aggregator) ListAuthoredQuestions(userID uint, page, pageSize int) (pagination.Page[QuestionSummary], error) {
	return a.list(userID, page, pageSize, a.authoredQuestions)
}

// ListAuthoredAnswers lists the parent question of each answer. Several answers
// under one question give several entries.
func (a *Aggregator) ListAuthoredAnswers(userID uint, page, pageSize int) (pagination.Page[QuestionSummary], error) {
	return a.list(userID, page, pageSize, a.authoredAnswers)
}

// ListAuthoredComments lists the question each comment belongs to, either directly
// or through the answer it was left on.
func (a *Aggregator) ListAuthoredComments(userID uint, page, pageSize int) (pagination.Page[QuestionSummary], error) {
	return a.list(userID, page, pageSize, a.authoredComments)
}

func (a *Aggregator) list(userID uint, page, pageSize int, collect func(userID uint) ([]Item, error)) (pagination.Page[QuestionSummary], error) {
	if _, err := a.users.FindByID(userID); err != nil {
		return pagination.Page[QuestionSummary]{}, err
	}

	items, err := collect(userID)
	if err != nil {
		return pagination.Page[QuestionSummary]{}, err
	}

	// Newest question first. Stable, so equal timestamps keep item ID order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Question.CreatedAt.After(items[j].Question.CreatedAt)
	})

	summaries := make([]QuestionSummary, 0, len(items))
	for _, item := range items {
		s, err := a.summaries.Summarize(item.Question)
		if err != nil {
			return pagination.Page[QuestionSummary]{}, fmt.Errorf("could not summarize question %d: %w", item.Question.ID, err)
		}
		s.Source = item.Kind
		summaries = append(summaries, s)
	}

	return pagination.Slice(summaries, page, pageSize)
}

func (a *Aggregator) authoredQuestions(userID uint) ([]Item, error) {
	questions, err := a.store.QuestionsByAuthor(userID)
	if err != nil {
		return nil, fmt.Errorf("could not get questions of user %d: %w", userID, err)
	}

	items := make([]Item, 0, len(questions))
	for _, q := range questions {
		items = append(items, Item{Kind: KindQuestion, Question: q})
	}
	return items, nil
}

func (a *Aggregator) authoredAnswers(userID uint) ([]Item, error) {
	answers, err := a.store.AnswersByAuthor(userID)
	if err != nil {
		return nil, fmt.Errorf("could not get answers of user %d: %w", userID, err)
	}

	items := make([]Item, 0, len(answers))
	for _, ans := range answers {
		q, err := a.answerQuestion(&ans)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Kind: KindAnswer, Question: *q})
	}
	return items, nil
}

func (a *Aggregator) authoredComments(userID uint) ([]Item, error) {
	comments, err := a.store.CommentsByAuthor(userID)
	if err != nil {
		return nil, fmt.Errorf("could not get comments of user %d: %w", userID, err)
	}

	items := make([]Item, 0, len(comments))
	for _, c := range comments {
		q, err := a.ResolveComment(&c)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Kind: KindComment, Question: *q})
	}
	return items, nil
}

// ResolveComment returns the question a comment belongs to. A comment on an
// answer resolves through that answer to its question. A broken reference on
// either hop is reported as apperr.ErrNotFound.
func (a *Aggregator) ResolveComment(c *models.Comment) (*models.Question, error) {
	parent := c.Parent()

	switch parent.Kind {
	case models.ParentQuestion:
		q, err := a.store.QuestionByID(parent.ID)
		if err != nil {
			return nil, fmt.Errorf("could not get question %d of comment %d: %w", parent.ID, c.ID, err)
		}
		if q == nil {
			return nil, apperr.NotFound("comment %d references missing question %d", c.ID, parent.ID)
		}
		return q, nil

	case models.ParentAnswer:
		ans, err := a.store.AnswerByID(parent.ID)
		if err != nil {
			return nil, fmt.Errorf("could not get answer %d of comment %d: %w", parent.ID, c.ID, err)
		}
		if ans == nil {
			return nil, apperr.NotFound("comment %d references missing answer %d", c.ID, parent.ID)
		}
		return a.answerQuestion(ans)

	default:
		return nil, apperr.NotFound("comment %d has unknown parent kind %q", c.ID, parent.Kind)
	}
}

func (a *Aggregator) answerQuestion(ans *models.Answer) (*models.Question, error) {
	q, err := a.store.QuestionByID(ans.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("could not get question %d of answer %d: %w", ans.QuestionID, ans.ID, err)
	}
	if q == nil {
		return nil, apperr.NotFound("answer %d references missing question %d", ans.ID, ans.QuestionID)
	}
	return q, nil
}
