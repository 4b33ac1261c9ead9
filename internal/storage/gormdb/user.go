package gormdb

import (
	"fmt"

	"github.com/VitaminP8/qupp/internal/apperr"
	"github.com/VitaminP8/qupp/internal/user"
	"github.com/VitaminP8/qupp/models"
	"github.com/jinzhu/gorm"
)

// UserStorage implements user.UserStorage with gorm.
type UserStorage struct {
	tx *gorm.DB // set inside Transaction; nil means the global DB
}

func NewUserStorage() *UserStorage {
	return &UserStorage{}
}

func (s *UserStorage) conn() *gorm.DB {
	if s.tx != nil {
		return s.tx
	}
	return DB
}

// Create inserts u. A unique index violation is reported as apperr.ErrConflict.
func (s *UserStorage) Create(u *models.User) error {
	err := s.conn().Create(u).Error
	if err != nil {
		return uniqueConflict(err, "failed to create user")
	}
	return nil
}

func (s *UserStorage) FindByID(id uint) (*models.User, error) {
	return s.findOne("id = ?", id)
}

func (s *UserStorage) FindByEmail(email string) (*models.User, error) {
	return s.findOne("email = ?", email)
}

func (s *UserStorage) FindByNickname(nickname string) (*models.User, error) {
	return s.findOne("nickname = ?", nickname)
}

func (s *UserStorage) findOne(query string, arg interface{}) (*models.User, error) {
	var u models.User
	err := s.conn().Where(query, arg).First(&u).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	return &u, nil
}

// Save updates every column of u, with the same conflict mapping as Create.
func (s *UserStorage) Save(u *models.User) error {
	err := s.conn().Save(u).Error
	if err != nil {
		return uniqueConflict(err, "failed to update user")
	}
	return nil
}

// Transaction runs fn on a storage bound to one database transaction. A nested
// call joins the outer transaction.
func (s *UserStorage) Transaction(fn func(tx user.UserStorage) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx := DB.Begin()
	if err := tx.Error; err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&UserStorage{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return uniqueConflict(err, "failed to commit transaction")
	}
	return nil
}

func uniqueConflict(err error, msg string) error {
	column, ok := uniqueViolation(err)
	if !ok {
		return fmt.Errorf("%s: %w", msg, err)
	}
	switch column {
	case "email", "nickname":
		return apperr.Conflict("%s is already in use", column)
	default:
		return apperr.Conflict("email or nickname is already in use")
	}
}
