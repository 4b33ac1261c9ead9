package user

import (
	"github.com/VitaminP8/qupp/models"
)

// UserStorage persists accounts. Lookups return (nil, nil) when nothing matches.
// Create and Save enforce email and nickname uniqueness and report a violation
// as apperr.ErrConflict, whatever the directory checked beforehand.
type UserStorage interface {
	Create(u *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByNickname(nickname string) (*models.User, error)
	Save(u *models.User) error
	// Transaction runs fn against a storage bound to one transaction.
	// fn returning an error rolls the transaction back.
	Transaction(fn func(tx UserStorage) error) error
}
