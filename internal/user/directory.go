package user

import (
	"fmt"

	"github.com/VitaminP8/qupp/internal/apperr"
	"github.com/VitaminP8/qupp/models"
)

// Directory manages accounts on top of a UserStorage.
type Directory struct {
	store UserStorage
}

// NewDirectory creates a Directory over store.
func NewDirectory(store UserStorage) *Directory {
	return &Directory{store: store}
}

// Register creates an account. Email and nickname must both be unused.
func (d *Directory) Register(email, nickname, passwordHash string) (*models.User, error) {
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	if nickname == "" {
		return nil, apperr.Validation("nickname is required")
	}

	var created *models.User
	err := d.store.Transaction(func(tx UserStorage) error {
		if err := ensureEmailFree(tx, email); err != nil {
			return err
		}
		if err := ensureNicknameFree(tx, nickname); err != nil {
			return err
		}

		u := &models.User{
			Email:        email,
			Nickname:     nickname,
			PasswordHash: passwordHash,
		}
		if err := tx.Create(u); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// FindByID returns the user with id, or apperr.ErrNotFound.
func (d *Directory) FindByID(id uint) (*models.User, error) {
	u, err := d.store.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}
	if u == nil {
		return nil, apperr.NotFound("user with ID %d not found", id)
	}
	return u, nil
}

// FindByEmail returns the user with email, or nil if there is none.
func (d *Directory) FindByEmail(email string) (*models.User, error) {
	u, err := d.store.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}
	return u, nil
}

// FindByNickname returns the user with nickname, or nil if there is none.
func (d *Directory) FindByNickname(nickname string) (*models.User, error) {
	u, err := d.store.FindByNickname(nickname)
	if err != nil {
		return nil, fmt.Errorf("could not get user by nickname: %w", err)
	}
	return u, nil
}

// FindByNicknameOrFail is FindByNickname with a miss reported as NotFound.
func (d *Directory) FindByNicknameOrFail(nickname string) (*models.User, error) {
	u, err := d.FindByNickname(nickname)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user with nickname %s not found", nickname)
	}
	return u, nil
}

// IsDuplicateEmail reports whether email is already registered.
func (d *Directory) IsDuplicateEmail(email string) (bool, error) {
	u, err := d.FindByEmail(email)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// IsDuplicateNickname reports whether nickname is already taken.
func (d *Directory) IsDuplicateNickname(nickname string) (bool, error) {
	u, err := d.FindByNickname(nickname)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// UpdateNickname changes a user's nickname. The new value must not be in use by
// anyone, the user's own current nickname included.
func (d *Directory) UpdateNickname(id uint, nickname string) (*models.User, error) {
	if nickname == "" {
		return nil, apperr.Validation("nickname is required")
	}

	return d.update(id, func(tx UserStorage, u *models.User) error {
		if err := ensureNicknameFree(tx, nickname); err != nil {
			return err
		}
		u.Nickname = nickname
		return nil
	})
}

// UpdateEmail changes a user's email with the same rules as UpdateNickname.
func (d *Directory) UpdateEmail(id uint, email string) (*models.User, error) {
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	return d.update(id, func(tx UserStorage, u *models.User) error {
		if err := ensureEmailFree(tx, email); err != nil {
			return err
		}
		u.Email = email
		return nil
	})
}

func (d *Directory) update(id uint, mutate func(tx UserStorage, u *models.User) error) (*models.User, error) {
	var updated *models.User
	err := d.store.Transaction(func(tx UserStorage) error {
		u, err := tx.FindByID(id)
		if err != nil {
			return fmt.Errorf("could not get user by id: %w", err)
		}
		if u == nil {
			return apperr.NotFound("user with ID %d not found", id)
		}

		if err := mutate(tx, u); err != nil {
			return err
		}
		if err := tx.Save(u); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func ensureEmailFree(tx UserStorage, email string) error {
	existing, err := tx.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("could not check email: %w", err)
	}
	if existing != nil {
		return apperr.Conflict("email %s is already in use", email)
	}
	return nil
}

func ensureNicknameFree(tx UserStorage, nickname string) error {
	existing, err := tx.FindByNickname(nickname)
	if err != nil {
		return fmt.Errorf("could not check nickname: %w", err)
	}
	if existing != nil {
		return apperr.Conflict("nickname %s is already in use", nickname)
	}
	return nil
}
