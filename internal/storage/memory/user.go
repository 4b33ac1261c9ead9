package memory

import (
	"sync"
	"time"

	"github.com/VitaminP8/qupp/internal/apperr"
	"github.com/VitaminP8/qupp/internal/user"
	"github.com/VitaminP8/qupp/models"
)

// UserMemoryStorage keeps users in memory, indexed by email and nickname.
type UserMemoryStorage struct {
	mu         sync.Mutex
	users      map[uint]*models.User
	byEmail    map[string]uint
	byNickname map[string]uint
	nextID     uint
	now        func() time.Time
}

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:      make(map[uint]*models.User),
		byEmail:    make(map[string]uint),
		byNickname: make(map[string]uint),
		nextID:     1,
		now:        time.Now,
	}
}

// Create assigns an ID and stores a copy of u.
func (s *UserMemoryStorage) Create(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*userTx)(s).Create(u)
}

func (s *UserMemoryStorage) FindByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*userTx)(s).FindByID(id)
}

func (s *UserMemoryStorage) FindByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*userTx)(s).FindByEmail(email)
}

func (s *UserMemoryStorage) FindByNickname(nickname string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*userTx)(s).FindByNickname(nickname)
}

func (s *UserMemoryStorage) Save(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (*userTx)(s).Save(u)
}

// Transaction holds the store lock for the whole callback, so check-then-write
// sequences inside fn cannot interleave with other writers.
func (s *UserMemoryStorage) Transaction(fn func(tx user.UserStorage) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn((*userTx)(s))
}

// userTx is the store seen from inside the lock.
type userTx UserMemoryStorage

func (t *userTx) Create(u *models.User) error {
	if _, taken := t.byEmail[u.Email]; taken {
		return apperr.Conflict("email %s is already in use", u.Email)
	}
	if _, taken := t.byNickname[u.Nickname]; taken {
		return apperr.Conflict("nickname %s is already in use", u.Nickname)
	}

	u.ID = t.nextID
	t.nextID++
	now := t.now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	stored := *u
	t.users[u.ID] = &stored
	t.byEmail[u.Email] = u.ID
	t.byNickname[u.Nickname] = u.ID

	return nil
}

func (t *userTx) FindByID(id uint) (*models.User, error) {
	u, ok := t.users[id]
	if !ok {
		return nil, nil
	}
	found := *u
	return &found, nil
}

func (t *userTx) FindByEmail(email string) (*models.User, error) {
	id, ok := t.byEmail[email]
	if !ok {
		return nil, nil
	}
	return t.FindByID(id)
}

func (t *userTx) FindByNickname(nickname string) (*models.User, error) {
	id, ok := t.byNickname[nickname]
	if !ok {
		return nil, nil
	}
	return t.FindByID(id)
}

func (t *userTx) Save(u *models.User) error {
	current, ok := t.users[u.ID]
	if !ok {
		return apperr.NotFound("user with ID %d not found", u.ID)
	}
	if owner, taken := t.byEmail[u.Email]; taken && owner != u.ID {
		return apperr.Conflict("email %s is already in use", u.Email)
	}
	if owner, taken := t.byNickname[u.Nickname]; taken && owner != u.ID {
		return apperr.Conflict("nickname %s is already in use", u.Nickname)
	}

	delete(t.byEmail, current.Email)
	delete(t.byNickname, current.Nickname)

	u.CreatedAt = current.CreatedAt
	u.UpdatedAt = t.now()
	stored := *u
	t.users[u.ID] = &stored
	t.byEmail[u.Email] = u.ID
	t.byNickname[u.Nickname] = u.ID

	return nil
}

func (t *userTx) Transaction(fn func(tx user.UserStorage) error) error {
	return fn(t)
}
