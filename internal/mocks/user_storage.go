package mocks

import (
	"sync"

	"github.com/VitaminP8/qupp/internal/apperr"
	"github.com/VitaminP8/qupp/internal/user"
	"github.com/VitaminP8/qupp/models"
)

// MockUserStorage implements user.UserStorage for tests. Lookups can be told to
// miss (HideFromLookups) so that a caller's pre-check passes while the write
// still hits the uniqueness constraint, the way a concurrent registration would.
type MockUserStorage struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint

	HideFromLookups bool
	// FailOnWrite, when set, is returned by Create and Save.
	FailOnWrite error

	Transactions int
}

// NewMockUserStorage creates an empty MockUserStorage.
func NewMockUserStorage() *MockUserStorage {
	return &MockUserStorage{
		users:  make(map[uint]*models.User),
		nextID: 1,
	}
}

func (m *MockUserStorage) Create(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailOnWrite != nil {
		return m.FailOnWrite
	}
	if err := m.checkUnique(u); err != nil {
		return err
	}

	u.ID = m.nextID
	m.nextID++
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *MockUserStorage) FindByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	found := *u
	return &found, nil
}

func (m *MockUserStorage) FindByEmail(email string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Email == email })
}

func (m *MockUserStorage) FindByNickname(nickname string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Nickname == nickname })
}

func (m *MockUserStorage) Save(u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailOnWrite != nil {
		return m.FailOnWrite
	}
	if _, ok := m.users[u.ID]; !ok {
		return apperr.NotFound("user with ID %d not found", u.ID)
	}
	if err := m.checkUnique(u); err != nil {
		return err
	}

	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *MockUserStorage) Transaction(fn func(tx user.UserStorage) error) error {
	m.mu.Lock()
	m.Transactions++
	m.mu.Unlock()
	return fn(m)
}

func (m *MockUserStorage) find(match func(u *models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.HideFromLookups {
		return nil, nil
	}
	for _, u := range m.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *MockUserStorage) checkUnique(u *models.User) error {
	for id, existing := range m.users {
		if id == u.ID {
			continue
		}
		if existing.Email == u.Email {
			return apperr.Conflict("email %s is already in use", u.Email)
		}
		if existing.Nickname == u.Nickname {
			return apperr.Conflict("nickname %s is already in use", u.Nickname)
		}
	}
	return nil
}
