package mocks

import (
	"errors"
	"strconv"
	"strings"

	"github.com/VitaminP8/qupp/internal/auth"
)

// MockHasher "hashes" by prefixing, which keeps tests fast and hashes readable.
type MockHasher struct{}

func (MockHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (MockHasher) Verify(hash, plain string) (bool, error) {
	if !strings.HasPrefix(hash, "hashed:") {
		return false, errors.New("malformed hash")
	}
	return hash == "hashed:"+plain, nil
}

// MockTokenIssuer issues "jwt-token-for-user-<id>" tokens and parses them back.
type MockTokenIssuer struct {
	Err    error
	Issued []auth.Identity
}

func (m *MockTokenIssuer) Issue(id auth.Identity) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.Issued = append(m.Issued, id)
	return "jwt-token-for-user-" + strconv.FormatUint(uint64(id.UserID), 10), nil
}

func (m *MockTokenIssuer) Parse(token string) (*auth.Claims, error) {
	raw, ok := strings.CutPrefix(token, "jwt-token-for-user-")
	if !ok {
		return nil, errors.New("invalid token")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, errors.New("invalid token")
	}
	return &auth.Claims{UserID: uint(id)}, nil
}
