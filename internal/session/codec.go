package session

import (
	"encoding/json"
	"fmt"

	"github.com/spec-kit/ferry-admin/internal/domain"
)

func encodeUser(user *domain.User) (string, error) {
	if user == nil {
		return "", nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode session user: %w", err)
	}
	return string(raw), nil
}

func decodeUser(raw string) (*domain.User, error) {
	if raw == "" {
		return nil, nil
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("%w: user: %v", ErrCorrupt, err)
	}
	return &user, nil
}
