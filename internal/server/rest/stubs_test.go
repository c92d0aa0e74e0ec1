package rest

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"github.com/dmitrijs2005/readlist/internal/server/models"
	"github.com/dmitrijs2005/readlist/internal/server/services"
)

var testExpiry = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

// stubSessions accepts the tokens listed in identities; every other token
// fails with verifyErr (ErrTokenInvalid by default).
type stubSessions struct {
	identities map[string]*auth.Identity
	verifyErr  error

	signupErr error
	loginErr  error
	logoutErr error
	logoutOn  bool

	mu         sync.Mutex
	lastLogin  [2]string
	loggedOut  []string
	signupArgs [3]string
}

func (s *stubSessions) Signup(ctx context.Context, name, email, password string) (*services.IssuedToken, error) {
	s.mu.Lock()
	s.signupArgs = [3]string{name, email, password}
	s.mu.Unlock()
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &services.IssuedToken{AccessToken: "new-token", TokenType: "bearer", ExpiresAt: testExpiry}, nil
}

func (s *stubSessions) Login(ctx context.Context, email, password string) (*services.IssuedToken, error) {
	s.mu.Lock()
	s.lastLogin = [2]string{email, password}
	s.mu.Unlock()
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &services.IssuedToken{AccessToken: "login-token", TokenType: "bearer", ExpiresAt: testExpiry}, nil
}

func (s *stubSessions) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	if id, ok := s.identities[token]; ok {
		return id, nil
	}
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return nil, common.ErrTokenInvalid
}

func (s *stubSessions) Logout(ctx context.Context, id *auth.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logoutErr != nil {
		return s.logoutErr
	}
	s.loggedOut = append(s.loggedOut, id.TokenID)
	return nil
}

func (s *stubSessions) LogoutEnabled() bool { return s.logoutOn }

type stubAccounts struct {
	err     error
	profile *models.Profile
	calls   int
}

func (s *stubAccounts) DeleteAccount(ctx context.Context, caller *auth.Identity, userID int64, password string) error {
	s.calls++
	if caller.UserID != userID {
		return common.ErrForbidden
	}
	if password != "Passw0rdX" {
		return common.ErrWrongPassword
	}
	return s.err
}

func (s *stubAccounts) UpdateEmail(ctx context.Context, caller *auth.Identity, userID int64, newEmail, password string) error {
	s.calls++
	if caller.UserID != userID {
		return common.ErrForbidden
	}
	return s.err
}

func (s *stubAccounts) GetProfile(ctx context.Context, caller *auth.Identity, userID int64) (*models.Profile, error) {
	s.calls++
	if caller.UserID != userID {
		return nil, common.ErrForbidden
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

type stubBooks struct {
	mu    sync.Mutex
	rows  map[models.BookList][]*models.Book
	next  int64
	err   error
	calls int
}

func (s *stubBooks) AddBook(ctx context.Context, caller *auth.Identity, list models.BookList, key string) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if key == "" {
		return nil, common.ErrValidation
	}
	if s.rows == nil {
		s.rows = map[models.BookList][]*models.Book{}
	}
	for _, b := range s.rows[list] {
		if b.UserID == caller.UserID && b.BookKey == key {
			return nil, common.ErrBookAlreadyListed
		}
	}
	s.next++
	b := &models.Book{ID: s.next, UserID: caller.UserID, BookKey: key}
	s.rows[list] = append(s.rows[list], b)
	return b, nil
}

func (s *stubBooks) RemoveBook(ctx context.Context, caller *auth.Identity, list models.BookList, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	for i, b := range s.rows[list] {
		if b.ID == id && b.UserID == caller.UserID {
			s.rows[list] = append(s.rows[list][:i], s.rows[list][i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (s *stubBooks) ListBooks(ctx context.Context, caller *auth.Identity, list models.BookList) ([]*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	out := []*models.Book{}
	for _, b := range s.rows[list] {
		if b.UserID == caller.UserID {
			out = append(out, b)
		}
	}
	return out, nil
}
