package grpc

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

type stubSessions struct {
	identities map[string]*auth.Identity
	verifyErr  error
	signupErr  error
	loginErr   error
	logoutErr  error

	mu        sync.Mutex
	lastLogin [2]string
	loggedOut []string
}

// set mutates the stub while the server may be reading it.
func (s *stubSessions) set(fn func(*stubSessions)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (s *stubSessions) Signup(ctx context.Context, name, email, password string) (*services.IssuedToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &services.IssuedToken{AccessToken: "new-token", TokenType: "bearer", ExpiresAt: testExpiry}, nil
}

func (s *stubSessions) Login(ctx context.Context, email, password string) (*services.IssuedToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLogin = [2]string{email, password}
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &services.IssuedToken{AccessToken: "login-token", TokenType: "bearer", ExpiresAt: testExpiry}, nil
}

func (s *stubSessions) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
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

type stubAccounts struct {
	mu      sync.Mutex
	err     error
	profile *models.Profile
	calls   int
}

func (s *stubAccounts) set(fn func(*stubAccounts)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (s *stubAccounts) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubAccounts) check(caller *auth.Identity, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if caller.UserID != userID {
		return common.ErrForbidden
	}
	return s.err
}

func (s *stubAccounts) DeleteAccount(ctx context.Context, caller *auth.Identity, userID int64, password string) error {
	if err := s.check(caller, userID); err != nil {
		return err
	}
	if password != "Passw0rdX" {
		return common.ErrWrongPassword
	}
	return nil
}

func (s *stubAccounts) UpdateEmail(ctx context.Context, caller *auth.Identity, userID int64, newEmail, password string) error {
	return s.check(caller, userID)
}

func (s *stubAccounts) GetProfile(ctx context.Context, caller *auth.Identity, userID int64) (*models.Profile, error) {
	if err := s.check(caller, userID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, nil
}

type stubBooks struct {
	mu    sync.Mutex
	rows  map[models.BookList][]*models.Book
	next  int64
	calls int
}

func (s *stubBooks) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubBooks) AddBook(ctx context.Context, caller *auth.Identity, list models.BookList, key string) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.rows == nil {
		s.rows = map[models.BookList][]*models.Book{}
	}
	for _, b := range s.rows[list] {
		if b.UserID == caller.UserID && b.BookKey == key {
			return nil, common.ErrBookAlreadyListed
		}
	}
	s.next++
	b := &models.Book{ID: s.next, UserID: caller.UserID, BookKey: key, CreatedAt: testExpiry}
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
