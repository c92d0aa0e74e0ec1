package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/readlist/internal/client/models"
	"github.com/dmitrijs2005/readlist/internal/client/repositories"
	"github.com/dmitrijs2005/readlist/internal/client/repositories/session"
	"github.com/stretchr/testify/require"
)

var testExpiry = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeClient is an in-process stand-in for the gRPC client.
type fakeClient struct {
	token      string
	identity   *models.Identity
	signupErr  error
	loginErr   error
	verifyErr  error
	logoutErr  error
	accountErr error

	logouts      int
	deletedUser  int64
	updatedEmail string
	profileUser  int64
	books        []models.Book
}

func (f *fakeClient) Close() error                { return nil }
func (f *fakeClient) SetAccessToken(token string) { f.token = token }

func (f *fakeClient) Signup(ctx context.Context, name, email string, password []byte) (*models.Token, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &models.Token{AccessToken: "signup-token", TokenType: "bearer", ExpiresAt: testExpiry}, nil
}

func (f *fakeClient) Login(ctx context.Context, email string, password []byte) (*models.Token, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.Token{AccessToken: "login-token", TokenType: "bearer", ExpiresAt: testExpiry}, nil
}

func (f *fakeClient) Verify(ctx context.Context) (*models.Identity, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.identity, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeClient) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	f.profileUser = userID
	return &models.Profile{ID: userID, BooksToRead: f.books}, f.accountErr
}

func (f *fakeClient) DeleteAccount(ctx context.Context, userID int64, password []byte) error {
	if f.accountErr != nil {
		return f.accountErr
	}
	f.deletedUser = userID
	return nil
}

func (f *fakeClient) UpdateEmail(ctx context.Context, userID int64, email string, password []byte) error {
	if f.accountErr != nil {
		return f.accountErr
	}
	f.updatedEmail = email
	return nil
}

func (f *fakeClient) AddBook(ctx context.Context, list, bookKey string) (*models.Book, error) {
	b := models.Book{ID: int64(len(f.books) + 1), BookKey: bookKey}
	f.books = append(f.books, b)
	return &b, nil
}

func (f *fakeClient) RemoveBook(ctx context.Context, list string, bookID int64) error {
	return nil
}

func (f *fakeClient) ListBooks(ctx context.Context, list string) ([]models.Book, error) {
	return f.books, nil
}

func newSessionRepo(t *testing.T) *session.SQLiteRepository {
	t.Helper()
	db, err := repositories.OpenDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return session.NewSQLiteRepository(db)
}

func newAuth(t *testing.T) (*authService, *fakeClient, *session.SQLiteRepository) {
	t.Helper()
	fc := &fakeClient{identity: &models.Identity{ID: 7, Email: "alice@example.com", Name: "Alice", ExpiresAt: testExpiry}}
	repo := newSessionRepo(t)
	a := NewAuthService(fc, repo).(*authService)
	a.now = func() time.Time { return testExpiry.Add(-time.Hour) }
	return a, fc, repo
}
