package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/dmitrijs2005/readlist/internal/dbx"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"github.com/dmitrijs2005/readlist/internal/server/models"
	booksrepo "github.com/dmitrijs2005/readlist/internal/server/repositories/books"
	usersrepo "github.com/dmitrijs2005/readlist/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- fake users repository ---

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64

	getErr    error
	createErr error
	updateErr error
	deleteErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*models.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	cp := *u
	cp.ID = f.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdateEmail(ctx context.Context, id int64, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, u := range f.byID {
		if u.Email == email && u.ID != id {
			return common.ErrorAlreadyExists
		}
	}
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Email = email
	return nil
}

func (f *fakeUsers) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// --- fake books repository ---

type fakeBooks struct {
	mu     sync.Mutex
	rows   map[models.BookList][]*models.Book
	nextID int64
	err    error
}

func newFakeBooks() *fakeBooks {
	return &fakeBooks{rows: map[models.BookList][]*models.Book{}}
}

func (f *fakeBooks) Add(ctx context.Context, list models.BookList, userID int64, key string) (*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.rows[list] {
		if b.UserID == userID && b.BookKey == key {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.nextID++
	b := &models.Book{ID: f.nextID, UserID: userID, BookKey: key}
	f.rows[list] = append(f.rows[list], b)
	return b, nil
}

func (f *fakeBooks) Remove(ctx context.Context, list models.BookList, userID, bookID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	rows := f.rows[list]
	for i, b := range rows {
		if b.ID == bookID && b.UserID == userID {
			f.rows[list] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeBooks) List(ctx context.Context, list models.BookList, userID int64) ([]*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Book, 0)
	for _, b := range f.rows[list] {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// --- fake repository manager ---

type fakeRepoManager struct {
	users *fakeUsers
	books *fakeBooks
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *fakeRepoManager) Books(db dbx.DBTX) booksrepo.Repository       { return m.books }

// --- fake denylist ---

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: map[string]time.Time{}}
}

func (d *fakeDenylist) Revoke(ctx context.Context, id string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.revoked[id] = until
	return nil
}

func (d *fakeDenylist) IsRevoked(ctx context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[id]
	return ok, nil
}

// --- environment ---

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	users    *fakeUsers
	books    *fakeBooks
	denylist *fakeDenylist
	clock    *testClock

	passwords *auth.PasswordPolicy
	codec     *auth.TokenCodec
	authn     *Authenticator
	sessions  *SessionService
	accounts  *AccountService
	bookSvc   *BookService
}

const strongPassword = "Passw0rdX"

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	e := &testEnv{
		db:       db,
		mock:     mock,
		users:    newFakeUsers(),
		books:    newFakeBooks(),
		denylist: newFakeDenylist(),
		clock:    &testClock{t: time.Now().Truncate(time.Second)},
	}
	rm := &fakeRepoManager{users: e.users, books: e.books}

	e.passwords = auth.NewPasswordPolicy(bcrypt.MinCost)
	e.codec, err = auth.NewTokenCodec(auth.TokenConfig{Secret: "test-secret", Algorithm: "HS256", TTL: 20 * time.Minute}, auth.WithClock(e.clock.Now))
	require.NoError(t, err)
	e.authn, err = NewAuthenticator(db, rm, e.passwords)
	require.NoError(t, err)

	e.sessions = NewSessionService(db, rm, e.passwords, e.authn, e.codec, e.denylist)
	e.accounts = NewAccountService(db, rm, e.passwords)
	e.bookSvc = NewBookService(db, rm)
	return e
}

// signup registers a user and returns its identity as the middleware would.
func (e *testEnv) signup(t *testing.T, name, email string) *auth.Identity {
	t.Helper()
	tok, err := e.sessions.Signup(context.Background(), name, email, strongPassword)
	require.NoError(t, err)
	id, err := e.sessions.Verify(context.Background(), tok.AccessToken)
	require.NoError(t, err)
	return id
}

var errDBDown = errors.New("db down")
