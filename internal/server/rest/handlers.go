package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"github.com/dmitrijs2005/readlist/internal/server/models"
	"github.com/dmitrijs2005/readlist/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type emailRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type bookRequest struct {
	BookKey string `json:"bookKey"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type identityResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

type bookResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	BookKey   string    `json:"bookKey"`
	CreatedAt time.Time `json:"created_at"`
}

type profileResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	BooksToRead []bookResponse `json:"books_to_read"`
	BooksRead   []bookResponse `json:"books_read"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toTokenResponse(t *services.IssuedToken) tokenResponse {
	return tokenResponse{AccessToken: t.AccessToken, TokenType: t.TokenType, ExpiresAt: t.ExpiresAt}
}

func toBookResponses(books []*models.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, bookResponse{ID: b.ID, UserID: b.UserID, BookKey: b.BookKey, CreatedAt: b.CreatedAt})
	}
	return out
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrValidation)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", common.ErrValidation, name)
	}
	return id, nil
}

// caller is only called behind authenticate, so a missing identity is a
// wiring bug and reported as unauthenticated.
func caller(r *http.Request) (*auth.Identity, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return nil, common.ErrUnauthenticated
	}
	return id, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tok, err := s.sessions.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "user signed up", "request_id", requestIDFrom(r.Context()))
	writeJSON(w, http.StatusCreated, toTokenResponse(tok))
}

// login accepts either a JSON body or an OAuth2-style password form
// (username, password).
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			s.writeError(w, r, fmt.Errorf("%w: malformed form", common.ErrValidation))
			return
		}
		req.Email = r.PostFormValue("username")
		if req.Email == "" {
			req.Email = r.PostFormValue("email")
		}
		req.Password = r.PostFormValue("password")
	default:
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	tok, err := s.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTokenResponse(tok))
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, identityResponse{ID: id.UserID, Email: id.Email, Name: id.Name, ExpiresAt: id.ExpiresAt})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Logout(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.accounts.GetProfile(r.Context(), id, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		BooksToRead: toBookResponses(p.BooksToRead),
		BooksRead:   toBookResponses(p.BooksRead),
	})
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req passwordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.DeleteAccount(r.Context(), id, userID, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "account deleted", "user_id", userID)
	writeJSON(w, http.StatusOK, messageResponse{Message: "user deleted"})
}

func (s *Server) updateEmail(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req emailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.accounts.UpdateEmail(r.Context(), id, userID, req.Email, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "email updated"})
}

func (s *Server) listBooks(list models.BookList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		books, err := s.books.ListBooks(r.Context(), id, list)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookResponses(books))
	}
}

func (s *Server) addBook(list models.BookList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var req bookRequest
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		b, err := s.books.AddBook(r.Context(), id, list, req.BookKey)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBookResponses([]*models.Book{b})[0])
	}
}

func (s *Server) removeBook(list models.BookList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := caller(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		bookID, err := pathID(r, "id")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.books.RemoveBook(r.Context(), id, list, bookID); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "book removed"})
	}
}
