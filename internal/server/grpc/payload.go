package grpc

import (
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"github.com/dmitrijs2005/readlist/internal/server/models"
	"github.com/dmitrijs2005/readlist/internal/server/services"
	"google.golang.org/protobuf/types/known/structpb"
)

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// idField reads a positive integer id. Struct numbers are doubles, so
// fractional or out-of-range values are rejected.
func idField(req *structpb.Struct, name string) (int64, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", common.ErrValidation, name)
	}
	n, isNum := v.GetKind().(*structpb.Value_NumberValue)
	if !isNum || n.NumberValue <= 0 || n.NumberValue != math.Trunc(n.NumberValue) || n.NumberValue >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: invalid %s", common.ErrValidation, name)
	}
	return int64(n.NumberValue), nil
}

func listField(req *structpb.Struct) (models.BookList, error) {
	list, err := models.ParseBookList(stringField(req, "list"))
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrValidation, err)
	}
	return list, nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func tokenPayload(t *services.IssuedToken) map[string]any {
	return map[string]any{
		"access_token": t.AccessToken,
		"token_type":   t.TokenType,
		"expires_at":   timestamp(t.ExpiresAt),
	}
}

func identityPayload(id *auth.Identity) map[string]any {
	return map[string]any{
		"id":         id.UserID,
		"email":      id.Email,
		"name":       id.Name,
		"expires_at": timestamp(id.ExpiresAt),
	}
}

func bookPayload(b *models.Book) map[string]any {
	return map[string]any{
		"id":         b.ID,
		"userId":     b.UserID,
		"bookKey":    b.BookKey,
		"created_at": timestamp(b.CreatedAt),
	}
}

func bookList(books []*models.Book) []any {
	out := make([]any, 0, len(books))
	for _, b := range books {
		out = append(out, bookPayload(b))
	}
	return out
}

func profilePayload(p *models.Profile) map[string]any {
	return map[string]any{
		"id":            p.ID,
		"name":          p.Name,
		"email":         p.Email,
		"books_to_read": bookList(p.BooksToRead),
		"books_read":    bookList(p.BooksRead),
	}
}

func message(msg string) map[string]any {
	return map[string]any{"message": msg}
}
