package client

import (
	"time"

	"github.com/dmitrijs2005/readlist/internal/client/models"
	"google.golang.org/protobuf/types/known/structpb"
)

func str(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

func num(s *structpb.Struct, name string) int64 {
	return int64(s.GetFields()[name].GetNumberValue())
}

// ts parses an RFC 3339 field; a missing or malformed value yields the zero time.
func ts(s *structpb.Struct, name string) time.Time {
	t, err := time.Parse(time.RFC3339, str(s, name))
	if err != nil {
		return time.Time{}
	}
	return t
}

func decodeToken(s *structpb.Struct) *models.Token {
	return &models.Token{
		AccessToken: str(s, "access_token"),
		TokenType:   str(s, "token_type"),
		ExpiresAt:   ts(s, "expires_at"),
	}
}

func decodeIdentity(s *structpb.Struct) *models.Identity {
	return &models.Identity{
		ID:        num(s, "id"),
		Email:     str(s, "email"),
		Name:      str(s, "name"),
		ExpiresAt: ts(s, "expires_at"),
	}
}

func decodeBook(s *structpb.Struct) models.Book {
	return models.Book{
		ID:        num(s, "id"),
		UserID:    num(s, "userId"),
		BookKey:   str(s, "bookKey"),
		CreatedAt: ts(s, "created_at"),
	}
}

func decodeBooks(s *structpb.Struct, name string) []models.Book {
	values := s.GetFields()[name].GetListValue().GetValues()
	out := make([]models.Book, 0, len(values))
	for _, v := range values {
		out = append(out, decodeBook(v.GetStructValue()))
	}
	return out
}

func decodeProfile(s *structpb.Struct) *models.Profile {
	return &models.Profile{
		ID:          num(s, "id"),
		Name:        str(s, "name"),
		Email:       str(s, "email"),
		BooksToRead: decodeBooks(s, "books_to_read"),
		BooksRead:   decodeBooks(s, "books_read"),
	}
}
