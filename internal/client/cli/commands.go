package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/readlist/internal/client/models"
	"github.com/dmitrijs2005/readlist/internal/common"
)

var errNotConfirmed = errors.New("cancelled")

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// call bounds one server round trip by the configured request timeout.
func (a *App) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, a.config.RequestTimeout)
	defer cancel()
	return fn(ctx)
}

// withPassword prompts for a password, passes it to fn and wipes it.
func (a *App) withPassword(prompt string, fn func(pw []byte) error) error {
	pw, err := GetPassword(a.out, prompt)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	return fn(pw)
}

// listName maps the names users type onto the wire names.
func listName(s string) (string, error) {
	switch strings.ToLower(s) {
	case "to-read", "to_read", "toread", "books-to-read":
		return "to_read", nil
	case "read", "books-read":
		return "read", nil
	}
	return "", fmt.Errorf("%w: unknown list %q, use to-read or read", errUsage, s)
}

func (a *App) Signup(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	return a.withPassword("Password", func(pw []byte) error {
		return a.call(ctx, func(ctx context.Context) error {
			s, err := a.auth.Signup(ctx, name, email, pw)
			if err != nil {
				return err
			}
			a.printf("Signed up as %s (id %d)\n", s.Email, s.UserID)
			return nil
		})
	})
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	return a.withPassword("Password", func(pw []byte) error {
		return a.call(ctx, func(ctx context.Context) error {
			s, err := a.auth.Login(ctx, email, pw)
			if err != nil {
				return err
			}
			a.printf("Logged in as %s, session valid until %s\n", s.Email, s.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		})
	})
}

func (a *App) Whoami(ctx context.Context) error {
	return a.call(ctx, func(ctx context.Context) error {
		id, err := a.auth.Whoami(ctx)
		if err != nil {
			return err
		}
		a.printf("%s <%s> (id %d)\n", id.Name, id.Email, id.ID)
		return nil
	})
}

func (a *App) Logout(ctx context.Context) error {
	return a.call(ctx, func(ctx context.Context) error {
		if err := a.auth.Logout(ctx); err != nil {
			return err
		}
		a.printf("Logged out\n")
		return nil
	})
}

func (a *App) printBooks(books []models.Book) {
	if len(books) == 0 {
		a.printf("(empty)\n")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKEY\tADDED")
	for _, b := range books {
		added := ""
		if !b.CreatedAt.IsZero() {
			added = b.CreatedAt.Local().Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", b.ID, b.BookKey, added)
	}
	_ = tw.Flush()
}

func (a *App) Books(ctx context.Context, list string) error {
	name, err := listName(list)
	if err != nil {
		return err
	}
	return a.call(ctx, func(ctx context.Context) error {
		books, err := a.library.ListBooks(ctx, name)
		if err != nil {
			return err
		}
		a.printBooks(books)
		return nil
	})
}

func (a *App) Add(ctx context.Context, list, key string) error {
	name, err := listName(list)
	if err != nil {
		return err
	}
	return a.call(ctx, func(ctx context.Context) error {
		b, err := a.library.AddBook(ctx, name, key)
		if err != nil {
			return err
		}
		a.printf("Added %s (id %d)\n", b.BookKey, b.ID)
		return nil
	})
}

func (a *App) Remove(ctx context.Context, list string, id int64) error {
	name, err := listName(list)
	if err != nil {
		return err
	}
	return a.call(ctx, func(ctx context.Context) error {
		if err := a.library.RemoveBook(ctx, name, id); err != nil {
			return err
		}
		a.printf("Removed book %d\n", id)
		return nil
	})
}

func (a *App) Profile(ctx context.Context) error {
	return a.call(ctx, func(ctx context.Context) error {
		p, err := a.library.Profile(ctx)
		if err != nil {
			return err
		}
		a.printf("%s <%s> (id %d)\n", p.Name, p.Email, p.ID)
		a.printf("\nTo read:\n")
		a.printBooks(p.BooksToRead)
		a.printf("\nRead:\n")
		a.printBooks(p.BooksRead)
		return nil
	})
}

func (a *App) Email(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "New email", a.out)
	if err != nil {
		return err
	}
	return a.withPassword("Current password", func(pw []byte) error {
		return a.call(ctx, func(ctx context.Context) error {
			if err := a.library.UpdateEmail(ctx, email, pw); err != nil {
				return err
			}
			a.printf("Email changed to %s\n", email)
			return nil
		})
	})
}

func (a *App) Delete(ctx context.Context) error {
	answer, err := GetSimpleText(a.reader, "Delete your account and both lists? Type 'yes' to confirm", a.out)
	if err != nil {
		return err
	}
	if answer != "yes" {
		return errNotConfirmed
	}
	return a.withPassword("Password", func(pw []byte) error {
		return a.call(ctx, func(ctx context.Context) error {
			if err := a.library.DeleteAccount(ctx, pw); err != nil {
				return err
			}
			a.printf("Account deleted\n")
			return nil
		})
	})
}
