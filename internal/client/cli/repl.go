package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// execIface is the command surface the REPL dispatches to. *App implements
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	prompt() string
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Whoami(ctx context.Context) error
	Logout(ctx context.Context) error
	Books(ctx context.Context, list string) error
	Add(ctx context.Context, list, key string) error
	Remove(ctx context.Context, list string, id int64) error
	Profile(ctx context.Context) error
	Email(ctx context.Context) error
	Delete(ctx context.Context) error
}

var errUsage = errors.New("usage")

const (
	helpLoggedOut = "Available commands: signup, login, help, exit"
	helpLoggedIn  = "Available commands: whoami, profile, books <list>, add <list> <key>, remove <list> <id>, email, delete, logout, help, exit\nLists: to-read, read"
)

// runREPL reads commands from reader until EOF, "exit" or "quit". Command
// errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "readlist %s> ", a.prompt())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(w, "Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args, w); err != nil {
			if errors.Is(err, errUsage) {
				fmt.Fprintln(w, err.Error())
			} else {
				fmt.Fprintln(w, "error:", err.Error())
			}
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string, w io.Writer) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			fmt.Fprintln(w, helpLoggedIn)
		} else {
			fmt.Fprintln(w, helpLoggedOut)
		}
		return nil
	case "signup", "register":
		return a.Signup(ctx)
	case "login":
		return a.Login(ctx)
	case "whoami":
		return a.Whoami(ctx)
	case "logout":
		return a.Logout(ctx)
	case "profile":
		return a.Profile(ctx)
	case "email":
		return a.Email(ctx)
	case "delete":
		return a.Delete(ctx)
	case "books", "list", "l":
		if len(args) != 1 {
			return fmt.Errorf("%w: books <list>", errUsage)
		}
		return a.Books(ctx, args[0])
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("%w: add <list> <key>", errUsage)
		}
		return a.Add(ctx, args[0], args[1])
	case "remove", "rm":
		if len(args) != 2 {
			return fmt.Errorf("%w: remove <list> <id>", errUsage)
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: remove <list> <id>, id must be a positive number", errUsage)
		}
		return a.Remove(ctx, args[0], id)
	}

	fmt.Fprintln(w, "Unknown command:", cmd)
	return nil
}
