package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/starkeeper/internal/storage"
)

// execIface is the command surface the loop dispatches to. App satisfies
// it; tests use a stub.
type execIface interface {
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	AwardXP(ctx context.Context, args []string) error
	RemoveLog(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Purge(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	Status(ctx context.Context) error
}

const helpText = `Available commands:
  list [xp|recent|favorites]   show the dashboard
  show <id>                    show one star
  add                          create a star
  edit <id>                    edit a star
  xp <id> <amount> [note]      award XP
  rmlog <id> <log id>          remove an XP event
  delete <id>                  delete a star
  purge <id> [<id>...]         delete several stars
  stats                        overview
  status                       account and backend
  exit`

// usageError is returned by commands called with the wrong arguments.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

// runREPL reads one command per line until EOF or "exit". Command failures
// are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "sk (%s)> ", statusFn())

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

		var cmdErr error
		switch cmd {
		case "help", "?":
			fmt.Fprintln(w, helpText)
		case "l", "list":
			cmdErr = a.List(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "add":
			cmdErr = a.Add(ctx)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "xp":
			cmdErr = a.AwardXP(ctx, args)
		case "rmlog":
			cmdErr = a.RemoveLog(ctx, args)
		case "delete", "rm":
			cmdErr = a.Delete(ctx, args)
		case "purge":
			cmdErr = a.Purge(ctx, args)
		case "stats":
			cmdErr = a.Stats(ctx)
		case "status":
			cmdErr = a.Status(ctx)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			printError(w, cmdErr)
		}
	}
}

func printError(w io.Writer, err error) {
	var u usageError
	if errors.As(err, &u) {
		fmt.Fprintln(w, "Usage:", string(u))
		return
	}
	fmt.Fprintln(w, "Error:", storage.Message(err))
}
