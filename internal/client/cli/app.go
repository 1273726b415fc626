// Package cli implements the interactive terminal client: account signup
// with authenticator enrollment, two-step login, and note management over
// the server's HTTP API.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dberezin/securenotes/internal/client/api"
	"github.com/dberezin/securenotes/internal/common"
	"github.com/dberezin/securenotes/internal/server/models"
)

// App holds the CLI's collaborators. Reader and writer are injected so tests
// can drive the command loop with scripted input.
type App struct {
	client *api.Client
	in     *bufio.Reader
	out    io.Writer
}

func NewApp(client *api.Client, in io.Reader, out io.Writer) *App {
	return &App{
		client: client,
		in:     bufio.NewReader(in),
		out:    out,
	}
}

// Run reads commands until "quit" or EOF.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "secure-notes client. Commands: signup, verify-setup, login, list, add, update, delete, quit")

	for {
		cmd, err := GetSimpleText(a.in, "command", a.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := a.dispatch(ctx, cmd); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
}

var errQuit = errors.New("quit")

func (a *App) dispatch(ctx context.Context, cmd string) error {
	switch strings.ToLower(cmd) {
	case "signup":
		return a.signUp(ctx)
	case "verify-setup":
		return a.verifySetup(ctx)
	case "login":
		return a.login(ctx)
	case "list":
		return a.listNotes(ctx)
	case "add":
		return a.addNote(ctx)
	case "update":
		return a.updateNote(ctx)
	case "delete":
		return a.deleteNote(ctx)
	case "quit", "exit":
		return errQuit
	case "":
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) signUp(ctx context.Context) error {
	username, err := GetSimpleText(a.in, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	qr, err := a.client.SignUp(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return fmt.Errorf("user %q already exists", username)
		}
		return err
	}

	fmt.Fprintln(a.out, "Registered. Import this QR into your authenticator app:")
	fmt.Fprintln(a.out, qr)
	fmt.Fprintln(a.out, "Then run verify-setup to confirm enrollment.")
	return nil
}

func (a *App) verifySetup(ctx context.Context) error {
	username, err := GetSimpleText(a.in, "Username", a.out)
	if err != nil {
		return err
	}
	code, err := GetSimpleText(a.in, "Code from authenticator", a.out)
	if err != nil {
		return err
	}

	verified, err := a.client.VerifySetup(ctx, username, code)
	if err != nil {
		return err
	}
	if !verified {
		fmt.Fprintln(a.out, "Code did not match, try again.")
		return nil
	}
	fmt.Fprintln(a.out, "Enrollment confirmed.")
	return nil
}

func (a *App) login(ctx context.Context) error {
	username, err := GetSimpleText(a.in, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.client.Login(ctx, username, password); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return errors.New("invalid username or password")
		}
		return err
	}

	code, err := GetSimpleText(a.in, "Code from authenticator", a.out)
	if err != nil {
		return err
	}

	if _, err := a.client.VerifyLogin(ctx, username, code); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return errors.New("invalid code")
		}
		return err
	}

	fmt.Fprintln(a.out, "Logged in.")
	return nil
}

func (a *App) listNotes(ctx context.Context) error {
	result, err := a.client.ListNotes(ctx)
	if err != nil {
		return err
	}
	if len(result) == 0 {
		fmt.Fprintln(a.out, "No notes.")
		return nil
	}
	for _, n := range result {
		tags := ""
		if len(n.Tags) > 0 {
			tags = " [" + strings.Join(n.Tags, ", ") + "]"
		}
		fmt.Fprintf(a.out, "%s  %s%s\n", n.ID, n.Title, tags)
	}
	return nil
}

func (a *App) addNote(ctx context.Context) error {
	title, err := GetSimpleText(a.in, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.in, "Content", a.out)
	if err != nil {
		return err
	}
	tagLine, err := GetSimpleText(a.in, "Tags (comma-separated, optional)", a.out)
	if err != nil {
		return err
	}

	note, err := a.client.CreateNote(ctx, title, content, splitTags(tagLine))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created note %s\n", note.ID)
	return nil
}

func (a *App) updateNote(ctx context.Context) error {
	id, err := GetSimpleText(a.in, "Note id", a.out)
	if err != nil {
		return err
	}
	title, err := GetSimpleText(a.in, "New title (empty to keep)", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.in, "New content (empty to keep)", a.out)
	if err != nil {
		return err
	}

	patch := &models.NotePatch{}
	if title != "" {
		patch.Title = &title
	}
	if content != "" {
		patch.Content = &content
	}

	note, err := a.client.UpdateNote(ctx, id, patch)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errors.New("note not found")
		}
		return err
	}
	fmt.Fprintf(a.out, "Updated note %s\n", note.ID)
	return nil
}

func (a *App) deleteNote(ctx context.Context) error {
	id, err := GetSimpleText(a.in, "Note id", a.out)
	if err != nil {
		return err
	}
	if err := a.client.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return errors.New("note not found")
		}
		return err
	}
	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func splitTags(line string) []string {
	if line == "" {
		return nil
	}
	parts := strings.Split(line, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
