package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jonathan/hiring-assistant/internal/intake"
	"github.com/jonathan/hiring-assistant/internal/observability"
	"github.com/jonathan/hiring-assistant/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run a screening conversation in the terminal",
	Long:  "Starts a new candidate session and carries the whole conversation on stdin/stdout. Type 'exit' to leave or 'delete my data' to erase the session.",
	RunE:  runChat,
}

var chatQuiet bool

func init() {
	chatCmd.Flags().BoolVarP(&chatQuiet, "quiet", "q", false, "Hide the progress bar")
	rootCmd.AddCommand(chatCmd)
}

// console reads candidate lines and shows assistant output
type console interface {
	io.Writer
	ReadLine() (string, error)
	Close() error
}

// plainConsole serves pipes and redirected input
type plainConsole struct {
	io.Writer
	scanner *bufio.Scanner
}

func newPlainConsole(in io.Reader, out io.Writer) *plainConsole {
	return &plainConsole{Writer: out, scanner: bufio.NewScanner(in)}
}

func (c *plainConsole) ReadLine() (string, error) {
	if _, err := io.WriteString(c.Writer, "You: "); err != nil {
		return "", err
	}
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.scanner.Text(), nil
}

func (c *plainConsole) Close() error { return nil }

// rawConsole gives an interactive terminal line editing and history
type rawConsole struct {
	*term.Terminal
	fd    int
	state *term.State
}

func newRawConsole(fd int) (*rawConsole, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	t := term.NewTerminal(screen, "You: ")
	if width, height, err := term.GetSize(fd); err == nil {
		_ = t.SetSize(width, height)
	}
	return &rawConsole{Terminal: t, fd: fd, state: state}, nil
}

func (c *rawConsole) Close() error {
	return term.Restore(c.fd, c.state)
}

func openConsole() (console, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) && term.IsTerminal(int(os.Stdout.Fd())) {
		return newRawConsole(fd)
	}
	return newPlainConsole(os.Stdin, os.Stdout), nil
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Logs go to stderr so they do not interleave with the conversation
	return withApp(ctx, os.Stderr, func(a *app) error {
		con, err := openConsole()
		if err != nil {
			return err
		}
		defer con.Close()
		return chat(ctx, a.sessions, con, !chatQuiet)
	})
}

// chat runs one session until the candidate leaves, finishes or input ends.
//
//nolint:errcheck // writing to the console; errors surface on the next read
func chat(ctx context.Context, sessions *session.Manager, con console, showProgress bool) error {
	printer := observability.NewPrinter(con)

	res, err := sessions.Start(ctx)
	if err != nil {
		return err
	}
	show(con, printer, res, showProgress)

	for !res.Ended {
		line, err := con.ReadLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(con)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}

		res, err = sessions.Handle(ctx, res.SessionID, line)
		if err != nil {
			return err
		}
		show(con, printer, res, showProgress)

		if res.Stage == intake.StageCompletion && !res.Ended {
			if rec, err := sessions.Candidate(ctx, res.SessionID); err == nil {
				printer.PrintCandidate(rec)
			}
			return nil
		}
	}
	return nil
}

//nolint:errcheck // writing to the console
func show(w io.Writer, printer *observability.Printer, res session.Result, showProgress bool) {
	if res.Acknowledgment != "" {
		fmt.Fprintf(w, "\nAssistant: %s\n", res.Acknowledgment)
	}
	fmt.Fprintf(w, "\nAssistant: %s\n\n", strings.TrimSpace(res.Text))
	if showProgress && !res.Ended {
		printer.PrintProgress(res.Progress)
	}
}
