package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
)

var (
	errEnd = errors.New("end")
)

// InteractiveQuizCLI contains shared logic for interactive quiz CLIs
type InteractiveQuizCLI struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
	green        *color.Color
	red          *color.Color
}

func NewInteractiveQuizCLI(stdin io.Reader, stdout io.Writer) *InteractiveQuizCLI {
	return &InteractiveQuizCLI{
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		green:        color.New(color.FgGreen),
		red:          color.New(color.FgRed),
	}
}

//go:generate mockgen -source=interactive_quiz_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

// Session is one step of an interactive quiz. Returning errEnd finishes the quiz.
type Session interface {
	Session(ctx context.Context) error
}

func (cli *InteractiveQuizCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// readLine reads one line of input. The end of input finishes the quiz.
func (cli *InteractiveQuizCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return "", errEnd
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("error reading input: %w", err)
		}
	}
	return line, nil
}

func (cli *InteractiveQuizCLI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(cli.stdoutWriter, format, args...)
}

func (cli *InteractiveQuizCLI) println(args ...any) {
	_, _ = fmt.Fprintln(cli.stdoutWriter, args...)
}
