package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/narrator/pkg/domain"
)

// ContentRenderer transforms markdown before it is printed.
// This allows TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader    *bufio.Reader
	Writer    io.Writer
	Renderer  ContentRenderer
	Sanitizer Sanitizer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerSanitizer configures input cleaning.
func WithTextHandlerSanitizer(s Sanitizer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Sanitizer = s
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:    bufio.NewReader(r),
		Writer:    w,
		Sanitizer: NewSanitizer(getMaxInputSize()),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Scene prints the scene as markdown through the renderer, followed by a numbered choice list.
func (h *TextHandler) Scene(ctx context.Context, scene domain.ScenePayload) error {
	if md := SceneMarkdown(scene); md != "" {
		output := md
		if h.Renderer != nil {
			if rendered, err := h.Renderer(md); err == nil {
				output = rendered
			}
		}
		if _, err := fmt.Fprintln(h.Writer, strings.TrimSpace(output)); err != nil {
			return err
		}
	}
	return h.printChoices(scene.Labels())
}

func (h *TextHandler) Clarify(ctx context.Context, choices []string) error {
	fmt.Fprintln(h.Writer, "I didn't catch that. You can:")
	return h.printChoices(choices)
}

func (h *TextHandler) printChoices(labels []string) error {
	for i, label := range labels {
		if _, err := fmt.Fprintf(h.Writer, "  %d. %s\n", i+1, label); err != nil {
			return err
		}
	}
	return nil
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := h.Sanitizer.Clean(res.text)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}

// SceneMarkdown renders the textual part of a scene (title, narration, lines) as markdown.
// The empty payload renders as an empty string.
func SceneMarkdown(scene domain.ScenePayload) string {
	var b strings.Builder
	if scene.Title != nil && *scene.Title != "" {
		fmt.Fprintf(&b, "## %s\n\n", *scene.Title)
	}
	if scene.Narration != nil && *scene.Narration != "" {
		fmt.Fprintf(&b, "%s\n\n", *scene.Narration)
	}
	for _, line := range scene.Lines {
		fmt.Fprintf(&b, "> %s\n\n", line)
	}
	return strings.TrimSpace(b.String())
}
