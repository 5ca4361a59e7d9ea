package chunker

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Separators are tried in order: paragraph, line, sentence, word. Without any
// of them the window is cut hard at Size.
var Separators = []string{"\n\n", "\n", ". ", " "}

var newlinePattern = regexp.MustCompile(`\r\n|\r`)

// Options sizes are measured in runes.
type Options struct {
	Size    int
	Overlap int
}

func DefaultOptions() Options {
	return Options{Size: DefaultSize, Overlap: DefaultOverlap}
}

func (o Options) Validate() error {
	if o.Size <= 0 {
		return errors.New("chunk: size must be greater than zero")
	}
	if o.Overlap < 0 {
		return errors.New("chunk: overlap cannot be negative")
	}
	if o.Overlap >= o.Size {
		return fmt.Errorf("chunk: overlap %d must be smaller than size %d", o.Overlap, o.Size)
	}
	return nil
}

// Chunker splits extracted text into overlapping segments for embedding.
type Chunker struct {
	opts   Options
	// shortest cut accepted at a separator; always past the overlap so
	// every window advances
	minCut int
}

func New(opts Options) (*Chunker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{
		opts:   opts,
		minCut: max(opts.Overlap+1, opts.Size/2),
	}, nil
}

func (c *Chunker) Options() Options {
	return c.opts
}

// Chunk returns the ordered, non-empty segments of text. Every segment is at
// most Size runes; each one after the first repeats up to Overlap runes of
// its predecessor, starting on a word boundary when the text has one. Output
// is a pure function of text and options.
func (c *Chunker) Chunk(text string) ([]string, error) {
	normalized := strings.TrimSpace(newlinePattern.ReplaceAllString(text, "\n"))
	if normalized == "" {
		return []string{}, nil
	}

	runes := []rune(normalized)
	chunks := make([]string, 0, len(runes)/(c.opts.Size-c.opts.Overlap)+1)

	start := 0
	for start < len(runes) {
		end := len(runes)
		if end-start > c.opts.Size {
			end = start + c.cut(runes[start:start+c.opts.Size])
		}
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
		start = c.nextStart(runes, start, end)
	}
	return chunks, nil
}

// cut returns the length of the first segment of window, ending just after
// the highest-priority separator found past minCut.
func (c *Chunker) cut(window []rune) int {
	text := string(window)
	for _, sep := range Separators {
		idx := strings.LastIndex(text, sep)
		if idx < 0 {
			continue
		}
		n := utf8.RuneCountInString(text[:idx]) + utf8.RuneCountInString(sep)
		if n >= c.minCut {
			return n
		}
	}
	return len(window)
}

// nextStart steps back Overlap runes from end, then forward past the first
// whitespace run so the overlap does not open on a partial word.
func (c *Chunker) nextStart(runes []rune, start, end int) int {
	next := end - c.opts.Overlap
	if next <= start {
		next = start + 1
	}
	if unicode.IsSpace(runes[next-1]) && !unicode.IsSpace(runes[next]) {
		return next
	}
	for i := next; i < end; i++ {
		if !unicode.IsSpace(runes[i]) {
			continue
		}
		j := i
		for j < end && unicode.IsSpace(runes[j]) {
			j++
		}
		if j < end {
			return j
		}
		break
	}
	return next
}

// Chunk is a convenience wrapper for one-off calls.
func Chunk(text string, opts Options) ([]string, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	return c.Chunk(text)
}
