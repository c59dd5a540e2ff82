// Package chunker provides boundary-aware text splitting with overlap.
package chunker

import "strings"

// DefaultMaxSize is the default number of characters per chunk.
const DefaultMaxSize = 1000

// DefaultOverlap is the default number of overlap words prepended to
// each chunk after the first.
const DefaultOverlap = 50

// separators is the boundary priority list. Splitting prefers paragraph
// breaks, then lines, then sentences, then words. The empty string is
// the character-level fallback for spans with no usable boundary, such
// as a single very long word.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter cuts document text into size-bounded chunks along natural
// language boundaries, then prepends overlap words for cross-boundary
// context.
type Splitter struct {
	maxSize int
	overlap int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithMaxSize sets the chunk size in characters.
func WithMaxSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.maxSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in words.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		maxSize: DefaultMaxSize,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MaxSize returns the configured chunk size in characters.
func (s *Splitter) MaxSize() int {
	return s.maxSize
}

// Split cuts text into chunks of at most the configured size, then runs
// a single overlap pass: every chunk after the first gets the last
// overlap words of its predecessor prepended. The first chunk is never
// modified. A chunk's final length may exceed maxSize by the prepended
// words; that is accepted behaviour.
//
// Empty input yields a single empty chunk, not an empty slice.
func (s *Splitter) Split(text string) []string {
	chunks := s.split(text, separators)

	if s.overlap == 0 || len(chunks) < 2 {
		return chunks
	}

	withOverlap := make([]string, len(chunks))
	withOverlap[0] = chunks[0]
	for i := 1; i < len(chunks); i++ {
		words := lastWords(chunks[i-1], s.overlap)
		if len(words) == 0 {
			withOverlap[i] = chunks[i]
			continue
		}
		withOverlap[i] = strings.Join(words, " ") + " " + chunks[i]
	}

	return withOverlap
}

// split recursively cuts text using the first separator still available,
// falling through to finer-grained separators for oversized parts.
func (s *Splitter) split(text string, seps []string) []string {
	if len(text) <= s.maxSize {
		return []string{text}
	}

	sep := seps[0]
	if sep == "" {
		return s.splitChars(text)
	}

	parts := strings.Split(text, sep)

	var chunks []string
	var current string

	for _, part := range parts {
		if len(part) > s.maxSize {
			// The part alone is oversized: flush and recurse on it
			// with the next separator in priority order.
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			chunks = append(chunks, s.split(part, seps[1:])...)
			continue
		}

		if current == "" {
			current = part
			continue
		}

		if len(current)+len(sep)+len(part) <= s.maxSize {
			current += sep + part
		} else {
			chunks = append(chunks, current)
			current = part
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

// splitChars is the final fallback: cut the span into maxSize-rune
// windows with no delimiter.
func (s *Splitter) splitChars(text string) []string {
	runes := []rune(text)

	var chunks []string
	for start := 0; start < len(runes); start += s.maxSize {
		end := start + s.maxSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}

// lastWords returns up to n trailing whitespace-separated words of text.
func lastWords(text string, n int) []string {
	words := strings.Fields(text)
	if len(words) <= n {
		return words
	}
	return words[len(words)-n:]
}
