package timelapse

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Station-Manager/errors"
)

const imageExt = ".jpg"

// Sequence hands out image paths <dir>/<prefix><NNNNN>.jpg with increasing
// indexes, continuing after the highest index already on disk.
type Sequence struct {
	Dir    string
	Prefix string
	next   int
}

// OpenSequence creates dir if needed and positions the sequence after the
// last existing image.
func OpenSequence(dir, prefix string) (*Sequence, error) {
	const op errors.Op = "timelapse.OpenSequence"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New(op).Err(err).Msg("Unable to create project directory.")
	}
	next, err := NextIndex(dir, prefix)
	if err != nil {
		return nil, err
	}
	return &Sequence{Dir: dir, Prefix: prefix, next: next}, nil
}

// NextIndex returns one past the highest index of prefix-named images in
// dir, or 1 when there are none. A missing dir counts as empty.
func NextIndex(dir, prefix string) (int, error) {
	const op errors.Op = "timelapse.NextIndex"
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 1, nil
		}
		return 0, errors.New(op).Err(err).Msg("Unable to read project directory.")
	}

	highest := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n, ok := parseIndex(e.Name(), prefix); ok && n > highest {
			highest = n
		}
	}
	return highest + 1, nil
}

func parseIndex(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, imageExt) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(name, prefix), imageExt)
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Peek returns the path the next call to Next will return.
func (s *Sequence) Peek() string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s%05d%s", s.Prefix, s.next, imageExt))
}

// Next returns the next image path and advances the sequence.
func (s *Sequence) Next() string {
	p := s.Peek()
	s.next++
	return p
}

// Index is the index Next will use.
func (s *Sequence) Index() int {
	return s.next
}
