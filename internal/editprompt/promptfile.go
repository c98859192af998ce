package editprompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"porridge/internal/models"
)

// Delimiter separates the editable prompt from the reference transcript.
const Delimiter = "~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~"

// HintText sits directly under the delimiter.
const HintText = "Write your prompt above the line and save to have it updated in porridge"

// MaxTranscriptMessages caps how much history is copied into the prompt file.
const MaxTranscriptMessages = 100

const filePattern = "porridge-prompt-*.md"

// maxLineSize bounds a single line read back from the prompt file.
const maxLineSize = 4 << 20

// PromptFile is the temp file owned by one edit session.
type PromptFile struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
}

// BuildPromptFile writes prompt and the transcript into a new temp file in dir
// (os.TempDir when empty). Messages are written newest first, at most limit of
// them; limit <= 0 means MaxTranscriptMessages. The content is fully written
// before it returns.
func BuildPromptFile(dir, prompt string, messages []models.Message, limit int) (*PromptFile, error) {
	f, err := os.CreateTemp(dir, filePattern)
	if err != nil {
		return nil, newError(KindIO, OpCreateTempFile, err)
	}
	if _, err := io.WriteString(f, RenderPromptFile(prompt, messages, limit)); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, newError(KindIO, OpCreateTempFile, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, newError(KindIO, OpCreateTempFile, err)
	}
	return &PromptFile{path: f.Name(), file: f}, nil
}

// RenderPromptFile returns the initial prompt file content.
func RenderPromptFile(prompt string, messages []models.Message, limit int) string {
	if limit <= 0 {
		limit = MaxTranscriptMessages
	}
	parts := splitLines(prompt)
	parts = append(parts, Delimiter, HintText+"\n")
	for i := len(messages) - 1; i >= 0 && len(messages)-i <= limit; i-- {
		m := messages[i]
		parts = append(parts, fmt.Sprintf("%s:\n%s\n", m.Author, m.Text))
	}
	return strings.Join(parts, "\n")
}

// splitLines splits prompt into lines without a trailing empty line. An empty
// prompt still yields one line so the cursor starts above the delimiter.
func splitLines(prompt string) []string {
	prompt = strings.TrimSuffix(prompt, "\n")
	if prompt == "" {
		return []string{""}
	}
	lines := strings.Split(prompt, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ParsePrompt reads f from the start and returns every line before the
// delimiter joined by newlines. A file without the delimiter is all prompt.
func ParsePrompt(f *os.File) (string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", newError(KindIO, OpParsePrompt, err)
	}
	return parsePrompt(f)
}

func parsePrompt(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var lines []string
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == Delimiter {
			break
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return "", newError(KindIO, OpParsePrompt, err)
	}
	return strings.Join(lines, "\n"), nil
}

// Path returns the file location handed to the editor.
func (p *PromptFile) Path() string { return p.path }

// Parse re-reads the prompt. Editors that save by renaming a new file over
// the old one leave our handle pointing at stale content, so the path is
// reopened whenever it no longer refers to the open file.
func (p *PromptFile) Parse() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return "", newError(KindIO, OpParsePrompt, os.ErrClosed)
	}
	if err := p.reopenIfReplaced(); err != nil {
		return "", newError(KindIO, OpParsePrompt, err)
	}
	return ParsePrompt(p.file)
}

func (p *PromptFile) reopenIfReplaced() error {
	onDisk, err := os.Stat(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// mid-save: keep reading the old handle until the new file lands
			return nil
		}
		return err
	}
	open, err := p.file.Stat()
	if err == nil && os.SameFile(onDisk, open) {
		return nil
	}
	nf, err := os.Open(p.path)
	if err != nil {
		return err
	}
	_ = p.file.Close()
	p.file = nf
	return nil
}

// Close closes and deletes the file. It is safe to call more than once.
func (p *PromptFile) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	cerr := p.file.Close()
	rerr := os.Remove(p.path)
	if rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
		return rerr
	}
	return cerr
}
