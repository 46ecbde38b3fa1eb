package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/keuhdall/termfolio/game/shell"
)

//go:embed defaults/*.txt
var defaults embed.FS

// Names lists every logical content resource
var Names = []string{"welcome", "help", "about", "skills", "projects", "experience", "contact", "resume"}

var (
	ErrContentNotFound = errors.New("content not found")
	ErrInvalidContent  = errors.New("invalid content")
)

// Source tells where a resource was read from
type Source string

const (
	SourceEmbedded Source = "embedded"
	SourceDisk     Source = "disk"
)

// Info describes one content resource
type Info struct {
	Name     string    `json:"name"`
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time,omitempty"`
	Source   Source    `json:"source"`
}

// Manager loads content resources and caches them. Files in the override
// directory win over the embedded defaults.
type Manager struct {
	dir   string
	cache map[string]string
	mu    sync.RWMutex
}

// NewManager creates a content manager. An empty or missing dir serves the
// embedded defaults only; Dir reports "" in that case.
func NewManager(dir string) (*Manager, error) {
	if dir != "" {
		st, err := os.Stat(dir)
		switch {
		case os.IsNotExist(err):
			dir = ""
		case err != nil:
			return nil, fmt.Errorf("failed to open content directory: %w", err)
		case !st.IsDir():
			return nil, fmt.Errorf("content path is not a directory: %s", dir)
		}
	}

	m := &Manager{
		dir:   dir,
		cache: make(map[string]string),
	}

	if err := m.Refresh(); err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return m, nil
}

// Load returns the text of a resource by name
func (m *Manager) Load(name string) (string, error) {
	name = strings.TrimSuffix(name, ".txt")
	if !known(name) {
		return "", fmt.Errorf("%w: %s", ErrContentNotFound, name)
	}

	m.mu.RLock()
	if text, ok := m.cache[name]; ok {
		m.mu.RUnlock()
		return text, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if text, ok := m.cache[name]; ok {
		return text, nil
	}

	data, _, err := m.read(name)
	if err != nil {
		return "", err
	}
	m.cache[name] = string(data)
	return string(data), nil
}

// Get returns the text of a resource, or "" when it cannot be loaded
func (m *Manager) Get(name string) string {
	text, _ := m.Load(name)
	return text
}

// List returns metadata for every resource in Names order
func (m *Manager) List() ([]*Info, error) {
	infos := make([]*Info, 0, len(Names))
	for _, name := range Names {
		_, info, err := m.read(name)
		if errors.Is(err, ErrContentNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Refresh drops the cache and reloads every resource
func (m *Manager) Refresh() error {
	fresh := make(map[string]string, len(Names))
	for _, name := range Names {
		data, _, err := m.read(name)
		if errors.Is(err, ErrContentNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		fresh[name] = string(data)
	}

	m.mu.Lock()
	m.cache = fresh
	m.mu.Unlock()
	return nil
}

// Validate checks a stored resource with ValidateText
func (m *Manager) Validate(name string) error {
	text, err := m.Load(name)
	if err != nil {
		return err
	}
	if err := ValidateText(text); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Dir returns the override directory, "" when only defaults are served
func (m *Manager) Dir() string {
	return m.dir
}

// read loads a resource from the override directory, falling back to the
// embedded copy.
func (m *Manager) read(name string) ([]byte, *Info, error) {
	filename := name + ".txt"

	if m.dir != "" {
		path := filepath.Join(m.dir, filename)
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			info := &Info{Name: name, Filename: filename, Size: int64(len(data)), Source: SourceDisk}
			if st, statErr := os.Stat(path); statErr == nil {
				info.ModTime = st.ModTime()
			}
			return data, info, nil
		case !os.IsNotExist(err):
			return nil, nil, fmt.Errorf("failed to read content file: %w", err)
		}
	}

	data, err := fs.ReadFile(defaults, "defaults/"+filename)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrContentNotFound, name)
	}
	return data, &Info{Name: name, Filename: filename, Size: int64(len(data)), Source: SourceEmbedded}, nil
}

func known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

var anchorOpener = regexp.MustCompile(`(?i)<a[\s>]`)

// ValidateText checks that text is UTF-8 and that every anchor opener
// forms a complete <a href="URL">TEXT</a> link.
func ValidateText(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: not valid UTF-8", ErrInvalidContent)
	}

	openers := len(anchorOpener.FindAllStringIndex(text, -1))
	links := 0
	for _, seg := range shell.ParseLinks(text) {
		if seg.IsLink() {
			links++
		}
	}
	if openers != links {
		return fmt.Errorf("%w: %d of %d links are malformed", ErrInvalidContent, openers-links, openers)
	}
	return nil
}
