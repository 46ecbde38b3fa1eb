package content

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContentFile(t *testing.T, dir, name, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".txt"), []byte(text), 0644))
}

func TestNewManager(t *testing.T) {
	t.Run("embedded only", func(t *testing.T) {
		m, err := NewManager("")
		require.NoError(t, err)
		assert.Empty(t, m.Dir())
	})

	t.Run("existing directory", func(t *testing.T) {
		dir := t.TempDir()
		m, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, m.Dir())
	})

	t.Run("missing directory falls back to embedded", func(t *testing.T) {
		m, err := NewManager(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, m.Dir())

		text, err := m.Load("about")
		require.NoError(t, err)
		assert.NotEmpty(t, text)

		infos, err := m.List()
		require.NoError(t, err)
		for _, info := range infos {
			assert.Equal(t, SourceEmbedded, info.Source, info.Name)
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "content")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		_, err := NewManager(path)
		assert.Error(t, err)
	})
}

func TestManager_EmbeddedDefaults(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)

	for _, name := range Names {
		text, err := m.Load(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, text, name)
		assert.NoError(t, m.Validate(name), name)
	}
}

func TestManager_Load(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, dir, "about", "custom about")
	m, err := NewManager(dir)
	require.NoError(t, err)

	text, err := m.Load("about")
	require.NoError(t, err)
	assert.Equal(t, "custom about", text)

	text, err = m.Load("about.txt")
	require.NoError(t, err)
	assert.Equal(t, "custom about", text)

	_, err = m.Load("passwords")
	assert.ErrorIs(t, err, ErrContentNotFound)
	assert.Empty(t, m.Get("passwords"))

	skills, err := m.Load("skills")
	require.NoError(t, err)
	assert.NotEqual(t, "", skills, "missing overrides fall back to defaults")
}

func TestManager_Refresh(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, dir, "contact", "v1")
	m, err := NewManager(dir)
	require.NoError(t, err)
	require.Equal(t, "v1", m.Get("contact"))

	writeContentFile(t, dir, "contact", "v2")
	assert.Equal(t, "v1", m.Get("contact"), "served from cache until refreshed")

	require.NoError(t, m.Refresh())
	assert.Equal(t, "v2", m.Get("contact"))
}

func TestManager_List(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, dir, "skills", "Go")
	m, err := NewManager(dir)
	require.NoError(t, err)

	infos, err := m.List()
	require.NoError(t, err)
	require.Len(t, infos, len(Names))

	for i, info := range infos {
		assert.Equal(t, Names[i], info.Name)
		assert.Equal(t, Names[i]+".txt", info.Filename)
		if info.Name == "skills" {
			assert.Equal(t, SourceDisk, info.Source)
			assert.Equal(t, int64(2), info.Size)
			assert.False(t, info.ModTime.IsZero())
		} else {
			assert.Equal(t, SourceEmbedded, info.Source)
			assert.Positive(t, info.Size)
		}
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, name := range Names {
				_ = m.Get(name)
			}
			_ = m.Refresh()
		}()
	}
	wg.Wait()
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"plain", "hello", false},
		{"link", `see <a href="https://x.dev">x.dev</a>`, false},
		{"angle brackets are fine", "1 < 2 and <b>bold</b>", false},
		{"unquoted href", `<a href=https://x.dev>x</a>`, true},
		{"script link", `<a href="javascript:alert(1)">x</a>`, true},
		{"unterminated", `<a href="https://x.dev">x.dev`, true},
		{"invalid utf8", string([]byte{0xff, 0xfe}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidContent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestManager_ValidateOverride(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, dir, "contact", `<a href="mailto:x">broken`)
	m, err := NewManager(dir)
	require.NoError(t, err)

	assert.ErrorIs(t, m.Validate("contact"), ErrInvalidContent)
	assert.ErrorIs(t, m.Validate("nope"), ErrContentNotFound)
}
