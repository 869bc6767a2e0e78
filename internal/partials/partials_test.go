package partials

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSLoader_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"header.mustache":      {Data: []byte("<h1>{{title}}</h1>")},
		"shared/footer":        {Data: []byte("bye")},
		"shared/dir/.keep":     {Data: []byte("")},
		"shared/dir2/inner.md": {Data: []byte("# hi")},
	}
	loader := NewFSLoader(fsys, nil)

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{name: "header.mustache", want: "<h1>{{title}}</h1>", wantOK: true},
		{name: "header", wantOK: false},
		{name: "shared/footer", want: "bye", wantOK: true},
		{name: "./shared/footer", want: "bye", wantOK: true},
		{name: "shared/dir", wantOK: false},
		{name: "../secret", wantOK: false},
		{name: "/etc/passwd", wantOK: false},
		{name: ".", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := loader.Load(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDirLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "item.mustache"), []byte("<li>{{.}}</li>"), 0644))

	loader := NewDirLoader(dir)

	got, ok := loader.Load("item.mustache")
	require.True(t, ok)
	assert.Equal(t, "<li>{{.}}</li>", got)

	_, ok = loader.Load("missing.mustache")
	assert.False(t, ok)
}
