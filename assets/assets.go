package assets

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"sync"
)

//go:embed models/*.json
var modelFS embed.FS

// ErrNotFound is returned when a model path does not exist.
var ErrNotFound = errors.New("model not found")

// Model is a vector outline drawn around an actor's position, in units of
// the actor's size.
type Model struct {
	Name      string
	Color     color.RGBA
	Outline   [][2]float64
	Primitive bool // stand-in used when the real model could not be loaded
}

type modelFile struct {
	Name    string       `json:"name"`
	Color   [4]uint8     `json:"color"`
	Outline [][2]float64 `json:"outline"`
}

// Loader reads models from a filesystem and caches them. It is safe to use
// from the loading goroutines it starts.
type Loader struct {
	fsys  fs.FS
	mu    sync.Mutex
	cache map[string]*Model
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, cache: make(map[string]*Model)}
}

// Embedded returns a loader over the models compiled into the binary.
func Embedded() *Loader {
	return NewLoader(modelFS)
}

// LoadModel reads and decodes one model. It blocks; game code should go
// through LoadAsync instead.
func (l *Loader) LoadModel(ctx context.Context, path string) (*Model, error) {
	l.mu.Lock()
	if m, ok := l.cache[path]; ok {
		l.mu.Unlock()
		return m, nil
	}
	l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}

	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	if len(mf.Outline) < 3 {
		return nil, fmt.Errorf("model %s: outline needs at least 3 points, got %d", path, len(mf.Outline))
	}

	m := &Model{
		Name:    mf.Name,
		Color:   color.RGBA{R: mf.Color[0], G: mf.Color[1], B: mf.Color[2], A: mf.Color[3]},
		Outline: mf.Outline,
	}

	l.mu.Lock()
	l.cache[path] = m
	l.mu.Unlock()
	return m, nil
}

// Primitive is the box stand-in for a model that failed to load.
func Primitive(name string, c color.RGBA) *Model {
	return &Model{
		Name:      name,
		Color:     c,
		Outline:   [][2]float64{{-0.5, 0.5}, {0.5, 0.5}, {0.5, -0.5}, {-0.5, -0.5}},
		Primitive: true,
	}
}
