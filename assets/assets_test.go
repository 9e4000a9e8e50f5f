package assets

import (
	"context"
	"image/color"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedModelsDecode(t *testing.T) {
	l := Embedded()
	for _, name := range []string{
		"scout", "raider", "striker", "destroyer", "mothership",
		"health_boost", "shield", "rocket_shooter", "ship", "asteroid",
	} {
		m, err := l.LoadModel(context.Background(), "models/"+name+".json")
		require.NoError(t, err, name)
		assert.Equal(t, name, m.Name)
		assert.GreaterOrEqual(t, len(m.Outline), 3)
		assert.False(t, m.Primitive)
	}
}

func TestLoadModel_Errors(t *testing.T) {
	l := NewLoader(fstest.MapFS{
		"bad.json":  {Data: []byte(`{"name":`)},
		"thin.json": {Data: []byte(`{"name":"thin","outline":[[0,0],[1,1]]}`)},
	})

	_, err := l.LoadModel(context.Background(), "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.LoadModel(context.Background(), "bad.json")
	assert.Error(t, err)

	_, err = l.LoadModel(context.Background(), "thin.json")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.LoadModel(ctx, "bad.json")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadAsync(t *testing.T) {
	l := Embedded()
	p := l.LoadAsync(context.Background(), "models/ship.json")

	m, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ship", m.Name)

	polled, done, err := p.Poll()
	assert.True(t, done)
	assert.NoError(t, err)
	assert.Same(t, m, polled)
}

func TestReadyAndPrimitive(t *testing.T) {
	prim := Primitive("rocket_shooter", color.RGBA{R: 1, G: 2, B: 3, A: 4})
	m, done, err := Ready(prim).Poll()
	assert.True(t, done)
	assert.NoError(t, err)
	assert.True(t, m.Primitive)
	assert.Len(t, m.Outline, 4)
}
