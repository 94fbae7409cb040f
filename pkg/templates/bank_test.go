package templates

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-facerange/pkg/vision/native"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ScaleRange{Smallest: 0.1, Largest: 1.0, Step: 0.1}, cfg.Reference)
	assert.Equal(t, ScaleRange{Smallest: 0.6, Largest: 1.1, Step: 0.05}, cfg.Working)
	assert.Equal(t, 0.05, cfg.RefreshStep)
}

func TestBank_Init(t *testing.T) {
	b := NewBank(native.New(), DefaultConfig())
	require.NoError(t, b.Init(noiseCrop(100, 100, 10), image.Pt(640, 480)))

	// Reference: 1.0 .. 0.2 (0.1 is under 20px).
	assert.Equal(t, 9*BlockSize, b.Reference().Len())
	// Working: 1.1 .. 0.6.
	assert.Equal(t, 11*BlockSize, b.Working().Len())
	assert.Equal(t, image.Pt(640, 480), b.MaxSize())
}

func TestBank_InitEmptyCrop(t *testing.T) {
	b := NewBank(native.New(), DefaultConfig())
	err := b.Init(nil, image.Pt(640, 480))
	assert.True(t, errors.Is(err, ErrEmptyCrop))
	assert.Nil(t, b.Working())
}

func TestBank_UpdateRefreshesOnSameFace(t *testing.T) {
	b := NewBank(native.New(), DefaultConfig())
	crop := noiseCrop(60, 60, 11)
	require.NoError(t, b.Init(crop, image.Pt(640, 480)))
	before := b.Working()

	refreshed, score, err := b.Update(crop, 0.6, 1.5, 0.75)
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Greater(t, score, 0.95)

	after := b.Working()
	assert.NotSame(t, before, after)
	// Refresh sweeps 1.5 .. 0.6 at the fixed refresh step.
	assert.Equal(t, 19*BlockSize, after.Len())
	assert.Equal(t, 1.5, after.Scales()[0])
}

func TestBank_UpdateSkipsDissimilarCrop(t *testing.T) {
	b := NewBank(native.New(), DefaultConfig())
	require.NoError(t, b.Init(noiseCrop(60, 60, 12), image.Pt(640, 480)))
	before := b.Working()

	refreshed, score, err := b.Update(noiseCrop(64, 58, 13), 0.6, 1.5, 0.75)
	require.NoError(t, err)
	assert.False(t, refreshed)
	assert.Less(t, score, 0.75)
	assert.Same(t, before, b.Working(), "working set must be left unchanged")
}

func TestBank_UpdateNeverTouchesReference(t *testing.T) {
	b := NewBank(native.New(), DefaultConfig())
	crop := noiseCrop(60, 60, 14)
	require.NoError(t, b.Init(crop, image.Pt(640, 480)))
	ref := b.Reference()

	_, _, err := b.Update(crop, 0.6, 1.5, 0.0)
	require.NoError(t, err)
	assert.Same(t, ref, b.Reference())
}

func TestBank_UpdateErrors(t *testing.T) {
	b := NewBank(native.New(), DefaultConfig())

	_, _, err := b.Update(noiseCrop(30, 30, 15), 0.6, 1.5, 0.75)
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, _, err = b.Update(nil, 0.6, 1.5, 0.75)
	assert.ErrorIs(t, err, ErrEmptyCrop)
}

func TestBank_Reset(t *testing.T) {
	b := NewBank(native.New(), DefaultConfig())
	require.NoError(t, b.Init(noiseCrop(40, 40, 16), image.Pt(640, 480)))

	b.Reset()
	assert.Nil(t, b.Reference())
	assert.Nil(t, b.Working())
}
