package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/label-tracker/internal/entity"
	processor "github.com/joseph-ayodele/label-tracker/internal/pipeline"
)

func TestUploadCache_EvictsOldest(t *testing.T) {
	c, err := NewUploadCache(2)
	require.NoError(t, err)

	a := c.Put("a.pdf", processor.Result{Record: entity.Record{OrderNo: "A"}})
	b := c.Put("b.pdf", processor.Result{})
	_ = c.Put("c.pdf", processor.Result{})

	_, ok := c.Get(a.ID)
	assert.False(t, ok)
	got, ok := c.Get(b.ID)
	require.True(t, ok)
	assert.Equal(t, "b.pdf", got.Filename)
	assert.Equal(t, 2, c.Len())
}

func TestUploadCache_MarkSaved(t *testing.T) {
	c, err := NewUploadCache(4)
	require.NoError(t, err)

	up := c.Put("a.txt", processor.Result{})
	c.MarkSaved(up.ID)
	c.MarkSaved(up.ID)
	c.MarkSaved("missing")

	got, ok := c.Get(up.ID)
	require.True(t, ok)
	assert.Equal(t, 2, got.Saves)
	assert.NotEqual(t, up.ID, c.Put("a.txt", processor.Result{}).ID)
}

func TestNewUploadCache_InvalidSize(t *testing.T) {
	_, err := NewUploadCache(0)
	assert.Error(t, err)
}
