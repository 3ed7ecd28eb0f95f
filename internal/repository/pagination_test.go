package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	page, limit := NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = NormalizePage(-3, -10)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = NormalizePage(2, 500)
	assert.Equal(t, 2, page)
	assert.Equal(t, maxPageLimit, limit)

	page, limit = NormalizePage(4, 10)
	assert.Equal(t, 4, page)
	assert.Equal(t, 10, limit)
}

func TestNewPage(t *testing.T) {
	p := NewPage(2, 10, 15)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, int64(15), p.Total)
	assert.Equal(t, 2, p.Pages)

	assert.Equal(t, 0, NewPage(1, 10, 0).Pages)
	assert.Equal(t, 1, NewPage(1, 10, 10).Pages)
	assert.Equal(t, 2, NewPage(1, 10, 11).Pages)
}
