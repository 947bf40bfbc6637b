package catalog_test

import (
	"testing"

	"github.com/aretw0/tinytop/pkg/catalog"
	"github.com/aretw0/tinytop/pkg/domain"
	"github.com/aretw0/tinytop/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func nopFactory(domain.GameDescriptor) (ports.Game, error) { return nil, nil }

func TestCatalog_RegisterAndLookup(t *testing.T) {
	c := catalog.New()
	c.Register("snake", nopFactory)
	c.Register("pong", nopFactory)

	_, ok := c.Lookup("snake")
	assert.True(t, ok)
	_, ok = c.Lookup("tetris")
	assert.False(t, ok)
	assert.Equal(t, []string{"pong", "snake"}, c.Names())
}

func TestCatalog_RegisterPanics(t *testing.T) {
	c := catalog.New()
	c.Register("snake", nopFactory)

	assert.Panics(t, func() { c.Register("snake", nopFactory) })
	assert.Panics(t, func() { c.Register("nil", nil) })
}
