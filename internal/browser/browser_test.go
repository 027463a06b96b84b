package browser

import (
	"testing"

	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/stretchr/testify/assert"
)

func TestNewLauncher(t *testing.T) {
	l := newLauncher(Config{Headless: true, ProxyURL: "http://127.0.0.1:7890"})

	assert.True(t, l.Has(flags.Headless))
	assert.Equal(t, "http://127.0.0.1:7890", l.Get(flags.ProxyServer))
}

func TestNewLauncher_HeadedWithoutProxy(t *testing.T) {
	l := newLauncher(Config{Headless: false})

	assert.False(t, l.Has(flags.Headless))
	assert.False(t, l.Has(flags.ProxyServer))
}
