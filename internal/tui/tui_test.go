package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hazadus/go-wavebar/internal/waveform"
)

func TestNewAppDefaults(t *testing.T) {
	app := NewApp(Config{})

	assert.NotNil(t, app.cfg.Themes)
	assert.NotNil(t, app.cfg.Logger)
	assert.Equal(t, "default", app.cfg.Themes.Theme().Name)
}

func TestNewAppKeepsThemes(t *testing.T) {
	themes := waveform.NewThemes(waveform.Theme{Name: "mint", Accent: "#00b894"})
	app := NewApp(Config{Themes: themes, FPS: 60})

	assert.Same(t, themes, app.cfg.Themes)
	assert.Equal(t, 60, app.cfg.FPS)
}
