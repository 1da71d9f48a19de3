package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdlive/internal/ui/pretty"
	"github.com/yaklabco/mdlive/pkg/syntax"
)

func TestNewStyles_ColorEnabled(t *testing.T) {
	styles := pretty.NewStyles(true)
	require.NotNil(t, styles)

	// Lipgloss may not emit ANSI codes without a TTY, so only check the text survives.
	assert.Contains(t, styles.Header.Render("x"), "x")
	assert.Contains(t, styles.ActiveMark.Render("x"), "x")
}

func TestNewStyles_ColorDisabled(t *testing.T) {
	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	text := "test"
	assert.Equal(t, text, styles.Bold.Render(text), "No-color Bold should not add formatting")
	assert.Equal(t, text, styles.Header.Render(text), "No-color Header should not add formatting")
	assert.Equal(t, text, styles.ForKind(syntax.KindLink).Render(text))
}

func TestStyles_ForKind(t *testing.T) {
	styles := pretty.NewStyles(true)

	assert.Equal(t, styles.Emphasis, styles.ForKind(syntax.KindBold))
	assert.Equal(t, styles.Emphasis, styles.ForKind(syntax.KindItalic))
	assert.Equal(t, styles.Code, styles.ForKind(syntax.KindCodeBlock))
	assert.Equal(t, styles.ListItem, styles.ForKind(syntax.KindOrderedListItem))
}

func TestIsColorEnabled_AlwaysMode(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled(pretty.ColorAlways, &buf), "always mode should return true")
}

func TestIsColorEnabled_NeverMode(t *testing.T) {
	assert.False(t, pretty.IsColorEnabled(pretty.ColorNever, os.Stdout), "never mode should return false")
}

func TestIsColorEnabled_AutoMode_NonTTY(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled(pretty.ColorAuto, &buf), "auto mode with non-TTY should return false")
}

func TestIsColorEnabled_AutoMode_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled(pretty.ColorAuto, os.Stdout), "NO_COLOR should disable colors")
}

func TestIsColorEnabled_DefaultsToAuto(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	var buf bytes.Buffer
	assert.False(t, pretty.IsColorEnabled("", &buf))
	assert.False(t, pretty.IsColorEnabled("unknown", &buf))
}
