package easyeda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeKeepsEmptyTokens(t *testing.T) {
	rec := Tokenize("R~1~2~~~5~6")

	assert.Equal(t, TagRectangle, rec.Tag)
	require.Len(t, rec.Groups, 1)
	assert.Equal(t, []string{"1", "2", "", "", "5", "6"}, rec.Fields())
}

func TestTokenizeTagOnly(t *testing.T) {
	rec := Tokenize("PAD")
	assert.Equal(t, TagPad, rec.Tag)
	assert.Empty(t, rec.Groups)
	assert.Nil(t, rec.Fields())
	assert.Nil(t, rec.Group(3))
}

func TestTokenizePinGroups(t *testing.T) {
	rec := Tokenize("P~show~0~1^^360~270^^M 360 270 h 10~#880000^^a^^b~c~d~e~7^^f^^g~h")

	assert.Equal(t, TagPin, rec.Tag)
	require.Len(t, rec.Groups, 7)
	assert.Equal(t, []string{"show", "0", "1"}, rec.Group(0))
	assert.Equal(t, []string{"360", "270"}, rec.Group(1))
	assert.Equal(t, []string{"M 360 270 h 10", "#880000"}, rec.Group(2))
	assert.Equal(t, "7", rec.Group(4)[4])
	assert.Equal(t, []string{"g", "h"}, rec.Group(6))
	assert.Nil(t, rec.Group(7))
}

func TestTokenizeSingleGroupIgnoresGroupDelimiter(t *testing.T) {
	rec := Tokenize("TEXT~N~1~2~a^^b")
	require.Len(t, rec.Groups, 1)
	assert.Equal(t, "a^^b", rec.Fields()[3])
}

func TestTagOf(t *testing.T) {
	assert.Equal(t, "SVGNODE", TagOf(`SVGNODE~{"attrs":{}}`))
	assert.Equal(t, "P", TagOf("P^^x"))
	assert.Equal(t, "", TagOf(""))
	assert.Equal(t, "ZZZ", TagOf("ZZZ~1~2~3"))
}

func TestMapFields(t *testing.T) {
	f := MapFields(Layout{"a", "b", "c"}, []string{"1", "", "x", "extra"})

	assert.Equal(t, 3, f.Len())
	assert.True(t, f.Has("b"))
	assert.Equal(t, 1.0, f.Float("a"))
	assert.Equal(t, 0.0, f.Float("b"))
	assert.Equal(t, 0, f.Int("c"))
	assert.Equal(t, "x", f.String("c"))
	assert.False(t, f.Has("extra"))
}

func TestMapFieldsShortTokens(t *testing.T) {
	f := MapFields(Layout{"a", "b", "c"}, []string{"1"})

	assert.Equal(t, 1, f.Len())
	assert.False(t, f.Has("b"))
	assert.Nil(t, f.OptionalFloat("b"))
	assert.False(t, f.Bool("c"))
}

func TestOptionalFloat(t *testing.T) {
	f := MapFields(Layout{"rx", "ry"}, []string{"2.5", ""})

	require.NotNil(t, f.OptionalFloat("rx"))
	assert.Equal(t, 2.5, *f.OptionalFloat("rx"))
	require.NotNil(t, f.OptionalFloat("ry"))
	assert.Equal(t, 0.0, *f.OptionalFloat("ry"))
}
