package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingLineBuffer_AddLine(t *testing.T) {
	instance := NewRingLineBuffer(3, 5)

	instance.AddLine(b("l1"))
	instance.AddLine(b("l2"))
	assert.Equal(t, [][]byte{b("l1"), b("l2")}, instance.Lines())

	instance.AddLine(b("l3"))
	instance.AddLine(b("l4"))
	assert.Equal(t, [][]byte{b("l2"), b("l3"), b("l4")}, instance.Lines())
	assert.Equal(t, 3, instance.NumberOfLines())

	instance.AddLine(b("0123456789"))
	assert.Equal(t, [][]byte{b("l3"), b("l4"), b("01234")}, instance.Lines())
}

func TestRingLineBuffer_Write(t *testing.T) {
	instance := NewRingLineBuffer(4, 6)
	write := func(v ...string) {
		t.Helper()
		toWrite := b(v...)
		n, err := instance.Write(toWrite)
		require.NoError(t, err)
		require.Equal(t, len(toWrite), n)
	}

	write("abc")
	assert.Empty(t, instance.Lines())

	write("de\n")
	assert.Equal(t, [][]byte{b("abcde")}, instance.Lines())

	write("foo\nbar")
	assert.Equal(t, [][]byte{b("abcde"), b("foo")}, instance.Lines())

	write("\n\n")
	assert.Equal(t, [][]byte{b("abcde"), b("foo"), b("bar"), b("")}, instance.Lines())

	write("0123456789\nx\n")
	assert.Equal(t, [][]byte{b("bar"), b(""), b("012345"), b("x")}, instance.Lines())
}

func TestRingLineBuffer_WriteTo(t *testing.T) {
	instance := NewRingLineBuffer(2, 10)
	instance.AddLine(b("a"))
	instance.AddLine(b("b"))
	instance.AddLine(b("c"))

	var buf bytes.Buffer
	n, err := instance.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, "b\nc\n", buf.String())
}

func TestEnvar(t *testing.T) {
	assert.Equal(t, "CAB_LOG_LEVEL", Envar("log.level"))
	assert.Equal(t, "CAB_CAPABILITY_STATIC_SPEAKERPHONE_ON", Envar("capability.static.speakerphoneOn"))
	assert.Equal(t, "CAB_DISPLAY_HOMEASSISTANT_ENTITY_ID", Envar("display.homeassistant.entityId"))
}

func TestRegexp(t *testing.T) {
	var zero Regexp
	assert.False(t, zero.MatchString(""))
	assert.False(t, zero.MatchAny("foo"))
	assert.True(t, zero.IsZero())

	instance := MustNewRegexp("(?i)speaker")
	assert.True(t, instance.MatchString("Built-in Speaker"))
	assert.True(t, instance.MatchAny("", "Headphones", "Speakers"))
	assert.False(t, instance.MatchAny("", "Headphones"))

	_, err := NewRegexp("(")
	assert.EqualError(t, err, "illegal-regexp: (")
}

func b(v ...string) []byte {
	return []byte(strings.Join(v, ""))
}
