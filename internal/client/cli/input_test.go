package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(reader("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(reader("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(reader(""), "Name?", &out)
	assert.Error(t, err)
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(reader("a\nb\n\n\n"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestGetDate(t *testing.T) {
	var out bytes.Buffer
	today := time.Date(2024, time.July, 9, 15, 0, 0, 0, time.UTC)

	d, err := GetDate(reader("\n"), "Date", &out, today)
	require.NoError(t, err)
	assert.Equal(t, models.Date{Year: 2024, Month: time.July, Day: 9}, d)

	d, err = GetDate(reader("2023-01-31\n"), "Date", &out, today)
	require.NoError(t, err)
	assert.Equal(t, "2023-01-31", d.String())

	_, err = GetDate(reader("31.01.2023\n"), "Date", &out, today)
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestGetOptionalFloat(t *testing.T) {
	var out bytes.Buffer

	v, err := GetOptionalFloat(reader("\n"), "Weight", &out)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = GetOptionalFloat(reader("3,45\n"), "Weight", &out)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.InDelta(t, 3.45, *v, 1e-9)

	_, err = GetOptionalFloat(reader("heavy\n"), "Weight", &out)
	assert.Error(t, err)

	for _, in := range []string{"Inf", "-inf", "NaN", "1e999"} {
		_, err = GetOptionalFloat(reader(in+"\n"), "Weight", &out)
		assert.Error(t, err, in)
	}
}

func TestGetChoice(t *testing.T) {
	var out bytes.Buffer
	opts := []string{"PHOTO", "VIDEO", "ECHO"}

	got, err := GetChoice(reader("echo\n"), "Type", &out, opts)
	require.NoError(t, err)
	assert.Equal(t, "ECHO", got)
	assert.Contains(t, out.String(), "[PHOTO|VIDEO|ECHO]")

	_, err = GetChoice(reader("audio\n"), "Type", &out, opts)
	assert.Error(t, err)
}

func TestGetList(t *testing.T) {
	var out bytes.Buffer
	got, err := GetList(reader(" m-1, ,m-2,m-1 \n"), "Media ids", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"m-1", "m-2", "m-1"}, got)

	got, err = GetList(reader("\n"), "Media ids", &out)
	require.NoError(t, err)
	assert.Empty(t, got)
}
