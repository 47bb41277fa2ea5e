package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "hello world", got)
	require.Contains(t, out.String(), "Name?")
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	require.Equal(t, "lastline", got)
}

func TestGetOptionalTextKeepsCurrent(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("\n"))
	var out bytes.Buffer
	got, err := GetOptionalText(in, "Email", "ada@example.com", &out)
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", got)
	require.Contains(t, out.String(), "[ada@example.com]")
}

func TestGetOptionalTextOverrides(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("new@example.com\n"))
	var out bytes.Buffer
	got, err := GetOptionalText(in, "Email", "ada@example.com", &out)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", got)
}

func TestGetOptionalTextEmptyCurrent(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("\n"))
	var out bytes.Buffer
	got, err := GetOptionalText(in, "Full name", "", &out)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Contains(t, out.String(), "[not set]")
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }

	var out bytes.Buffer
	got, err := GetPassword(&out, "Password")
	require.NoError(t, err)
	require.Equal(t, "secret", got)
	require.Contains(t, out.String(), "Password: ")
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }

	var out bytes.Buffer
	_, err := GetPassword(&out, "Password")
	require.Error(t, err)
}
