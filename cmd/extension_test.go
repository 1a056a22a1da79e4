package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts in this test")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\n" +
		"echo \"$" + EnvPortfolioFile + "\" > \"$1\"\n" +
		"echo \"$" + EnvCurrency + "\" >> \"$1\"\n" +
		"exit 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tcgp-hello"), []byte(script), 0755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	portfolioFile, currency = "random_portfolio.json", "XYZ"
	t.Cleanup(func() { portfolioFile, currency = "", "" })

	out := filepath.Join(dir, "out.txt")
	found, code := RunExtension("hello", []string{out})
	assert.True(t, found)
	assert.Equal(t, 3, code, "the extension exit code is returned")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"random_portfolio.json", "XYZ"}, strings.Fields(string(data)))
}

func TestRunExtension_NotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	found, code := RunExtension("does-not-exist", nil)
	assert.False(t, found)
	assert.Zero(t, code)
}
