package walletloader_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inft_dashboard/internal/infrastructure/walletloader"
)

const full = "0x00000000000000000000000000000000000000000000000000000000000000ab"

func TestReadAddresses(t *testing.T) {
	input := strings.Join([]string{
		"# tracked addresses",
		"",
		"  0xAB  ",
		full,
		"0x2",
		"not-an-address",
		"0xzz",
	}, "\n")

	var skipped []int
	addrs, err := walletloader.ReadAddresses(strings.NewReader(input), func(lineNum int, line string, err error) {
		skipped = append(skipped, lineNum)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{full, "0x0000000000000000000000000000000000000000000000000000000000000002"}, addrs)
	assert.Equal(t, []int{6, 7}, skipped)
}

func TestLoadAddresses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.txt")
	require.NoError(t, os.WriteFile(path, []byte("0xab\n"), 0o600))

	addrs, err := walletloader.LoadAddresses(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{full}, addrs)

	_, err = walletloader.LoadAddresses(filepath.Join(t.TempDir(), "missing.txt"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadAddresses_Empty(t *testing.T) {
	addrs, err := walletloader.ReadAddresses(strings.NewReader(""), nil)

	require.NoError(t, err)
	assert.NotNil(t, addrs)
	assert.Empty(t, addrs)
}
