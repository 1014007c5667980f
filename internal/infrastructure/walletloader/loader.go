package walletloader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"inft_dashboard/internal/domain/entity"
)

// DefaultAddressFilePath is used when no path is configured.
const DefaultAddressFilePath = "data/addresses.txt"

// SkipFunc is called for every line that is not a valid Sui address.
type SkipFunc func(lineNum int, line string, err error)

// LoadAddresses reads Sui addresses from the file at path, one per line.
// Blank lines and lines starting with # are ignored, addresses are returned
// normalized and without duplicates, in file order.
func LoadAddresses(path string, skip SkipFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open address file %s: %w", path, err)
	}
	defer file.Close()

	addrs, err := ReadAddresses(file, skip)
	if err != nil {
		return nil, fmt.Errorf("error scanning address file %s: %w", path, err)
	}
	return addrs, nil
}

// ReadAddresses is LoadAddresses over an arbitrary reader.
func ReadAddresses(r io.Reader, skip SkipFunc) ([]string, error) {
	addrs := []string{}
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addr, err := entity.NormalizeAddress(line)
		if err != nil {
			if skip != nil {
				skip(lineNum, line, err)
			}
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		addrs = append(addrs, addr)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return addrs, nil
}
