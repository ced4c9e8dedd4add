package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ResolveToken returns the API bearer token for cfg: the inline token when
// set, otherwise the first line of the configured token file. Tokens grant
// access to customer data and must never be logged.
func (c *APIConfig) ResolveToken() (string, error) {
	if c.Token != "" {
		return c.Token, nil
	}
	if c.TokenFile == "" {
		return "", fmt.Errorf("no api token configured: set api.token or api.token_file")
	}

	f, err := os.Open(c.TokenFile)
	if err != nil {
		return "", fmt.Errorf("failed to open token file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		return "", fmt.Errorf("token file %s is empty", c.TokenFile)
	}

	token := strings.TrimSpace(scanner.Text())
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", c.TokenFile)
	}
	return token, nil
}
