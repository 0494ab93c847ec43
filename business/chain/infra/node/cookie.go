package node

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/fd1az/chain-explorer/business/chain/domain"
)

const (
	cookieFileName = ".cookie"
	cookieLen      = 32
	appDirName     = "neptune"
)

// CookieHint tells the client where the node keeps its cookie.
type CookieHint struct {
	DataDirectory string `json:"data_directory"`
	Network       string `json:"network"`
}

// DefaultDataDir is the node's data directory for network when it runs
// with default settings.
func DefaultDataDir(network domain.Network) string {
	return filepath.Join(btcutil.AppDataDir(appDirName, false), network.String())
}

// loadCookie reads <dir>/.cookie. The file holds either 32 raw bytes or
// their hex encoding; the token sent on the wire is always lowercase hex.
func loadCookie(dir string) (string, error) {
	path := filepath.Join(dir, cookieFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read cookie: %w", err)
	}

	if len(data) == cookieLen {
		return hex.EncodeToString(data), nil
	}

	raw, err := hex.DecodeString(string(bytes.TrimSpace(data)))
	if err != nil {
		return "", fmt.Errorf("decode cookie %s: %w", path, err)
	}
	if len(raw) != cookieLen {
		return "", fmt.Errorf("cookie %s: want %d bytes, got %d", path, cookieLen, len(raw))
	}
	return hex.EncodeToString(raw), nil
}
