package importer

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// readTrackFile returns the raw file bytes, for hashing, and the GPX
// document, gunzipped when the name ends in .gz.
func readTrackFile(path string) (raw, doc []byte, err error) {
	raw, err = os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return raw, raw, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("gzip header %s: %w", path, err)
	}
	defer zr.Close()
	doc, err = io.ReadAll(zr)
	if err != nil {
		return nil, nil, fmt.Errorf("gunzip %s: %w", path, err)
	}
	return raw, doc, nil
}

// hashBytes returns the hex SHA-256 of data.
func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
