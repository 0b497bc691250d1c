package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"
)

// Metadata describes an ingested document
type Metadata struct {
	Filename   string `json:"filename"`
	Format     Format `json:"format"`
	Timestamp  string `json:"timestamp"` // RFC3339 format
	Hash       string `json:"hash"`      // SHA256 hex digest of the original bytes
	Bytes      int    `json:"bytes"`
	Characters int    `json:"characters"` // of the cleaned text
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(filename string, raw []byte, text string) *Metadata {
	format, _ := DetectFormat(filename)
	return &Metadata{
		Filename:   filename,
		Format:     format,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Hash:       computeHash(raw),
		Bytes:      len(raw),
		Characters: utf8.RuneCountInString(text),
	}
}

func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
