package services

import (
	"hash/crc32"
	"io"
	"os"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
)

// hashChunkSize bounds each read while hashing.
const hashChunkSize = 64 * 1024

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Checksum returns the CRC-32C (Castagnoli) checksum of everything r yields
// and the number of bytes consumed. The result depends only on the bytes.
//
// CRC-32C detects accidental corruption; it is not collision resistant.
func Checksum(r io.Reader) (uint32, int64, error) {
	h := crc32.New(castagnoli)
	buf := make([]byte, hashChunkSize)
	// The wrapper hides WriterTo so reads stay bounded by buf.
	n, err := io.CopyBuffer(h, struct{ io.Reader }{r}, buf)
	if err != nil {
		return 0, n, err
	}
	return h.Sum32(), n, nil
}

// HashFile computes the content identity of the file at path. The size is
// the number of bytes hashed. Every failure is a *domain.ReadError.
func HashFile(path string) (domain.ContentID, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ContentID{}, &domain.ReadError{Path: path, Err: err}
	}
	defer f.Close()

	sum, n, err := Checksum(f)
	if err != nil {
		return domain.ContentID{}, &domain.ReadError{Path: path, Err: err}
	}
	return domain.ContentID{Hash: sum, Size: n}, nil
}
