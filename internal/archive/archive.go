// Package archive validates and extracts Old World save archives.
//
// Saves arrive as zip files containing a single XML document. Sizes, entry
// counts, compression ratios and entry paths are all checked before any XML
// is handed to the parser.
package archive

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/becked/per-ankh-sub000/internal/xmltree"
)

const (
	// MaxCompressedSize is the largest archive accepted on disk.
	MaxCompressedSize = 50 * 1024 * 1024
	// MaxUncompressedSize caps a single entry's declared and actual size.
	MaxUncompressedSize = 100 * 1024 * 1024
	// MaxEntries caps the number of entries in the archive.
	MaxEntries = 10
	// MaxCompressionRatio rejects zip bombs.
	MaxCompressionRatio = 100
)

var (
	// ErrInvalidZip marks archives that are not readable zip files.
	ErrInvalidZip = errors.New("invalid zip file")
	// ErrArchiveStructure marks archives without exactly one usable XML entry.
	ErrArchiveStructure = errors.New("invalid archive structure")
	// ErrFileTooLarge marks size limit violations.
	ErrFileTooLarge = errors.New("file too large")
	// ErrSecurityViolation marks hostile entry paths and zip-bomb ratios.
	ErrSecurityViolation = errors.New("security violation")
)

// ExtractXML opens the archive at path, applies all gate checks and returns
// the decompressed XML payload of the single .xml entry.
func ExtractXML(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat save archive: %w", err)
	}
	if info.Size() > MaxCompressedSize {
		return "", fmt.Errorf("%w: archive is %d bytes, limit %d", ErrFileTooLarge, info.Size(), MaxCompressedSize)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidZip, err)
	}
	defer r.Close()

	if len(r.File) > MaxEntries {
		return "", fmt.Errorf("%w: %d entries, limit %d", ErrArchiveStructure, len(r.File), MaxEntries)
	}

	var xmlEntry *zip.File
	for _, f := range r.File {
		if err := validateEntryPath(f.Name); err != nil {
			return "", err
		}
		if f.UncompressedSize64 > MaxUncompressedSize {
			return "", fmt.Errorf("%w: entry %q declares %d bytes, limit %d",
				ErrFileTooLarge, f.Name, f.UncompressedSize64, MaxUncompressedSize)
		}
		if exceedsRatio(f.UncompressedSize64, f.CompressedSize64) {
			return "", fmt.Errorf("%w: entry %q compression ratio %.1f exceeds %d",
				ErrSecurityViolation, f.Name,
				float64(f.UncompressedSize64)/float64(f.CompressedSize64), MaxCompressionRatio)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(f.Name), ".xml") {
			if xmlEntry != nil {
				return "", fmt.Errorf("%w: multiple XML entries", ErrArchiveStructure)
			}
			xmlEntry = f
		}
	}
	if xmlEntry == nil {
		return "", fmt.Errorf("%w: no XML entry found", ErrArchiveStructure)
	}

	rc, err := xmlEntry.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open entry %q: %v", ErrInvalidZip, xmlEntry.Name, err)
	}
	defer rc.Close()

	// Read one byte past the limit so a lying header cannot smuggle an
	// oversized payload through the declared-size check.
	data, err := io.ReadAll(io.LimitReader(rc, MaxUncompressedSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: read entry %q: %v", ErrInvalidZip, xmlEntry.Name, err)
	}
	if len(data) > MaxUncompressedSize {
		return "", fmt.Errorf("%w: entry %q larger than declared", ErrFileTooLarge, xmlEntry.Name)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: entry %q is not valid UTF-8", xmltree.ErrMalformedXML, xmlEntry.Name)
	}
	text := string(data)
	if decl, ok := xmlEncodingDecl(text); ok && !strings.EqualFold(decl, "utf-8") {
		slog.Warn("save declares non-UTF-8 encoding, content decoded as UTF-8",
			"entry", xmlEntry.Name, "declared", decl)
	}
	return text, nil
}

// HashFile returns the hex SHA-256 of the archive, recorded on the match row
// so re-imports of identical files can be recognized at a glance.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open save archive: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash save archive: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// exceedsRatio reports a zip-bomb expansion ratio. The multiply form keeps
// fractional ratios just above the limit from truncating to the limit.
func exceedsRatio(uncompressed, compressed uint64) bool {
	return compressed > 0 && uncompressed > MaxCompressionRatio*compressed
}

// validateEntryPath rejects path traversal and other hostile entry names.
// Backslashes are normalized first so windows-style traversal is caught too.
func validateEntryPath(name string) error {
	normalized := strings.ReplaceAll(name, `\`, "/")

	for _, r := range normalized {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: entry path contains control character", ErrSecurityViolation)
		}
	}
	if strings.HasPrefix(normalized, "/") {
		return fmt.Errorf("%w: absolute entry path %q", ErrSecurityViolation, name)
	}
	// Windows drive-letter absolute paths survive the slash normalization.
	if len(normalized) >= 2 && normalized[1] == ':' {
		return fmt.Errorf("%w: absolute entry path %q", ErrSecurityViolation, name)
	}

	trimmed := strings.TrimSuffix(normalized, "/")
	if trimmed == "" {
		return fmt.Errorf("%w: empty entry path", ErrSecurityViolation)
	}
	for _, part := range strings.Split(trimmed, "/") {
		switch part {
		case "":
			return fmt.Errorf("%w: empty path component in %q", ErrSecurityViolation, name)
		case ".", "..":
			return fmt.Errorf("%w: path traversal in %q", ErrSecurityViolation, name)
		}
	}
	return nil
}

// xmlEncodingDecl pulls the encoding attribute out of an <?xml ...?>
// declaration, if one is present.
func xmlEncodingDecl(text string) (string, bool) {
	if !strings.HasPrefix(text, "<?xml") {
		return "", false
	}
	end := strings.Index(text, "?>")
	if end < 0 {
		return "", false
	}
	decl := text[:end]
	idx := strings.Index(decl, "encoding=")
	if idx < 0 {
		return "", false
	}
	rest := decl[idx+len("encoding="):]
	if len(rest) < 2 {
		return "", false
	}
	quote := rest[0]
	if quote != '"' && quote != '\'' {
		return "", false
	}
	closing := strings.IndexByte(rest[1:], quote)
	if closing < 0 {
		return "", false
	}
	return rest[1 : 1+closing], true
}
