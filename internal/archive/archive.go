// Package archive reads and writes catalogue backups: a versioned JSON
// bundle of the asset and category lists, optionally zstd-compressed.
package archive

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/mesh-intelligence/forge/pkg/types"
)

// Version is the bundle format written by Export.
const Version = 1

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ErrUnsupportedVersion is returned for bundles newer than Version.
var ErrUnsupportedVersion = errors.New("unsupported backup version")

// Bundle is the backup document.
type Bundle struct {
	Version    int              `json:"version"`
	ExportedAt int64            `json:"exportedAt"` // Milliseconds since the Unix epoch.
	Assets     []types.Asset    `json:"assets"`
	Categories []types.Category `json:"categories"`
}

// Export writes b to w as indented JSON, zstd-compressed when compress is set.
// A zero Version is filled in.
func Export(w io.Writer, b Bundle, compress bool) error {
	if b.Version == 0 {
		b.Version = Version
	}
	if b.Assets == nil {
		b.Assets = []types.Asset{}
	}
	if b.Categories == nil {
		b.Categories = []types.Category{}
	}

	if !compress {
		return encode(w, b)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if err := encode(zw, b); err != nil {
		_ = zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush zstd writer: %w", err)
	}
	return nil
}

func encode(w io.Writer, b Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// Import reads a bundle from r. Compressed and plain bundles are told apart
// by the zstd frame magic.
func Import(r io.Reader) (Bundle, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return Bundle{}, fmt.Errorf("read backup: %w", err)
	}

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return Bundle{}, fmt.Errorf("create zstd reader: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	var b Bundle
	if err := json.NewDecoder(src).Decode(&b); err != nil {
		return Bundle{}, fmt.Errorf("decode backup: %w", err)
	}
	if b.Version > Version {
		return Bundle{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, b.Version)
	}
	return b, nil
}
