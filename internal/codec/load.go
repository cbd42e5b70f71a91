package codec

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-pipemerge/pkg/pipeline"
)

// Compression of a document, selected by its suffix.
type Compression string

const (
	NoCompression   Compression = ""
	ZstdCompression Compression = "zstd"
	XZCompression   Compression = "xz"
)

var ErrRemoteDocument = errors.New("unable to fetch remote document")

// Document is a decoded pipeline with the place it was read from.
type Document struct {
	Location string
	// Digest is the hex encoded BLAKE3 sum of the decompressed document.
	Digest   string
	Pipeline *pipeline.Pipeline
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	parsed, err := url.Parse(strings.TrimSpace(location))
	if err != nil {
		return false
	}

	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

// CompressionOf returns the compression implied by the suffix of location.
func CompressionOf(location string) Compression {
	name := location
	if IsRemote(location) {
		if parsed, err := url.Parse(location); err == nil {
			name = parsed.Path
		}
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".zst", ".zstd":
		return ZstdCompression
	case ".xz":
		return XZCompression
	default:
		return NoCompression
	}
}

// Digest returns the hex encoded BLAKE3 sum of content.
func Digest(content []byte) string {
	sum := blake3.Sum256(content)

	return hex.EncodeToString(sum[:])
}

// Load reads, decompresses and decodes the document at location, a file path or an http(s) URL.
func Load(ctx context.Context, location string) (*Document, error) {
	raw, err := read(ctx, location)
	if err != nil {
		return nil, err
	}

	content, err := decompress(raw, CompressionOf(location))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decompress %s", location)
	}

	p, err := Decode(content)
	if err != nil {
		return nil, errors.Wrap(err, location)
	}

	return &Document{Location: location, Digest: Digest(content), Pipeline: p}, nil
}

// LoadAll loads every location concurrently. Documents are returned in the order of locations.
func LoadAll(ctx context.Context, locations []string) ([]*Document, error) {
	docs := make([]*Document, len(locations))

	g, gctx := errgroup.WithContext(ctx)
	for i, location := range locations {
		g.Go(func() error {
			doc, err := Load(gctx, location)
			if err != nil {
				return err
			}

			docs[i] = doc

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}

// Save encodes p into the file at name, compressed according to its suffix.
func Save(name string, p *pipeline.Pipeline, header ...string) error {
	content, err := Marshal(p, header...)
	if err != nil {
		return err
	}

	content, err = compress(content, CompressionOf(name))
	if err != nil {
		return errors.Wrapf(err, "unable to compress %s", name)
	}

	return errors.Wrapf(os.WriteFile(name, content, 0o644), "unable to write %s", name) //nolint:gosec
}

func read(ctx context.Context, location string) ([]byte, error) {
	if !IsRemote(location) {
		content, err := os.ReadFile(location)

		return content, errors.Wrapf(err, "unable to read %s", location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create request for %s", location)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to fetch %s", location)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Wrapf(ErrRemoteDocument, "%s: status=%d", location, resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)

	return content, errors.Wrapf(err, "unable to read %s", location)
}

func decompress(content []byte, compression Compression) ([]byte, error) {
	switch compression {
	case ZstdCompression:
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create zstd reader")
		}
		defer decoder.Close()

		out, err := decoder.DecodeAll(content, nil)

		return out, errors.Wrap(err, "zstd")
	case XZCompression:
		reader, err := xz.NewReader(bytes.NewReader(content))
		if err != nil {
			return nil, errors.Wrap(err, "unable to create xz reader")
		}

		out, err := io.ReadAll(reader)

		return out, errors.Wrap(err, "xz")
	default:
		return content, nil
	}
}

func compress(content []byte, compression Compression) ([]byte, error) {
	switch compression {
	case ZstdCompression:
		encoder, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create zstd writer")
		}
		defer encoder.Close()

		return encoder.EncodeAll(content, nil), nil
	case XZCompression:
		var buf bytes.Buffer

		writer, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create xz writer")
		}

		if _, err := writer.Write(content); err != nil {
			return nil, errors.Wrap(err, "xz")
		}

		if err := writer.Close(); err != nil {
			return nil, errors.Wrap(err, "xz")
		}

		return buf.Bytes(), nil
	default:
		return content, nil
	}
}
