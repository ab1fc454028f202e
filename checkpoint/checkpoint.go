// Package checkpoint persists branch-and-price search trees so a long run
// can resume after a crash or be moved between machines.
//
// A checkpoint is a single blob: a fixed header (magic, version, codec,
// payload length, CRC32) followed by the tree's binary serialization,
// optionally compressed with zstd or lz4. The Manager writes
// sequence-numbered checkpoints into a blobstore.Store and resolves the
// latest one by listing.
package checkpoint

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/openbp/tree"
)

// Codec selects the payload compression.
type Codec uint8

const (
	// CodecNone stores the payload uncompressed.
	CodecNone Codec = iota
	// CodecZstd compresses the payload with zstd.
	CodecZstd
	// CodecLZ4 compresses the payload with lz4.
	CodecLZ4
)

// String returns the codec name.
func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

var (
	checkpointMagic = [4]byte{'O', 'B', 'P', '1'}

	// ErrInvalidMagic is returned when a blob is not a checkpoint.
	ErrInvalidMagic = errors.New("checkpoint: invalid magic")
	// ErrInvalidVersion is returned for an unsupported format version.
	ErrInvalidVersion = errors.New("checkpoint: unsupported version")
	// ErrChecksumMismatch is returned when the payload fails CRC validation.
	ErrChecksumMismatch = errors.New("checkpoint: checksum mismatch")
	// ErrPayloadTooLarge is returned when the header declares a payload
	// length beyond the supported maximum. A corrupt length field must fail
	// here, not at allocation.
	ErrPayloadTooLarge = errors.New("checkpoint: payload length exceeds limit")
)

const (
	formatVersion = uint16(1)

	// Header: magic(4) version(2) codec(1) reserved(1) payloadLen(8) crc(4)
	headerLen = 20

	// maxPayloadLen bounds the declared payload size (4 GiB compressed).
	maxPayloadLen = uint64(1) << 32
)

// Options configures checkpoint encoding.
type Options struct {
	// Codec is the payload compression codec.
	Codec Codec

	// ZstdLevel is the zstd encoder level (ignored for other codecs).
	ZstdLevel zstd.EncoderLevel
}

// DefaultOptions are the options used when none are overridden.
var DefaultOptions = Options{
	Codec:     CodecZstd,
	ZstdLevel: zstd.SpeedDefault,
}

// Write serializes the tree into w as one checkpoint.
func Write(w io.Writer, t *tree.Tree, optFns ...func(o *Options)) error {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	var raw bytes.Buffer
	if err := t.WriteBinary(&raw); err != nil {
		return fmt.Errorf("checkpoint: serialize tree: %w", err)
	}

	payload, err := compress(raw.Bytes(), opts)
	if err != nil {
		return err
	}

	var header [headerLen]byte
	copy(header[0:4], checkpointMagic[:])
	binary.LittleEndian.PutUint16(header[4:6], formatVersion)
	header[6] = byte(opts.Codec)
	// header[7] reserved
	binary.LittleEndian.PutUint64(header[8:16], uint64(len(payload)))
	binary.LittleEndian.PutUint32(header[16:20], crc32.ChecksumIEEE(payload))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("checkpoint: write header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("checkpoint: write payload: %w", err)
	}
	return nil
}

// Read reconstructs a tree from a checkpoint written by Write.
func Read(r io.Reader, optFns ...func(o *tree.Options)) (*tree.Tree, error) {
	var header [headerLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("checkpoint: read header: %w", err)
	}

	if !bytes.Equal(header[0:4], checkpointMagic[:]) {
		return nil, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint16(header[4:6]); v != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, v)
	}

	codec := Codec(header[6])
	payloadLen := binary.LittleEndian.Uint64(header[8:16])
	wantCRC := binary.LittleEndian.Uint32(header[16:20])

	if payloadLen > maxPayloadLen {
		return nil, fmt.Errorf("%w: %d", ErrPayloadTooLarge, payloadLen)
	}

	// Grow with the stream instead of trusting the declared length with one
	// allocation: a corrupt length field then fails on short read, cheaply.
	var payloadBuf bytes.Buffer
	n, err := io.Copy(&payloadBuf, io.LimitReader(r, int64(payloadLen)))
	if err != nil {
		return nil, fmt.Errorf("checkpoint: read payload: %w", err)
	}
	if uint64(n) != payloadLen {
		return nil, fmt.Errorf("checkpoint: read payload: %w", io.ErrUnexpectedEOF)
	}
	payload := payloadBuf.Bytes()
	if crc32.ChecksumIEEE(payload) != wantCRC {
		return nil, ErrChecksumMismatch
	}

	raw, err := decompress(payload, codec)
	if err != nil {
		return nil, err
	}

	t, err := tree.ReadBinary(bytes.NewReader(raw), optFns...)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: decode tree: %w", err)
	}
	return t, nil
}

func compress(raw []byte, opts Options) ([]byte, error) {
	switch opts.Codec {
	case CodecNone:
		return raw, nil

	case CodecZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(opts.ZstdLevel))
		if err != nil {
			return nil, fmt.Errorf("checkpoint: zstd encoder: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), nil

	case CodecLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			return nil, fmt.Errorf("checkpoint: lz4 compress: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("checkpoint: lz4 close: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("checkpoint: unknown codec %d", opts.Codec)
	}
}

func decompress(payload []byte, codec Codec) ([]byte, error) {
	switch codec {
	case CodecNone:
		return payload, nil

	case CodecZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: zstd decoder: %w", err)
		}
		defer dec.Close()
		raw, err := dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("checkpoint: zstd decompress: %w", err)
		}
		return raw, nil

	case CodecLZ4:
		raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
		if err != nil {
			return nil, fmt.Errorf("checkpoint: lz4 decompress: %w", err)
		}
		return raw, nil

	default:
		return nil, fmt.Errorf("checkpoint: unknown codec %d", codec)
	}
}
