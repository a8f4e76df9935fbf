package jose

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
)

// CompressionDeflate is the only supported "zip" header value: raw DEFLATE
// with no container framing.
const CompressionDeflate = "DEF"

func checkCompression(zip string) error {
	if zip != CompressionDeflate {
		return newError(UnsupportedCompression, "Unsupported compression algorithm: %s", zip)
	}
	return nil
}

func deflateCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, wrapError(InvalidInput, err, "failed to create compressor")
	}
	if _, err := w.Write(data); err != nil {
		return nil, wrapError(InvalidInput, err, "failed to compress payload")
	}
	if err := w.Close(); err != nil {
		return nil, wrapError(InvalidInput, err, "failed to compress payload")
	}
	return buf.Bytes(), nil
}

func deflateDecompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapError(InvalidInput, err, "failed to decompress payload")
	}
	return out, nil
}
