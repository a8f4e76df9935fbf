package jose

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PKCS7(t *testing.T) {
	for size := 0; size < 50; size++ {
		data := bytes.Repeat([]byte{0xab}, size)
		padded := padPKCS7(data, 16)
		assert.Equal(t, 0, len(padded)%16)
		assert.True(t, len(padded) > len(data))

		unpadded, ok := unpadPKCS7(padded, 16)
		require.True(t, ok, "size %d", size)
		assert.Equal(t, data, unpadded)
	}

	// malformed paddings
	for _, data := range [][]byte{
		nil,
		bytes.Repeat([]byte{0}, 16),                  // zero pad byte
		bytes.Repeat([]byte{17}, 16),                 // pad larger than block
		append(bytes.Repeat([]byte{1}, 14), 2, 3),    // wrong trailing byte
		append(bytes.Repeat([]byte{2}, 14), 3, 2),    // inconsistent run
		bytes.Repeat([]byte{0xab}, 15),               // not block aligned
	} {
		_, ok := unpadPKCS7(data, 16)
		assert.False(t, ok)
	}
}

func Test_DeflateRoundTrip(t *testing.T) {
	inputs := [][]byte{
		[]byte(""),
		[]byte("x"),
		[]byte(`{"john":"cleese"}`),
		bytes.Repeat([]byte("0123456789"), 1000),
	}
	for _, in := range inputs {
		compressed, err := deflateCompress(in)
		require.NoError(t, err)
		out, err := deflateDecompress(compressed)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}

	// repetitive payloads shrink
	big := bytes.Repeat([]byte("repeat me, please "), 500)
	compressed, err := deflateCompress(big)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(big))

	// a stream with the reserved block type is rejected
	_, err = deflateDecompress(bytes.Repeat([]byte{0xff}, 8))
	assert.Error(t, err)
}

func Test_CheckCompression(t *testing.T) {
	require.NoError(t, checkCompression("DEF"))

	err := checkCompression("BAD")
	require.Error(t, err)
	assert.Equal(t, "Unsupported compression algorithm: BAD", err.Error())
	assert.True(t, IsKind(err, UnsupportedCompression))

	err = checkCompression("def")
	require.Error(t, err)
	assert.Equal(t, "Unsupported compression algorithm: def", err.Error())
}

func Test_BuildAAD(t *testing.T) {
	assert.Equal(t, []byte("hdr"), buildAAD("hdr", nil))
	// adata is base64url encoded and joined with a dot
	assert.Equal(t, []byte("hdr."+EncodeSegment([]byte("42"))), buildAAD("hdr", []byte("42")))
}
