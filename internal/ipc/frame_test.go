package ipc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		{},
		[]byte("x"),
		[]byte("hello frame"),
		bytes.Repeat([]byte{0xAB}, 4096),
	}

	var buf bytes.Buffer
	for _, payload := range payloads {
		require.NoError(t, WriteFrame(&buf, payload))
	}

	for _, payload := range payloads {
		got, err := ReadFrame(&buf, MaxFrame)
		require.NoError(t, err)
		require.Equal(t, len(payload), len(got))
		if len(payload) > 0 {
			require.Equal(t, payload, got)
		}
	}
	require.Zero(t, buf.Len())
}

func TestReadFrameTooLargeLeavesBodyUnread(t *testing.T) {
	var buf bytes.Buffer
	body := []byte("this body must not be consumed")
	require.NoError(t, WriteFrame(&buf, body))

	_, err := ReadFrame(&buf, len(body)-1)
	require.ErrorIs(t, err, ErrFrameTooLarge)

	// Only the 4-byte header was consumed; the body is still pending.
	require.Equal(t, body, buf.Bytes())
}

func TestReadFrameShortHeader(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{0x01, 0x02}), MaxFrame)
	require.Error(t, err)
	require.Contains(t, err.Error(), "read frame header")
}

func TestReadFrameTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("full payload")))
	truncated := buf.Bytes()[:buf.Len()-3]

	_, err := ReadFrame(bytes.NewReader(truncated), MaxFrame)
	require.Error(t, err)
	require.Contains(t, err.Error(), "read frame payload")
}

func TestWriteFrameLittleEndianHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("abc")))
	require.Equal(t, []byte{0x03, 0x00, 0x00, 0x00, 'a', 'b', 'c'}, buf.Bytes())
}
