package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	receivedDate := time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)
	documentID := "4c9f9a1e-7d7a-4f2c-8a5e-9f0b1c2d3e4f"

	token := EncodeCursor(receivedDate, documentID)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedID, err := DecodeCursor(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.True(t, receivedDate.Equal(decodedDate), "Received date should match after decode")
	assert.Equal(t, documentID, decodedID, "Document ID should match after decode")
}

func TestEncodeDecodeCursor_NanosecondPrecision(t *testing.T) {
	receivedDate := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)
	token := EncodeCursor(receivedDate, "doc-1")
	decodedDate, decodedID, err := DecodeCursor(token)
	assert.NoError(t, err)
	assert.True(t, receivedDate.Equal(decodedDate), "Nanosecond precision should survive the round trip")
	assert.Equal(t, "doc-1", decodedID)
}

func TestDecodeCursorError(t *testing.T) {
	_, _, err := DecodeCursor("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	// Base64 of a date with no separator
	_, _, err = DecodeCursor("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err, "Should return an error for a token without a separator")
	assert.Contains(t, err.Error(), "split")

	// Base64 of "notadate|doc-1"
	_, _, err = DecodeCursor("bm90YWRhdGV8ZG9jLTE=")
	assert.Error(t, err, "Should return an error for an unparseable date")
	assert.Contains(t, err.Error(), "received date parse")
}

func TestEncodeDecodeIDToken(t *testing.T) {
	token := EncodeIDToken(98765)
	id, err := DecodeIDToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(98765), id)
}

func TestDecodeIDTokenError(t *testing.T) {
	_, err := DecodeIDToken("not base64!")
	assert.Error(t, err)

	// Base64 of "abc"
	_, err = DecodeIDToken("YWJj")
	assert.Error(t, err)
}
