// Package pagination implements opaque cursor tokens for keyset pagination.
// Tokens are base64 over pipe-joined fields; clients must treat them as
// opaque.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeCursor creates a token from a document's received date and ID. Lists
// ordered by (received_date DESC, document_id DESC) resume from this pair.
func EncodeCursor(receivedDate time.Time, documentID string) string {
	tokenStr := fmt.Sprintf("%s|%s", receivedDate.Format(timeFormat), documentID)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeCursor parses a token back into the received date and document ID.
func DecodeCursor(token string) (time.Time, string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	receivedDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (received date parse): %w", err)
	}

	return receivedDate, parts[1], nil
}

// EncodeIDToken creates a token for lists keyed by a single serial ID, such as
// the activity log.
func EncodeIDToken(id int64) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%d", id)))
}

// DecodeIDToken parses a single-ID token.
func DecodeIDToken(token string) (int64, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	var id int64
	if _, err := fmt.Sscanf(string(decodedBytes), "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid pagination token format (id parse): %w", err)
	}
	return id, nil
}
