package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/cvlab-ar/cvgen-service/internal/submission"
)

// DecodeSubmissionCursor parses an opaque pagination cursor. An empty
// string means "first page" and decodes to nil.
func DecodeSubmissionCursor(cursorStr string) (*submission.Cursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(string(decoded), "|")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var createdAt int64
	if _, err := fmt.Sscanf(parts[0], "%d", &createdAt); err != nil {
		return nil, fmt.Errorf("invalid createdAt in cursor: %w", err)
	}

	return &submission.Cursor{
		CreatedAt: time.Unix(0, createdAt),
		ID:        parts[1],
	}, nil
}

// EncodeSubmissionCursor renders a cursor as an opaque base64 token.
func EncodeSubmissionCursor(cursor *submission.Cursor) string {
	cs := fmt.Sprintf("%d|%s", cursor.CreatedAt.UnixNano(), cursor.ID)
	return base64.StdEncoding.EncodeToString([]byte(cs))
}
