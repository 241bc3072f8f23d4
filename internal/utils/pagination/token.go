package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// EncodeDateToken creates an opaque keyset token for price history pages.
// The token is bound to the currency it was issued for.
func EncodeDateToken(currencyCode string, lastDate time.Time) string {
	tokenStr := fmt.Sprintf("%s|%s", currencyCode, lastDate.Format(dateFormat))
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeDateToken parses a token produced by EncodeDateToken and returns the
// last date of the previous page. The token must belong to currencyCode.
func DecodeDateToken(token string, currencyCode string) (time.Time, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid pagination token format (split)")
	}
	if parts[0] != currencyCode {
		return time.Time{}, fmt.Errorf("pagination token was issued for %s, not %s", parts[0], currencyCode)
	}

	date, err := time.Parse(dateFormat, parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	return date, nil
}
