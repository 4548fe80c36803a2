package app

import (
	"net/url"
	"strings"
)

const binaryParametersKey = "binary_parameters"

// normalizeDBURL turns on lib/pq binary parameters unless the URL sets them.
// Binary parameters skip the unnamed prepare round trip, which breaks behind
// transaction-pooling proxies.
func normalizeDBURL(raw string, binaryParameters bool) string {
	if !binaryParameters {
		return raw
	}

	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return appendKeyValueDSN(trimmed)
	}

	query := parsed.Query()
	if query.Get(binaryParametersKey) == "" {
		query.Set(binaryParametersKey, "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

func appendKeyValueDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	for _, token := range strings.Fields(dsn) {
		if strings.HasPrefix(token, binaryParametersKey+"=") {
			return dsn
		}
	}
	return dsn + " " + binaryParametersKey + "=yes"
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
