package customer

import (
	"sort"
	"strings"
)

// Metadata is stored as pipe-joined key:value pairs, tags comma-joined,
// matching the flat storage layout.

func joinMetadata(md map[string]string) string {
	if len(md) == 0 {
		return ""
	}

	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	// stable order keeps the column deterministic
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+":"+md[k])
	}

	return strings.Join(pairs, "|")
}

func splitMetadata(s string) map[string]string {
	if s == "" {
		return nil
	}

	md := make(map[string]string)
	for _, pair := range strings.Split(s, "|") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		md[k] = v
	}

	return md
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
