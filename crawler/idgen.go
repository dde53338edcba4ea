package crawler

import (
	"net/url"
	"strings"

	"github.com/vozlytics/vozlytics/utils"
)

// ExtractThreadId returns the last dot-delimited segment of the thread URL
// path, which is the site's numeric thread identifier. Returns "" when the
// path has no dot-delimited segment.
func ExtractThreadId(threadUrl string) string {
	parsed, err := url.Parse(threadUrl)
	if err != nil {
		return ""
	}
	parts := strings.Split(parsed.Path, ".")
	if len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return ""
}

// GenerateItemId derives the stable id for a (thread, reply) pair as the md5
// hex digest of "<threadId>_<postTime>". Identical inputs always produce the
// identical id, which is what makes re-ingestion an idempotent upsert.
// Returns ok=false when either part is missing; the caller must drop the
// item instead of storing it without a stable key.
func GenerateItemId(threadUrl string, postTime string) (id string, ok bool) {
	threadId := ExtractThreadId(threadUrl)
	if threadId == "" || postTime == "" {
		return "", false
	}
	return utils.TextToMd5Hash(threadId + "_" + postTime), true
}
