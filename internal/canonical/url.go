package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Query parameters that never change which article a link points at.
var trackingQueryKeys = map[string]struct{}{
	"mc_cid": {},
	"mc_eid": {},
	"ref":    {},
	"fbclid": {},
	"gclid":  {},
	"igshid": {},
}

// Canonicalize reduces a link to the stable form used as the dedup key:
// lowercased scheme and host, no fragment, tracking parameters removed, empty
// query collapsed, trailing slashes stripped. Unparsable input falls back
// to the trimmed raw string; the function never fails. Canonicalizing a
// canonical URL yields itself.
func Canonicalize(link string) string {
	trimmed := strings.TrimSpace(link)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return trimmed
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	q := parsed.Query()
	for key := range q {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "utm_") {
			q.Del(key)
			continue
		}
		if _, ok := trackingQueryKeys[lower]; ok {
			q.Del(key)
		}
	}
	if len(q) > 0 {
		parsed.RawQuery = q.Encode()
	} else {
		parsed.RawQuery = ""
	}

	out := parsed.String()
	// TrimRight, not TrimSuffix: a doubled trailing slash must not survive
	// one pass only to change on the next, or the key is not stable.
	out = strings.TrimRight(out, "/")
	return out
}

// UnwrapRedirector extracts the destination from Google's redirect shims.
// Any other link passes through unchanged.
func UnwrapRedirector(link string) string {
	trimmed := strings.TrimSpace(link)
	if trimmed == "" {
		return trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	switch host {
	case "google.com":
		if parsed.Path != "/url" {
			return trimmed
		}
		if dest := firstQueryValue(parsed, "url", "q"); dest != "" {
			return dest
		}
	case "news.google.com":
		if !strings.Contains(parsed.Path, "/articles/") {
			return trimmed
		}
		if dest := firstQueryValue(parsed, "url"); dest != "" {
			return dest
		}
	}
	return trimmed
}

func firstQueryValue(u *url.URL, keys ...string) string {
	q := u.Query()
	for _, key := range keys {
		if value := strings.TrimSpace(q.Get(key)); value != "" {
			return value
		}
	}
	return ""
}

// ResolveItemLink picks the best link for a raw feed item: the explicit link
// when present, the GUID otherwise, with redirect shims unwrapped. YouTube
// items are normalized to the canonical watch URL whether they arrive as a
// yt:video GUID, a youtu.be short link, or a shorts/embed path.
func ResolveItemLink(link, guid string) string {
	resolved := strings.TrimSpace(link)
	if resolved == "" {
		resolved = strings.TrimSpace(guid)
	}
	resolved = UnwrapRedirector(resolved)

	if id := youtubeVideoID(resolved, guid); id != "" {
		return "https://www.youtube.com/watch?v=" + id
	}
	return resolved
}

func youtubeVideoID(resolved, guid string) string {
	parsed, err := url.Parse(resolved)
	if err != nil || parsed.Scheme == "" {
		if id, ok := strings.CutPrefix(strings.TrimSpace(guid), "yt:video:"); ok && id != "" {
			return id
		}
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if v := parsed.Query().Get("v"); v != "" {
			return v
		}
		if id, ok := strings.CutPrefix(parsed.Path, "/shorts/"); ok && id != "" {
			return strings.Trim(id, "/")
		}
		if id, ok := strings.CutPrefix(parsed.Path, "/embed/"); ok && id != "" {
			return strings.Trim(id, "/")
		}
	case "youtu.be":
		if id := strings.Trim(parsed.Path, "/"); id != "" {
			return id
		}
	}
	return ""
}

// DisplaySource is the human-readable outlet name: the link host without a
// leading www./amp. prefix, or the feed's own title when the host cannot be
// determined.
func DisplaySource(link, feedTitle string) string {
	parsed, err := url.Parse(strings.TrimSpace(link))
	if err != nil || parsed.Hostname() == "" {
		return strings.TrimSpace(feedTitle)
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "amp.")
	if host == "" {
		return strings.TrimSpace(feedTitle)
	}
	return host
}

// MentionID derives the stable record id from a canonical URL. Collisions are
// treated as identity.
func MentionID(canon string) string {
	hash := sha256.Sum256([]byte(canon))
	return hex.EncodeToString(hash[:])[:16]
}
