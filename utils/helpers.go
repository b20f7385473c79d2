package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// spaceRegex matches any run of whitespace, including non-breaking spaces.
var spaceRegex = regexp.MustCompile(`[\s\x{00A0}]+`)

// CollapseSpace trims s and replaces every whitespace run with a single space.
// Catalog cards often put the name and a line break with a count in one node.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

// IsAbsoluteHTTPURL reports whether raw is an absolute http or https URL.
func IsAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ResolveURL resolves href against base. It returns "" when href cannot be
// parsed or does not resolve to an http(s) URL.
func ResolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	return abs.String()
}

// backgroundURLRegex pulls the first url(...) out of an inline style.
var backgroundURLRegex = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)

// BackgroundImageURL returns the first url() in a CSS style attribute.
func BackgroundImageURL(style string) string {
	m := backgroundURLRegex.FindStringSubmatch(style)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
