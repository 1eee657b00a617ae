package classify

import (
	"path/filepath"
	"regexp"
	"strings"
)

// suspiciousNames are basenames that commonly hold credentials.
var suspiciousNames = map[string]bool{
	".env":        true,
	".npmrc":      true,
	".netrc":      true,
	".pgpass":     true,
	"credentials": true,
	"secrets":     true,
	"id_rsa":      true,
	"id_dsa":      true,
	"id_ecdsa":    true,
	"id_ed25519":  true,
}

// suspiciousExtensions are extensions that usually wrap key material.
var suspiciousExtensions = map[string]bool{
	".pem": true,
	".key": true,
	".p12": true,
	".pfx": true,
	".jks": true,
	".kdb": true,
	".ppk": true,
}

// secretContentPatterns flag content that looks like embedded credentials.
var secretContentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP |ENCRYPTED )?PRIVATE KEY(?: BLOCK)?-----`),
	regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
	regexp.MustCompile(`\bghp_[A-Za-z0-9]{36}\b`),
	regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9_]{22,}\b`),
	regexp.MustCompile(`\bsk-[A-Za-z0-9]{32,}\b`),
	regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`),
	regexp.MustCompile(`(?i)\b(?:api[_-]?key|secret[_-]?key|access[_-]?token|auth[_-]?token|password|passwd)\b\s*[:=]\s*["'][^"'\s]{12,}["']`),
}

// IsSuspiciousName reports whether the path's name alone marks the file as
// likely to contain secrets.
func IsSuspiciousName(path string) bool {
	base := strings.ToLower(filepath.Base(path))

	if suspiciousNames[base] {
		return true
	}
	// .env variants such as .env.local or .env.production, but not the
	// committed template files.
	if strings.HasPrefix(base, ".env.") && base != ".env.example" && base != ".env.sample" {
		return true
	}
	return suspiciousExtensions[filepath.Ext(base)]
}

// IsSuspiciousContent scans a text sample for credential-like material.
func IsSuspiciousContent(sample []byte) bool {
	for _, re := range secretContentPatterns {
		if re.Match(sample) {
			return true
		}
	}
	return false
}

// IsSuspicious combines the name and content heuristics; content may be
// nil when only the name is available.
func IsSuspicious(path string, sample []byte) bool {
	if IsSuspiciousName(path) {
		return true
	}
	if len(sample) == 0 {
		return false
	}
	return IsSuspiciousContent(sample)
}
