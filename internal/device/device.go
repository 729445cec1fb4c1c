// Package device derives display labels and coarse fingerprints from
// User-Agent strings for audit events.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mssola/useragent"
)

// Service computes fingerprints. A disabled service returns empty values so
// deployments can opt out of storing them.
type Service struct {
	enabled bool
}

func NewService(enabled bool) *Service {
	return &Service{enabled: enabled}
}

// ParseUserAgent returns "<browser> on <os>" for display.
func ParseUserAgent(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown Device"
	}
	ua := useragent.New(userAgent)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	os := ua.OS()
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(fmt.Sprintf("%s on %s", browser, os))
}

// ComputeFingerprint hashes the stable parts of a User-Agent: browser name,
// browser major version, OS and platform. Minor browser updates keep the
// same fingerprint.
func (s *Service) ComputeFingerprint(userAgent string) string {
	if s == nil || !s.enabled || userAgent == "" {
		return ""
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	major, _, _ := strings.Cut(version, ".")

	sum := sha256.Sum256([]byte(strings.Join([]string{
		name, major, ua.OS(), ua.Platform(), fmt.Sprint(ua.Mobile()),
	}, "|")))
	return hex.EncodeToString(sum[:])
}
