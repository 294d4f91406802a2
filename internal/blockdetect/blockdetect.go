package blockdetect

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/hireops/scout/internal/audit"
)

// Detector inspects a fetch record and reports whether the source served a
// block or challenge page instead of real content.
type Detector func(rec *audit.Record) (blocked bool, source string)

// Default returns the detectors applied to every HTML fetch. Job boards
// tend to front their resume sections with Cloudflare or a plain captcha
// interstitial once a crawler gets noisy.
func Default() []Detector {
	return []Detector{
		detectCloudflare,
		detectRateLimit,
		detectCaptcha,
	}
}

// Analyze runs the record through the detectors and marks it in place.
// A blocked page degrades exactly like a transport failure downstream.
func Analyze(rec *audit.Record, detectors []Detector) bool {
	if rec == nil {
		return false
	}
	for _, d := range detectors {
		if blocked, source := d(rec); blocked {
			rec.Blocked = true
			rec.BlockSource = source
			return true
		}
	}
	rec.Blocked = false
	rec.BlockSource = ""
	return false
}

func header(headers map[string][]string, key string) string {
	if vals, ok := headers[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	lower := strings.ToLower(key)
	for k, vals := range headers {
		if strings.ToLower(k) == lower && len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}

func detectCloudflare(rec *audit.Record) (bool, string) {
	if rec.StatusCode != http.StatusForbidden && rec.StatusCode != http.StatusServiceUnavailable {
		return false, ""
	}

	if strings.Contains(strings.ToLower(header(rec.Headers, "Server")), "cloudflare") {
		return true, "Cloudflare"
	}

	if bytes.Contains(rec.Body, []byte("cf-browser-verification")) ||
		bytes.Contains(rec.Body, []byte("cf-turnstile")) ||
		bytes.Contains(rec.Body, []byte("Attention Required! | Cloudflare")) {
		return true, "Cloudflare"
	}

	return false, ""
}

func detectRateLimit(rec *audit.Record) (bool, string) {
	if rec.StatusCode == http.StatusTooManyRequests {
		return true, "RateLimit"
	}
	return false, ""
}

func detectCaptcha(rec *audit.Record) (bool, string) {
	if rec.StatusCode < 200 || rec.StatusCode > 299 {
		if bytes.Contains(rec.Body, []byte("g-recaptcha")) ||
			bytes.Contains(rec.Body, []byte("hcaptcha.com")) {
			return true, "Captcha"
		}
	}
	return false, ""
}
