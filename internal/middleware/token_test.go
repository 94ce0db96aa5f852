// token_test.go — Unit tests for download token generation and parsing.
package middleware

import (
	"testing"
	"time"
)

const testSecret = "test-secret-not-for-production"

func TestDownloadTokenRoundTrip(t *testing.T) {
	extractionID := "3f1c2a44-9c1e-4f7a-8a2b-0d5e6f7a8b9c"

	token, expiresAt, err := GenerateDownloadToken(extractionID, testSecret)
	if err != nil {
		t.Fatalf("GenerateDownloadToken returned error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateDownloadToken returned empty token")
	}

	// Expiry should be roughly now + TTL
	wantExpiry := time.Now().Add(DownloadTokenTTL)
	if diff := expiresAt.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiresAt = %v, want within a minute of %v", expiresAt, wantExpiry)
	}

	claims, err := ParseDownloadToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseDownloadToken returned error: %v", err)
	}
	if claims.ExtractionID != extractionID {
		t.Errorf("ExtractionID = %q, want %q", claims.ExtractionID, extractionID)
	}
}

func TestParseDownloadTokenRejections(t *testing.T) {
	token, _, err := GenerateDownloadToken("some-extraction", testSecret)
	if err != nil {
		t.Fatalf("GenerateDownloadToken returned error: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: token, secret: "a-different-secret"},
		{name: "garbage token", token: "not.a.jwt", secret: testSecret},
		{name: "empty token", token: "", secret: testSecret},
		{name: "tampered token", token: token + "x", secret: testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDownloadToken(tt.token, tt.secret); err == nil {
				t.Error("ParseDownloadToken accepted an invalid token")
			}
		})
	}
}
