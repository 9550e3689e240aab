package marketplace

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// signHMAC computes HMAC-SHA256 of body keyed with secret
func signHMAC(body []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// SignBase64 returns the base64 HMAC-SHA256 signature used by Shopify and WooCommerce
func SignBase64(body []byte, secret string) string {
	return base64.StdEncoding.EncodeToString(signHMAC(body, secret))
}

// SignHex returns the hex HMAC-SHA256 signature used by BigCommerce
func SignHex(body []byte, secret string) string {
	return hex.EncodeToString(signHMAC(body, secret))
}

// equalConstantTime compares two strings without leaking where they differ.
// Missing values never match.
func equalConstantTime(expected, supplied string) bool {
	if expected == "" || supplied == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}

func verifyBase64(body []byte, supplied, secret string) bool {
	if supplied == "" || secret == "" {
		return false
	}
	return hmac.Equal([]byte(SignBase64(body, secret)), []byte(supplied))
}

func verifyHex(body []byte, supplied, secret string) bool {
	if supplied == "" || secret == "" {
		return false
	}
	return hmac.Equal([]byte(SignHex(body, secret)), []byte(supplied))
}
