package paapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

const (
	signingService   = "ProductAdvertisingAPI"
	signingAlgorithm = "AWS4-HMAC-SHA256"
)

// signRequest applies AWS Signature Version 4 to a PA-API request. PA-API
// signs exactly four headers (content-encoding, host, x-amz-date,
// x-amz-target), which keeps the canonical request small enough to build by
// hand.
func signRequest(req *http.Request, body []byte, cfg Config, path string, now time.Time) {
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")
	req.Header.Set("X-Amz-Date", amzDate)

	signedHeaders := "content-encoding;host;x-amz-date;x-amz-target"
	canonicalHeaders := strings.Join([]string{
		"content-encoding:" + req.Header.Get("Content-Encoding"),
		"host:" + cfg.Host,
		"x-amz-date:" + amzDate,
		"x-amz-target:" + req.Header.Get("X-Amz-Target"),
	}, "\n") + "\n"

	payloadHash := hexSHA256(body)
	canonicalRequest := strings.Join([]string{
		http.MethodPost,
		path,
		"", // no query string
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	credentialScope := strings.Join([]string{dateStamp, cfg.Region, signingService, "aws4_request"}, "/")
	stringToSign := strings.Join([]string{
		signingAlgorithm,
		amzDate,
		credentialScope,
		hexSHA256([]byte(canonicalRequest)),
	}, "\n")

	signingKey := hmacSHA256([]byte("AWS4"+cfg.SecretKey), dateStamp)
	signingKey = hmacSHA256(signingKey, cfg.Region)
	signingKey = hmacSHA256(signingKey, signingService)
	signingKey = hmacSHA256(signingKey, "aws4_request")
	signature := hex.EncodeToString(hmacSHA256(signingKey, stringToSign))

	req.Header.Set("Authorization", strings.Join([]string{
		signingAlgorithm + " Credential=" + cfg.AccessKey + "/" + credentialScope,
		"SignedHeaders=" + signedHeaders,
		"Signature=" + signature,
	}, ", "))
}

func hexSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
