package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Receipt backends selectable through RECEIPT_BACKEND.
const (
	ReceiptBackendKV = "kv"
	ReceiptBackendS3 = "s3"
)

// S3 holds object-storage settings for the s3 receipt backend.
type S3 struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Config captures everything the server needs from the environment.
type Config struct {
	Addr     string
	RedisURL string

	// AdminKey is the shared secret for the admin surface. Empty means
	// the admin gate fails closed and every admin route answers 404.
	AdminKey string

	ReceiptBackend string
	S3             S3

	// PIXKey is the payment key shown on the payment page.
	PIXKey string

	// StoreTimeout bounds each round-trip to the KV store.
	StoreTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var c Config

	c.Addr = strings.TrimSpace(os.Getenv("CAMP_ADDR"))
	if c.Addr == "" {
		c.Addr = ":8080"
	}

	c.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	if c.RedisURL == "" {
		return c, fmt.Errorf("REDIS_URL is empty")
	}

	c.AdminKey = os.Getenv("ADMIN_KEY")

	c.ReceiptBackend = strings.TrimSpace(os.Getenv("RECEIPT_BACKEND"))
	if c.ReceiptBackend == "" {
		c.ReceiptBackend = ReceiptBackendKV
	}
	switch c.ReceiptBackend {
	case ReceiptBackendKV, ReceiptBackendS3:
	default:
		return c, fmt.Errorf("RECEIPT_BACKEND must be %q or %q, got %q",
			ReceiptBackendKV, ReceiptBackendS3, c.ReceiptBackend)
	}

	if c.ReceiptBackend == ReceiptBackendS3 {
		c.S3 = S3{
			Endpoint:  strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			AccessKey: strings.TrimSpace(os.Getenv("S3_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("S3_SECRET_KEY")),
			Bucket:    strings.TrimSpace(os.Getenv("S3_BUCKET")),
			UseSSL:    os.Getenv("S3_USE_SSL") == "true",
		}
		if c.S3.Endpoint == "" || c.S3.Bucket == "" {
			return c, fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required when RECEIPT_BACKEND=s3")
		}
	}

	c.PIXKey = strings.TrimSpace(os.Getenv("PIX_KEY"))

	c.StoreTimeout = 5 * time.Second

	return c, nil
}
