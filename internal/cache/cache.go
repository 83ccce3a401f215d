// Package cache stores generation results for repeated identical requests.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/testgen/api/internal/models"
)

const keyPrefix = "testgen:"

// Cache stores generation results by key. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) (*models.GenerationResult, bool, error)
	Set(ctx context.Context, key string, result *models.GenerationResult) error
	Ping(ctx context.Context) error
}

// Key derives the cache key for a request served by model.
func Key(req models.GenerationRequest, model string) string {
	// json keeps field boundaries unambiguous
	payload, _ := json.Marshal(struct {
		Model string `json:"model"`
		models.GenerationRequest
	}{model, req})
	sum := sha256.Sum256(payload)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Nop never stores anything.
type Nop struct{}

var _ Cache = Nop{}

func (Nop) Get(context.Context, string) (*models.GenerationResult, bool, error) {
	return nil, false, nil
}

func (Nop) Set(context.Context, string, *models.GenerationResult) error { return nil }

func (Nop) Ping(context.Context) error { return nil }
