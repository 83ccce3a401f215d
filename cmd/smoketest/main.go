// Command smoketest exercises a running testgen API: it checks /health and
// requests tests for a small Python snippet.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/testgen/api/internal/models"
)

const sampleCode = `def fibonacci(n):
    if n < 0:
        raise ValueError("n must be non-negative")
    a, b = 0, 1
    for _ in range(n):
        a, b = b, a + b
    return a
`

func main() {
	baseURL := flag.String("url", envOr("TESTGEN_URL", "http://localhost:8000"), "base URL of the API")
	timeout := flag.Duration("timeout", 60*time.Second, "request timeout")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}

	log.Println("Checking /health...")
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		log.Fatalf("Health request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Expected 200 from /health, got %d. Body: %s", resp.StatusCode, body)
	}
	log.Printf("Health: %s", bytes.TrimSpace(body))

	log.Println("Calling /api/generate-tests...")
	payload, _ := json.Marshal(models.GenerationRequest{
		Code:      sampleCode,
		Language:  "python",
		Framework: "pytest",
	})

	start := time.Now()
	resp, err = client.Post(*baseURL+"/api/generate-tests", "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Detail string `json:"detail"`
		}
		json.NewDecoder(resp.Body).Decode(&e)
		log.Fatalf("Expected 200 OK, got %d. Detail: %s", resp.StatusCode, e.Detail)
	}

	var result models.GenerationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatalf("Failed to decode response: %v", err)
	}

	coverage := "n/a"
	if result.Coverage != nil {
		coverage = fmt.Sprintf("%d%%", *result.Coverage)
	}
	log.Printf("SUCCESS: status=%s coverage=%s latency=%s", result.Status, coverage, time.Since(start).Round(time.Millisecond))
	fmt.Println(result.Tests)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
