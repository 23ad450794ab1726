// Manual smoke test against a running server:
//
//	go run integration_runner.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const baseURL = "http://localhost:8080"

func main() {
	fmt.Println("=== ProofMeet Backend Integration Test ===")

	// 1. Health
	fmt.Println("\n1. Checking health...")
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		log.Fatal("Health check failed:", err)
	}
	resp.Body.Close()
	fmt.Println("✓ Health endpoint working")

	// 2. Register a host
	fmt.Println("\n2. Registering host...")
	email := fmt.Sprintf("host-%d@example.com", time.Now().Unix())
	body := postJSON("/api/auth/register", map[string]any{
		"email":           email,
		"courtId":         "CA-HOST-001",
		"state":           "CA",
		"courtCaseNumber": "HOST-2024-001",
		"isHost":          true,
	})
	fmt.Printf("✓ Registered %s: %v\n", email, body["success"])

	// 3. Verify
	fmt.Println("\n3. Verifying host...")
	postJSON("/api/auth/verify", map[string]any{"email": email, "verified": true})
	fmt.Println("✓ Verified")

	// 4. Login
	fmt.Println("\n4. Logging in...")
	body = postJSON("/api/auth/login", map[string]any{"email": email, "password": "password123"})
	data, _ := body["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		log.Fatal("Login did not return a token:", body)
	}
	fmt.Println("✓ Got bearer token")

	// 5. Create a meeting (requires Zoom credentials on the server)
	fmt.Println("\n5. Creating meeting...")
	payload, _ := json.Marshal(map[string]any{
		"title":        "Weekly Check-in",
		"description":  "integration test meeting",
		"scheduledFor": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		"duration":     30,
	})
	req, _ := http.NewRequest(http.MethodPost, baseURL+"/api/meetings/create", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal("Create meeting failed:", err)
	}
	var meeting map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&meeting)
	resp.Body.Close()
	fmt.Printf("✓ Create meeting status %d: %v\n", resp.StatusCode, meeting)

	// 6. Webhook validation round-trip
	fmt.Println("\n6. Testing webhook validation...")
	body = postJSON("/api/webhooks/zoom", map[string]any{
		"event":   "endpoint.url_validation",
		"payload": map[string]any{"plainToken": "abc123"},
	})
	if body["plainToken"] != "abc123" {
		log.Fatal("Webhook validation did not echo plainToken:", body)
	}
	fmt.Println("✓ Webhook validation echo working")

	fmt.Println("\n=== Test Complete ===")
}

func postJSON(path string, payload map[string]any) map[string]any {
	data, _ := json.Marshal(payload)
	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		log.Fatalf("POST %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return body
}
