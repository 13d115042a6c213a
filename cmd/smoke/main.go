// Command smoke walks every API route against a locally running server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const baseURL = "http://localhost:8080"

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	userID := "smoke-user"

	checkEndpoint("GET", "/health", nil, 200)

	stockID := firstStockID()
	fmt.Printf("Using stock ID: %s\n", stockID)

	buy := map[string]any{"user_id": userID, "stock_id": stockID, "side": "buy", "quantity": 2}
	checkEndpoint("POST", "/trade", buy, 201)

	checkEndpoint("GET", "/portfolio/"+userID, nil, 200)
	checkEndpoint("GET", "/transactions/"+userID, nil, 200)
	checkEndpoint("POST", "/simulate-prices", nil, 200)

	sell := map[string]any{"user_id": userID, "stock_id": stockID, "side": "sell", "quantity": 2}
	checkEndpoint("POST", "/trade", sell, 201)

	oversell := map[string]any{"user_id": userID, "stock_id": stockID, "side": "sell", "quantity": 999}
	checkEndpoint("POST", "/trade", oversell, 422)

	fmt.Println("Smoke test passed")
}

func firstStockID() string {
	resp, err := http.Get(baseURL + "/stocks")
	if err != nil {
		log.Fatalf("GET /stocks failed: %v", err)
	}
	defer resp.Body.Close()

	var stocks []struct {
		ID     string `json:"id"`
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stocks); err != nil {
		log.Fatalf("decode stocks failed: %v", err)
	}
	if len(stocks) == 0 {
		log.Fatal("no stocks seeded")
	}
	return stocks[0].ID
}

func checkEndpoint(method, path string, body any, wantStatus int) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			log.Fatalf("marshal body for %s %s: %v", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		log.Fatalf("build request %s %s: %v", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		log.Fatalf("%s %s: expected %d, got %d: %s", method, path, wantStatus, resp.StatusCode, payload)
	}
	fmt.Printf("%s %s -> %d OK\n", method, path, resp.StatusCode)
}
