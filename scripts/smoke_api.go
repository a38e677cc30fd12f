package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // LLM turns can be slow, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func show(body []byte) {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		fmt.Println(string(body))
		return
	}
	prettyPrint(parsed)
}

func main() {
	color.Cyan("🚀 Starting Assistant API Smoke Test\n")

	// 1. Create a session
	color.Yellow("\n[SESSION] 1. Create Session")
	resp, body, err := sendRequest("POST", "/session/v1", map[string]interface{}{
		"session_id": "smoke_test",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// 2. Seed the knowledge base
	color.Yellow("\n[KNOWLEDGE] 2. Add Text")
	resp, body, err = sendRequest("POST", "/knowledge/v1/text", map[string]interface{}{
		"text":   "The capital of France is Paris. The Eiffel Tower is 330 metres tall.",
		"source": "smoke_facts",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// 3. Query it back
	color.Yellow("\n[KNOWLEDGE] 3. Query")
	resp, body, err = sendRequest("POST", "/knowledge/v1/query", map[string]interface{}{
		"query": "How tall is the Eiffel Tower?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// 4. Collection info
	color.Yellow("\n[KNOWLEDGE] 4. Info")
	resp, body, err = sendRequest("GET", "/knowledge/v1/info", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// 5. Full chat turn (requires a live LLM backend; rate limit applies)
	color.Yellow("\n[CHAT] 5. Send Message")
	resp, body, err = sendRequest("POST", "/chat/v1/send", map[string]interface{}{
		"session_id": "smoke_test",
		"message":    "In one sentence, how tall is the Eiffel Tower?",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// 6. Session history
	color.Yellow("\n[SESSION] 6. History")
	resp, body, err = sendRequest("GET", "/session/v1/smoke_test/history", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// 7. Model catalog
	color.Yellow("\n[MODEL] 7. List Chat Models")
	resp, body, err = sendRequest("GET", "/model/v1/chat", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	show(body)

	// 8. Cleanup
	color.Yellow("\n[SESSION] 8. Delete Session")
	resp, _, err = sendRequest("DELETE", "/session/v1/smoke_test", nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	color.Cyan("\n✅ Smoke test finished")
}
