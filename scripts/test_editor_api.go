package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Demo credentials from cmd/seed
const (
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
)

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
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout; assist runs can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func dataField(body []byte, key string) string {
	var parsed map[string]interface{}
	json.Unmarshal(body, &parsed)
	if data, ok := parsed["data"].(map[string]interface{}); ok {
		if v, ok := data[key].(string); ok {
			return v
		}
	}
	return ""
}

func main() {
	color.Cyan("🚀 Starting Editor & Assist API Test\n")

	// 1. Login as the seeded demo user
	color.Yellow("\n[AUTH] 1. Login")
	resp, body, err := sendRequest("POST", "/auth/login", "", map[string]interface{}{
		"email":    demoEmail,
		"password": demoPassword,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	token := dataField(body, "access_token")
	if token == "" {
		color.Red("No access token returned. Did you run cmd/seed?")
		os.Exit(1)
	}

	// 2. Create a scratch document
	color.Yellow("\n[DOCUMENT] 2. Create Scratch Document")
	resp, body, err = sendRequest("POST", "/document/v1", token, map[string]interface{}{
		"title": fmt.Sprintf("API Test %d", time.Now().Unix()),
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	docID := dataField(body, "id")
	fmt.Printf("Document ID: %s\n", docID)

	// 3. Open an editor session
	color.Yellow("\n[EDITOR] 3. Open Session")
	resp, body, err = sendRequest("POST", "/editor/v1/session", token, map[string]interface{}{
		"document_id": docID,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	sessionID := dataField(body, "session_id")
	if sessionID == "" {
		color.Red("No session ID returned")
		os.Exit(1)
	}
	fmt.Printf("Session ID: %s\n", sessionID)

	// 4. Type some text and select part of it
	color.Yellow("\n[EDITOR] 4. Apply Edits (type + select)")
	draft := "The report was written by the team in a hurried manner and it was containing several mistakes that were not caught."
	resp, body, err = sendRequest("POST", "/editor/v1/session/"+sessionID+"/edits", token, map[string]interface{}{
		"ops": []map[string]interface{}{
			{"type": "replace_range", "from": 0, "to": 0, "text": draft},
			{"type": "set_selection", "start": 0, "end": len(draft)},
		},
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var editResp map[string]interface{}
	json.Unmarshal(body, &editResp)
	prettyPrint(editResp)

	// 5. Run the improve action over the selection
	color.Yellow("\n[ASSIST] 5. Run 'improve' Over Selection")
	resp, body, err = sendRequest("POST", "/editor/v1/session/"+sessionID+"/assist", token, map[string]interface{}{
		"action": "improve",
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 6. Poll session state until the run finishes
	color.Yellow("\n[EDITOR] 6. Poll Session State")
	for i := 0; i < 30; i++ {
		time.Sleep(2 * time.Second)
		resp, body, err = sendRequest("GET", "/editor/v1/session/"+sessionID, token, nil)
		if err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
		var stateResp map[string]interface{}
		json.Unmarshal(body, &stateResp)
		data, _ := stateResp["data"].(map[string]interface{})
		active, _ := data["active"].(bool)
		inserted, _ := data["inserted_len"].(float64)
		fmt.Printf("Poll %d: active=%v inserted=%d\n", i+1, active, int(inserted))
		if !active && i > 0 {
			if text, ok := data["text"].(string); ok {
				color.Green("Final text:")
				fmt.Println(text)
			}
			if lastErr, ok := data["last_error"].(string); ok && lastErr != "" {
				color.Red("Run ended with error: %s", lastErr)
			}
			break
		}
	}

	// 7. Close the session (persists the buffer)
	color.Yellow("\n[EDITOR] 7. Close Session")
	resp, body, err = sendRequest("DELETE", "/editor/v1/session/"+sessionID, token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	// 8. Export the document as markdown
	color.Yellow("\n[DOCUMENT] 8. Export Markdown")
	resp, body, err = sendRequest("GET", "/document/v1/"+docID+"/export", token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	fmt.Println(string(body))

	// 9. Cleanup
	color.Yellow("\n[DOCUMENT] 9. Cleanup: Delete Scratch Document")
	resp, body, err = sendRequest("DELETE", "/document/v1/"+docID, token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
	} else {
		color.Green("Status: %s", resp.Status)
		var deleteResp map[string]interface{}
		json.Unmarshal(body, &deleteResp)
		prettyPrint(deleteResp)
	}

	color.Cyan("\n✅ Test Sequence Complete")
}
