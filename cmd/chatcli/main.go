// Package main provides an interactive chat surface for the scheduling
// assistant. It talks to the HTTP server so local and deployed instances
// behave identically.
//
// Usage:
//
//	go run cmd/chatcli/main.go -server http://localhost:8080
//
// Type a message and press enter; "/history" shows recent turns, "exit" quits.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

type historyResponse struct {
	Turns []struct {
		UserMessage string    `json:"user_message"`
		Reply       string    `json:"reply"`
		CreatedAt   time.Time `json:"created_at"`
	} `json:"turns"`
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "TailorTalk server base URL")
	flag.Parse()

	client := &http.Client{Timeout: 90 * time.Second}

	fmt.Println("TailorTalk scheduling assistant. Type a message, \"/history\", or \"exit\".")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if line == "/history" {
			printHistory(client, *serverURL)
			continue
		}

		reply, err := sendChat(client, *serverURL, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Println(reply)
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Input error: %v\n", err)
		os.Exit(1)
	}
}

func sendChat(client *http.Client, serverURL, message string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(serverURL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server error (status %d): %s", resp.StatusCode, parsed.Error)
	}

	return parsed.Response, nil
}

func printHistory(client *http.Client, serverURL string) {
	resp, err := client.Get(serverURL + "/api/history?limit=10")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to reach server: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Error: history unavailable (status %d)\n", resp.StatusCode)
		return
	}

	var parsed historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to decode history: %v\n", err)
		return
	}

	if len(parsed.Turns) == 0 {
		fmt.Println("No history yet.")
		return
	}
	// Newest first from the API; show oldest first for reading order.
	for i := len(parsed.Turns) - 1; i >= 0; i-- {
		turn := parsed.Turns[i]
		fmt.Printf("[%s] you: %s\n", turn.CreatedAt.Format("Jan 2 15:04"), turn.UserMessage)
		fmt.Printf("%s\n", indent(turn.Reply))
	}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
