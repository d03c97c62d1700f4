package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000"

// Simplified webhook payload builders for the script
type payload struct {
	Object string  `json:"object"`
	Entry  []entry `json:"entry"`
}

type entry struct {
	Id        string      `json:"id"`
	Time      int64       `json:"time"`
	Changes   []change    `json:"changes,omitempty"`
	Messaging []messaging `json:"messaging,omitempty"`
}

type change struct {
	Field string      `json:"field"`
	Value changeValue `json:"value"`
}

type changeValue struct {
	Id   string `json:"id"`
	Verb string `json:"verb"`
	Text string `json:"text"`
	From from   `json:"from"`
}

type from struct {
	Id       string `json:"id"`
	Username string `json:"username"`
}

type messaging struct {
	Sender    from    `json:"sender"`
	Recipient from    `json:"recipient"`
	Timestamp int64   `json:"timestamp"`
	Message   message `json:"message"`
}

type message struct {
	Mid    string `json:"mid"`
	Text   string `json:"text"`
	IsEcho bool   `json:"is_echo"`
}

func main() {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Println(cyan("=== Engagement Webhook Simulation ==="))

	verifyToken := os.Getenv("IG_VERIFY_TOKEN")
	if verifyToken == "" {
		log.Fatal("IG_VERIFY_TOKEN is not set")
	}

	// 1. Handshake
	status, body := verify(verifyToken)
	if status == http.StatusOK {
		fmt.Printf("%s handshake verified, challenge echoed: %s\n", green("OK"), body)
	} else {
		fmt.Printf("%s handshake rejected (status %d)\n", red("FAIL"), status)
		os.Exit(1)
	}

	now := time.Now().Unix()

	// 2. A burst of comments, some matching rules, one from a non-follower
	comments := []changeValue{
		{Id: "c-1001", Verb: "add", Text: "What's the PRICE on this?", From: from{Id: "u-1", Username: "curious_carl"}},
		{Id: "c-1002", Verb: "add", Text: "love this post!", From: from{Id: "u-2", Username: "fan_account"}},
		{Id: "c-1003", Verb: "add", Text: "price please 🙏", From: from{Id: "u-3", Username: "bargain_hunter"}},
		{Id: "c-1004", Verb: "add", Text: "can you SHIP to Canada?", From: from{Id: "u-4", Username: "maple_leaf"}},
	}

	for _, c := range comments {
		p := payload{
			Object: "instagram",
			Entry:  []entry{{Id: "page-1", Time: now, Changes: []change{{Field: "comments", Value: c}}}},
		}
		status, body := deliver(p)
		fmt.Printf("comment %q -> %d %s\n", c.Text, status, body)
	}

	// 3. A direct message that should get a drafted reply
	dm := payload{
		Object: "instagram",
		Entry: []entry{{
			Id:   "page-1",
			Time: now,
			Messaging: []messaging{{
				Sender:    from{Id: "u-5"},
				Recipient: from{Id: "page-1"},
				Timestamp: now,
				Message:   message{Mid: "m-2001", Text: "Do you have a size chart?"},
			}},
		}},
	}
	status, body = deliver(dm)
	fmt.Printf("dm -> %d %s\n", status, body)

	// 4. An unknown object must 404
	status, _ = deliver(payload{Object: "whatsapp"})
	if status == http.StatusNotFound {
		fmt.Printf("%s unknown object rejected with 404\n", green("OK"))
	} else {
		fmt.Printf("%s unknown object got %d, expected 404\n", red("FAIL"), status)
	}

	fmt.Println(cyan("=== Done ==="))
}

func verify(token string) (int, string) {
	q := url.Values{}
	q.Set("hub.mode", "subscribe")
	q.Set("hub.verify_token", token)
	q.Set("hub.challenge", "sim-challenge-42")

	resp, err := http.Get(baseURL + "/webhook?" + q.Encode())
	if err != nil {
		log.Fatalf("GET /webhook failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func deliver(p payload) (int, string) {
	raw, err := json.Marshal(p)
	if err != nil {
		log.Fatalf("marshal payload: %v", err)
	}

	resp, err := http.Post(baseURL+"/webhook", "application/json", bytes.NewReader(raw))
	if err != nil {
		log.Fatalf("POST /webhook failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}
