package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alecthomas/kong"
)

// CLI is the foodctl command tree.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`
	Server  string           `help:"Base URL of the server" default:"http://localhost:8082" env:"FOODCTL_SERVER"`
	Timeout time.Duration    `help:"HTTP timeout" default:"15s"`

	Send  SendCmd  `cmd:"send" help:"Post a simulated inbound WhatsApp message to the webhook"`
	Start StartCmd `cmd:"start" help:"Open a fresh ordering conversation for a phone number"`
}

func (c *CLI) client() *http.Client {
	return &http.Client{Timeout: c.Timeout}
}

func (c *CLI) endpoint(path string) string {
	return strings.TrimSuffix(c.Server, "/") + path
}

// SendCmd plays the provider side of the webhook.
type SendCmd struct {
	From   string `arg:"" help:"Sender phone number"`
	Body   string `arg:"" help:"Message text"`
	Button string `help:"Send as a button reply with this payload instead of a typed message"`
}

func (s *SendCmd) Run(cli *CLI) error {
	form := url.Values{}
	form.Set("From", "whatsapp:+91"+strings.TrimPrefix(s.From, "+91"))
	form.Set("MessageSid", fmt.Sprintf("cli_%d", time.Now().UnixMilli()))
	if s.Button != "" {
		form.Set("ButtonPayload", s.Button)
	} else {
		form.Set("Body", s.Body)
	}

	resp, err := cli.client().PostForm(cli.endpoint("/whatsapp/webhook"), form)
	if err != nil {
		return fmt.Errorf("failed to reach webhook: %w", err)
	}
	return printResponse(resp)
}

// StartCmd calls the start-order endpoint.
type StartCmd struct {
	Phone string `arg:"" help:"Customer phone number"`
}

func (s *StartCmd) Run(cli *CLI) error {
	payload, err := json.Marshal(map[string]string{"phone": s.Phone})
	if err != nil {
		return err
	}

	resp, err := cli.client().Post(cli.endpoint("/whatsapp/start-order"), "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to reach server: %w", err)
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	fmt.Printf("%s\n%s\n", resp.Status, strings.TrimSpace(string(body)))
	if resp.StatusCode >= 400 {
		return fmt.Errorf("server answered %d", resp.StatusCode)
	}
	return nil
}
