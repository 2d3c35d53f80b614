package utils

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// Sender delivers a recovery code to a phone number over one of two channels.
// Implementations are chosen at construction time: TwilioClient for production,
// SimulatedSender for development and tests.
type Sender interface {
	SendText(to, body string) error
	SendVoice(to, spoken string) error
}

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

type TwilioClient struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	client     *http.Client
}

func NewTwilioClient(accountSID, authToken, fromNumber string) *TwilioClient {
	return &TwilioClient{
		AccountSID: accountSID,
		AuthToken:  authToken,
		FromNumber: fromNumber,
		client:     &http.Client{},
	}
}

// SendText posts to the Messages endpoint. A 2xx means Twilio accepted the
// request, not that the handset received anything.
func (c *TwilioClient) SendText(to, body string) error {
	form := url.Values{
		"From": {c.FromNumber},
		"To":   {to},
		"Body": {body},
	}
	return c.post("Messages.json", form)
}

// SendVoice places a call that reads the message out loud via TwiML.
func (c *TwilioClient) SendVoice(to, spoken string) error {
	twiml := fmt.Sprintf(`<Response><Say voice="alice">%s</Say></Response>`, spoken)
	form := url.Values{
		"From":  {c.FromNumber},
		"To":    {to},
		"Twiml": {twiml},
	}
	return c.post("Calls.json", form)
}

func (c *TwilioClient) post(resource string, form url.Values) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/%s", twilioAPIBase, c.AccountSID, resource)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio %s: status=%d body=%s", resource, resp.StatusCode, string(respBody))
	}
	return nil
}

// SimulatedMessage is what a SimulatedSender would have sent.
type SimulatedMessage struct {
	To      string
	Body    string
	Channel string // "sms" | "voice"
}

// SimulatedSender never calls out; it records every message and always succeeds.
type SimulatedSender struct {
	Sent []SimulatedMessage
}

func NewSimulatedSender() *SimulatedSender { return &SimulatedSender{} }

func (s *SimulatedSender) SendText(to, body string) error {
	s.Sent = append(s.Sent, SimulatedMessage{To: to, Body: body, Channel: "sms"})
	log.Printf("[twilio][dry-run] sms to=%s text=%q", to, body)
	return nil
}

func (s *SimulatedSender) SendVoice(to, spoken string) error {
	s.Sent = append(s.Sent, SimulatedMessage{To: to, Body: spoken, Channel: "voice"})
	log.Printf("[twilio][dry-run] call to=%s say=%q", to, spoken)
	return nil
}
