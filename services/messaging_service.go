package services

import (
	"context"
	"errors"
	"fmt"
	"foodorder_server/lib"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"
	"net/http"
	"net/url"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const defaultTwilioBaseURL = "https://api.twilio.com"

// Messenger is the outbound send primitive. phone is a normalized 10 digit key.
type Messenger interface {
	Send(ctx context.Context, phone, body string) (*structs.DeliveryReceipt, error)
}

// TwilioError is the error document returned by the Messages API.
type TwilioError struct {
	Code     int
	Message  string
	HTTPCode int
}

func (e *TwilioError) Error() string {
	return fmt.Sprintf("twilio error [%d]: %s", e.Code, e.Message)
}

// MessagingService sends WhatsApp messages through the Twilio REST API and
// appends every outbound message to the message log. Without credentials it
// only logs and returns a synthetic receipt.
type MessagingService struct {
	logger *gecho.Logger
	cfg    *structs.MessagingConfig
	client *twilio.RestClient
	log    MessageLog
	now    func() time.Time
}

var _ Messenger = (*MessagingService)(nil)

func NewMessagingService(logger *gecho.Logger, cfg *structs.MessagingConfig, log MessageLog) *MessagingService {
	ms := &MessagingService{
		logger: logger,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
	if !cfg.Simulated() {
		ms.client = newTwilioClient(logger, cfg)
	}
	return ms
}

// newTwilioClient builds a REST client bounded by the send timeout. A non
// default API base URL redirects every request to that host.
func newTwilioClient(logger *gecho.Logger, cfg *structs.MessagingConfig) *twilio.RestClient {
	transport := http.DefaultTransport
	if cfg.APIBaseURL != "" && cfg.APIBaseURL != defaultTwilioBaseURL {
		base, err := url.Parse(cfg.APIBaseURL)
		if err != nil || base.Host == "" {
			logger.Warn("Ignoring invalid Twilio API base URL", gecho.Field("url", cfg.APIBaseURL))
		} else {
			transport = &baseURLTransport{base: base, next: transport}
		}
	}

	httpClient := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(cfg.AccountSid, cfg.AuthToken),
		HTTPClient:  &http.Client{Timeout: cfg.SendTimeout, Transport: transport},
	}
	httpClient.SetAccountSid(cfg.AccountSid)

	return twilio.NewRestClientWithParams(twilio.ClientParams{Client: httpClient})
}

type baseURLTransport struct {
	base *url.URL
	next http.RoundTripper
}

func (t *baseURLTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = t.base.Scheme
	req.URL.Host = t.base.Host
	req.Host = t.base.Host
	return t.next.RoundTrip(req)
}

func (ms *MessagingService) Simulated() bool {
	return ms.cfg.Simulated()
}

func (ms *MessagingService) Send(ctx context.Context, phone, body string) (*structs.DeliveryReceipt, error) {
	var (
		receipt *structs.DeliveryReceipt
		err     error
	)
	if ms.Simulated() {
		receipt = &structs.DeliveryReceipt{
			Sid:       fmt.Sprintf("sim_%d", ms.now().UnixMilli()),
			Status:    "delivered",
			Simulated: true,
		}
		ms.logger.Info("Simulated outbound message",
			gecho.Field("to", phone),
			gecho.Field("sid", receipt.Sid),
			gecho.Field("body", body),
		)
	} else {
		receipt, err = ms.sendTwilio(ctx, phone, body)
		if err != nil {
			ms.logger.Error("Failed to send outbound message", gecho.Field("error", err), gecho.Field("to", phone))
			return nil, err
		}
		ms.logger.Debug("Outbound message sent", gecho.Field("to", phone), gecho.Field("sid", receipt.Sid))
	}

	if ms.log != nil {
		entry := &tables.Message{Phone: phone, Body: body, Type: tables.MessageOutgoing, MessageSid: receipt.Sid}
		if logErr := ms.log.LogMessage(ctx, entry); logErr != nil {
			ms.logger.Warn("Failed to log outbound message", gecho.Field("error", logErr), gecho.Field("to", phone))
		}
	}

	return receipt, nil
}

func (ms *MessagingService) sendTwilio(ctx context.Context, phone, body string) (*structs.DeliveryReceipt, error) {
	// The SDK call takes no context, so a cancelled caller is refused up front.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &openapi.CreateMessageParams{}
	params.SetFrom(ms.cfg.FromNumber)
	params.SetTo(lib.WhatsAppAddress(ms.cfg.CountryCode, phone))
	params.SetBody(body)

	msg, err := ms.client.Api.CreateMessage(params)
	if err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) {
			apiErr := &TwilioError{Code: restErr.Code, Message: restErr.Message, HTTPCode: restErr.Status}
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(restErr.Status)
			}
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to call messages api: %w", err)
	}

	receipt := &structs.DeliveryReceipt{}
	if msg.Sid != nil {
		receipt.Sid = *msg.Sid
	}
	if msg.Status != nil {
		receipt.Status = *msg.Status
	}
	return receipt, nil
}
