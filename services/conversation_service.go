package services

import (
	"context"
	"errors"
	"fmt"
	"foodorder_server/lib"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
)

var ErrEmptyMessage = errors.New("message body is empty")

type stateHandler func(ctx context.Context, s *structs.Session, input string) error

// ConversationService drives the customer ordering dialogue. Messages from
// operators are handed to the CommandService first.
type ConversationService struct {
	logger    *gecho.Logger
	cfg       *structs.MessagingConfig
	sessions  SessionStore
	store     Store
	messenger Messenger
	commands  *CommandService
	notifier  *NotificationService
	metrics   *DomainMetrics
	locks     *keyedMutex

	handlers map[structs.ConversationState]stateHandler
}

func NewConversationService(
	logger *gecho.Logger,
	cfg *structs.MessagingConfig,
	sessions SessionStore,
	store Store,
	messenger Messenger,
	commands *CommandService,
	notifier *NotificationService,
	metrics *DomainMetrics,
) *ConversationService {
	cs := &ConversationService{
		logger:    logger,
		cfg:       cfg,
		sessions:  sessions,
		store:     store,
		messenger: messenger,
		commands:  commands,
		notifier:  notifier,
		metrics:   metrics,
		locks:     newKeyedMutex(),
	}
	cs.handlers = map[structs.ConversationState]stateHandler{
		structs.StateAskName:             cs.handleName,
		structs.StateAskLocation:         cs.handleLocation,
		structs.StateWelcome:             cs.handleWelcome,
		structs.StateRestaurantSelection: cs.handleRestaurantSelection,
		structs.StateMenuBrowsing:        cs.handleMenuBrowsing,
		structs.StateCategorySelection:   cs.handleCategorySelection,
		structs.StateItemSelection:       cs.handleItemSelection,
		structs.StateCartManagement:      cs.handleCartManagement,
		structs.StateCartView:            cs.handleCartView,
		structs.StateDeleteItemSelection: cs.handleDeleteItemSelection,
		structs.StatePaymentSelection:    cs.handlePaymentSelection,
	}
	return cs
}

// HandleInbound processes one webhook message. Failures are answered with a
// generic apology and reported to the caller for logging only.
func (cs *ConversationService) HandleInbound(ctx context.Context, msg structs.InboundMessage) error {
	phone := lib.NormalizePhone(msg.From)
	if phone == "" {
		return fmt.Errorf("%w: sender %q", lib.ErrInvalidPhone, msg.From)
	}
	text := strings.TrimSpace(msg.Text())

	user, err := cs.store.FindUserByPhone(ctx, phone)
	if err != nil {
		// Treat the sender as a customer; the dialogue does not need the account.
		cs.logger.Error("Failed to look up sender", gecho.Field("error", err), gecho.Field("phone", phone))
		user = nil
	}

	cs.logInbound(ctx, phone, user, msg)

	if user.IsOperator() {
		if text == "" {
			return ErrEmptyMessage
		}
		if cs.commands.Handle(ctx, user, text) {
			return nil
		}
	}

	unlock := cs.locks.Lock(phone)
	defer unlock()

	session, err := cs.sessions.Get(ctx, phone)
	if err != nil {
		cs.reply(ctx, phone, msgGenericError)
		return fmt.Errorf("failed to load session: %w", err)
	}

	if session == nil {
		// A new number is greeted, then its message is handled at ask_name.
		session = structs.NewSession(phone)
		cs.metrics.ObserveInbound("new")
		cs.reply(ctx, phone, msgHello)
		if text == "" {
			return cs.save(ctx, session)
		}
	}

	if text == "" {
		return ErrEmptyMessage
	}

	cs.metrics.ObserveInbound(string(session.State))
	cs.logger.Debug("Inbound message",
		gecho.Field("phone", phone),
		gecho.Field("state", string(session.State)),
		gecho.Field("text", text),
	)

	stepErr := cs.step(ctx, session, text)
	if stepErr != nil {
		cs.reply(ctx, phone, msgGenericError)
	}
	if err := cs.save(ctx, session); err != nil {
		return errors.Join(stepErr, err)
	}
	return stepErr
}

func (cs *ConversationService) step(ctx context.Context, s *structs.Session, input string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversation handler panicked in state %s: %v", s.State, r)
		}
	}()

	handler, ok := cs.handlers[s.State]
	if !ok {
		handler = cs.handleWelcome
	}
	return handler(ctx, s, input)
}

// StartOrderingFlow discards any conversation for phone and opens a fresh one.
func (cs *ConversationService) StartOrderingFlow(ctx context.Context, rawPhone string) error {
	phone, err := lib.ValidateTenDigit(rawPhone)
	if err != nil {
		return err
	}

	unlock := cs.locks.Lock(phone)
	defer unlock()

	if err := cs.sessions.Delete(ctx, phone); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if err := cs.save(ctx, structs.NewSession(phone)); err != nil {
		return err
	}

	if _, err := cs.messenger.Send(ctx, phone, msgHello); err != nil {
		return fmt.Errorf("failed to send opening prompt: %w", err)
	}

	cs.logger.Info("Ordering flow started", gecho.Field("phone", phone))
	return nil
}

// SendMessage delivers an arbitrary text to a validated phone number.
func (cs *ConversationService) SendMessage(ctx context.Context, rawPhone, body string) (*structs.DeliveryReceipt, error) {
	phone, err := lib.ValidateTenDigit(rawPhone)
	if err != nil {
		return nil, err
	}
	return cs.messenger.Send(ctx, phone, body)
}

func (cs *ConversationService) logInbound(ctx context.Context, phone string, user *tables.User, msg structs.InboundMessage) {
	entry := &tables.Message{Phone: phone, MessageSid: msg.MessageSid}
	switch {
	case msg.ButtonPayload != "":
		entry.Type = tables.MessageButtonReply
		entry.Body = msg.ButtonPayload
	case msg.Body != "":
		entry.Type = tables.MessageIncoming
		entry.Body = msg.Body
	default:
		return
	}
	if user != nil {
		entry.UserId = &user.Id
	}
	if err := cs.store.LogMessage(ctx, entry); err != nil {
		cs.logger.Warn("Failed to log inbound message", gecho.Field("error", err), gecho.Field("phone", phone))
	}
}

// reply sends a message to the customer; send failures do not abort the turn.
// Apologize sends the generic failure reply to a raw sender address. It is
// used when handling broke down before a reply could be chosen.
func (cs *ConversationService) Apologize(ctx context.Context, rawFrom string) {
	phone := lib.NormalizePhone(rawFrom)
	if phone == "" {
		return
	}
	cs.reply(ctx, phone, msgGenericError)
}

func (cs *ConversationService) reply(ctx context.Context, phone, body string) {
	if _, err := cs.messenger.Send(ctx, phone, body); err != nil {
		cs.logger.Error("Failed to send reply", gecho.Field("error", err), gecho.Field("phone", phone))
	}
}

func (cs *ConversationService) save(ctx context.Context, s *structs.Session) error {
	if err := cs.sessions.Save(ctx, s); err != nil {
		cs.logger.Error("Failed to save session", gecho.Field("error", err), gecho.Field("phone", s.Phone))
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
