package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"dialbook/internal/directory"
	"dialbook/internal/domain"
	"dialbook/internal/ratelimit"
)

// User-facing reply texts. One reply per inbound event.
const (
	welcomeText = "Welcome to Dialbook.\n\n" +
		"Send a phone number (with +country code) to get details.\n\n" +
		"Owner commands:\n" +
		addUsageText + "\n" +
		"/delete +919876543210\n" +
		"/backup"
	addUsageText      = "/add +919876543210|Name|Father|Village|State|Country"
	addedText         = "Entry added."
	deletedText       = "Entry deleted."
	ownerOnlyText     = "Only the owner can do that."
	noInformationText = "No record found."
	malformedAddText  = "Format error. Use:\n" + addUsageText
	rateLimitedText   = "Too many lookups. Please wait a bit."
	internalErrText   = "Something went wrong. Please try again later."
	backupFilename    = "database.json"
)

// DirectoryService is the core the message channel invokes.
type DirectoryService interface {
	Lookup(ctx context.Context, identity domain.Identity, identifier string) (*directory.LookupResult, error)
	AddEntry(ctx context.Context, identity domain.Identity, identifier, fields string) (*directory.MutationResult, error)
	DeleteEntry(ctx context.Context, identity domain.Identity, identifier string) (*directory.MutationResult, error)
	ExportBackup(ctx context.Context, identity domain.Identity) (*directory.BackupResult, error)
}

// Replier sends the outbound side of the channel: one text reply per event,
// or a file attachment for backups.
type Replier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error
}

// Handler parses inbound updates into directory operations and formats
// replies. Transport concerns stay here; the service knows nothing about
// commands or reply texts.
type Handler struct {
	service DirectoryService
	replier Replier
	gate    directory.MembershipChecker
	channel string

	limiter ratelimit.Limiter
	logger  *slog.Logger
}

type HandlerOption func(*Handler)

func WithLimiter(limiter ratelimit.Limiter) HandlerOption {
	return func(h *Handler) {
		h.limiter = limiter
	}
}

func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler wires the update handler. The channel name is echoed in join
// prompts so denied users know where to go.
func NewHandler(service DirectoryService, replier Replier, gate directory.MembershipChecker, channel string, opts ...HandlerOption) *Handler {
	h := &Handler{
		service: service,
		replier: replier,
		gate:    gate,
		channel: channel,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleUpdate processes one inbound event end to end. Failures to deliver
// the reply are logged, never propagated: the poll loop must keep going.
func (h *Handler) HandleUpdate(ctx context.Context, update Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}

	identity := domain.Identity(msg.From.ID)
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	command, payload := splitCommand(text)
	switch command {
	case "/start":
		h.handleStart(ctx, identity, chatID)
	case "/add":
		h.handleAdd(ctx, identity, chatID, payload)
	case "/delete":
		h.handleDelete(ctx, identity, chatID, payload)
	case "/backup":
		h.handleBackup(ctx, identity, chatID)
	default:
		h.handleLookup(ctx, identity, chatID, text)
	}
}

func (h *Handler) handleStart(ctx context.Context, identity domain.Identity, chatID int64) {
	if !h.gate.IsMember(ctx, identity) {
		h.reply(ctx, chatID, h.joinPrompt())
		return
	}
	h.reply(ctx, chatID, welcomeText)
}

func (h *Handler) handleLookup(ctx context.Context, identity domain.Identity, chatID int64, identifier string) {
	if h.limiter != nil && !h.limiter.Allow(ctx, identity) {
		h.reply(ctx, chatID, rateLimitedText)
		return
	}

	result, err := h.service.Lookup(ctx, identity, identifier)
	if err != nil {
		h.internalError(ctx, chatID, "lookup", err)
		return
	}
	switch result.Outcome {
	case directory.LookupAccessDenied:
		h.reply(ctx, chatID, h.joinPrompt())
	case directory.LookupLocalRecord:
		h.reply(ctx, chatID, formatRecord(result.Record))
	case directory.LookupRemoteRecord:
		h.reply(ctx, chatID, formatPartial(result.Partial))
	default:
		h.reply(ctx, chatID, noInformationText)
	}
}

func (h *Handler) handleAdd(ctx context.Context, identity domain.Identity, chatID int64, payload string) {
	identifier, fields, _ := strings.Cut(payload, "|")

	result, err := h.service.AddEntry(ctx, identity, identifier, fields)
	if err != nil {
		h.internalError(ctx, chatID, "add", err)
		return
	}
	switch result.Outcome {
	case directory.MutationForbidden:
		h.reply(ctx, chatID, ownerOnlyText)
	case directory.MutationMalformedInput:
		h.reply(ctx, chatID, malformedAddText)
	default:
		h.reply(ctx, chatID, addedText)
	}
}

func (h *Handler) handleDelete(ctx context.Context, identity domain.Identity, chatID int64, payload string) {
	result, err := h.service.DeleteEntry(ctx, identity, payload)
	if err != nil {
		h.internalError(ctx, chatID, "delete", err)
		return
	}
	switch result.Outcome {
	case directory.MutationForbidden:
		h.reply(ctx, chatID, ownerOnlyText)
	case directory.MutationNotFound:
		h.reply(ctx, chatID, fmt.Sprintf("No entry for %s.", result.Identifier))
	default:
		h.reply(ctx, chatID, deletedText)
	}
}

func (h *Handler) handleBackup(ctx context.Context, identity domain.Identity, chatID int64) {
	result, err := h.service.ExportBackup(ctx, identity)
	if err != nil {
		h.internalError(ctx, chatID, "backup", err)
		return
	}
	if result.Forbidden {
		h.reply(ctx, chatID, ownerOnlyText)
		return
	}
	if err := h.replier.SendDocument(ctx, chatID, backupFilename, result.Snapshot); err != nil {
		h.logger.Error("backup not delivered", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.replier.SendMessage(ctx, chatID, text); err != nil {
		h.logger.Error("reply not delivered", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) internalError(ctx context.Context, chatID int64, operation string, err error) {
	h.logger.Error("directory operation failed", "operation", operation, "error", err)
	h.reply(ctx, chatID, internalErrText)
}

func (h *Handler) joinPrompt() string {
	return fmt.Sprintf("Join our channel first: %s", h.channel)
}

// splitCommand separates the command token from its payload. A bot-name
// suffix ("/add@DialbookBot") is stripped; non-command text returns an empty
// command so it falls through to lookup.
func splitCommand(text string) (command, payload string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	command, payload, _ = strings.Cut(text, " ")
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	return command, strings.TrimSpace(payload)
}

func formatRecord(record domain.Record) string {
	return fmt.Sprintf("Details:\nName: %s\nFather: %s\nVillage: %s\nState: %s\nCountry: %s",
		record.Name, record.Father, record.Village, record.State, record.Country)
}

func formatPartial(partial domain.PartialRecord) string {
	return fmt.Sprintf("Number info:\nCountry: %s\nCarrier: %s\nLine type: %s",
		partial.Country, partial.Carrier, partial.LineType)
}
