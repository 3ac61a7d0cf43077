package frost

import (
	"crypto/rand"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// AuditEventType represents the type of audit event
type AuditEventType string

const (
	// Key generation events
	AuditEventKeyGeneration AuditEventType = "key_generation"

	// Protocol events
	AuditEventMisbehavior        AuditEventType = "misbehavior"
	AuditEventAggregationFailure AuditEventType = "aggregation_failure"

	// Error events
	AuditEventValidationFailure AuditEventType = "validation_failure"
)

// AuditEventReason represents why an event occurred
type AuditEventReason string

const (
	ReasonDealerKeygen      AuditEventReason = "dealer_keygen"
	ReasonDistributedKeygen AuditEventReason = "distributed_keygen"
	ReasonInvalidProof      AuditEventReason = "invalid_proof"
	ReasonShareMismatch     AuditEventReason = "share_mismatch"
	ReasonInvalidShare      AuditEventReason = "invalid_signature_share"
	ReasonVerification      AuditEventReason = "verification_failed"
	ReasonValidationError   AuditEventReason = "validation_error"
)

// AuditEvent represents a single audit event in the FROST library
type AuditEvent struct {
	// Event metadata
	EventID   string           `json:"event_id"`
	Timestamp time.Time        `json:"timestamp"`
	EventType AuditEventType   `json:"event_type"`
	Reason    AuditEventReason `json:"reason"`

	// Context information
	Ciphersuite string `json:"ciphersuite,omitempty"`

	// Threshold information
	Threshold        int `json:"threshold,omitempty"`
	ParticipantCount int `json:"participant_count,omitempty"`

	// Participant blamed by the event, hex encoded
	Participant string `json:"participant,omitempty"`

	// Success/failure information
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// Additional context
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// KeyGenerationEvent is emitted when a dealer or distributed ceremony
// produces a public key package.
type KeyGenerationEvent struct {
	AuditEvent

	Mode         string `json:"mode"` // "dealer" or "distributed"
	VerifyingKey string `json:"verifying_key"`
}

// ValidationFailureEvent contains details about validation failures
type ValidationFailureEvent struct {
	AuditEvent

	// Validation-specific fields
	ValidationType string                 `json:"validation_type"` // "threshold", "participant", "configuration"
	FailureReason  string                 `json:"failure_reason"`
	InputValues    map[string]interface{} `json:"input_values,omitempty"`
}

// AuditEventHandler defines the interface for handling audit events
// Applications implement this interface to record events according to their needs
type AuditEventHandler interface {
	// OnKeyGeneration is called when key generation completes
	OnKeyGeneration(event *KeyGenerationEvent)

	// OnMisbehavior is called when a participant is caught sending invalid data
	OnMisbehavior(event *AuditEvent)

	// OnValidationFailure is called when validation fails
	OnValidationFailure(event *ValidationFailureEvent)

	// OnError is called for general error events
	OnError(event *AuditEvent)
}

// NullAuditHandler is a no-op implementation of AuditEventHandler
// Used when no audit handling is needed
type NullAuditHandler struct{}

func (n *NullAuditHandler) OnKeyGeneration(event *KeyGenerationEvent)         {}
func (n *NullAuditHandler) OnMisbehavior(event *AuditEvent)                   {}
func (n *NullAuditHandler) OnValidationFailure(event *ValidationFailureEvent) {}
func (n *NullAuditHandler) OnError(event *AuditEvent)                         {}

// ZapAuditHandler writes audit events to a zap logger.
type ZapAuditHandler struct {
	Logger *zap.Logger
}

// NewZapAuditHandler creates a handler logging under the "audit" name.
func NewZapAuditHandler(l *zap.Logger) *ZapAuditHandler {
	return &ZapAuditHandler{Logger: l.Named("audit")}
}

func (h *ZapAuditHandler) fields(event *AuditEvent) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.EventID),
		zap.String("event_type", string(event.EventType)),
		zap.String("reason", string(event.Reason)),
		zap.Bool("success", event.Success),
	}
	if event.Ciphersuite != "" {
		fields = append(fields, zap.String("ciphersuite", event.Ciphersuite))
	}
	if event.Participant != "" {
		fields = append(fields, zap.String("participant", event.Participant))
	}
	if event.Threshold != 0 {
		fields = append(fields, zap.Int("threshold", event.Threshold))
	}
	if event.ParticipantCount != 0 {
		fields = append(fields, zap.Int("participant_count", event.ParticipantCount))
	}
	if event.Error != "" {
		fields = append(fields, zap.String("error", event.Error))
	}
	if len(event.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", event.Metadata))
	}
	return fields
}

func (h *ZapAuditHandler) OnKeyGeneration(event *KeyGenerationEvent) {
	h.Logger.Info("key generation complete", append(h.fields(&event.AuditEvent),
		zap.String("mode", event.Mode),
		zap.String("verifying_key", event.VerifyingKey))...)
}

func (h *ZapAuditHandler) OnMisbehavior(event *AuditEvent) {
	h.Logger.Warn("participant misbehavior", h.fields(event)...)
}

func (h *ZapAuditHandler) OnValidationFailure(event *ValidationFailureEvent) {
	h.Logger.Warn("validation failure", append(h.fields(&event.AuditEvent),
		zap.String("validation_type", event.ValidationType),
		zap.String("failure_reason", event.FailureReason))...)
}

func (h *ZapAuditHandler) OnError(event *AuditEvent) {
	h.Logger.Error("protocol error", h.fields(event)...)
}

type auditHandlerHolder struct {
	handler AuditEventHandler
}

var pkgAudit atomic.Pointer[auditHandlerHolder]

func init() {
	pkgAudit.Store(&auditHandlerHolder{handler: &NullAuditHandler{}})
}

// SetAuditHandler installs the handler receiving audit events. A nil
// handler restores the no-op default.
func SetAuditHandler(h AuditEventHandler) {
	if h == nil {
		h = &NullAuditHandler{}
	}
	pkgAudit.Store(&auditHandlerHolder{handler: h})
}

func auditHandler() AuditEventHandler {
	return pkgAudit.Load().handler
}

// AuditEventBuilder helps construct audit events with proper defaults
type AuditEventBuilder struct {
	event *AuditEvent
}

// NewAuditEventBuilder creates a new audit event builder
func NewAuditEventBuilder(eventType AuditEventType, reason AuditEventReason) *AuditEventBuilder {
	return &AuditEventBuilder{
		event: &AuditEvent{
			EventID:   generateEventID(),
			Timestamp: time.Now(),
			EventType: eventType,
			Reason:    reason,
			Success:   true, // Default to success, can be overridden
			Metadata:  make(map[string]interface{}),
		},
	}
}

// WithCiphersuite sets the ciphersuite for the event
func (b *AuditEventBuilder) WithCiphersuite(id string) *AuditEventBuilder {
	b.event.Ciphersuite = id
	return b
}

// WithThreshold sets threshold information
func (b *AuditEventBuilder) WithThreshold(threshold, participants int) *AuditEventBuilder {
	b.event.Threshold = threshold
	b.event.ParticipantCount = participants
	return b
}

// WithParticipant names the participant the event concerns
func (b *AuditEventBuilder) WithParticipant(id Identifier) *AuditEventBuilder {
	b.event.Participant = id.String()
	return b
}

// WithError marks the event as failed and sets error information
func (b *AuditEventBuilder) WithError(err error) *AuditEventBuilder {
	b.event.Success = false
	if err != nil {
		b.event.Error = err.Error()
	}
	return b
}

// WithMetadata adds metadata to the event
func (b *AuditEventBuilder) WithMetadata(key string, value interface{}) *AuditEventBuilder {
	b.event.Metadata[key] = value
	return b
}

// Build returns the constructed audit event
func (b *AuditEventBuilder) Build() *AuditEvent {
	return b.event
}

// BuildKeyGeneration returns a KeyGenerationEvent
func (b *AuditEventBuilder) BuildKeyGeneration(mode string, verifyingKey Point) *KeyGenerationEvent {
	return &KeyGenerationEvent{
		AuditEvent:   *b.event,
		Mode:         mode,
		VerifyingKey: verifyingKey.String(),
	}
}

// BuildValidationFailure returns a ValidationFailureEvent
func (b *AuditEventBuilder) BuildValidationFailure(validationType, failureReason string, inputValues map[string]interface{}) *ValidationFailureEvent {
	return &ValidationFailureEvent{
		AuditEvent:     *b.event,
		ValidationType: validationType,
		FailureReason:  failureReason,
		InputValues:    inputValues,
	}
}

// emitKeygenComplete reports a finished key generation.
func emitKeygenComplete(cs *Ciphersuite, mode string, pub *PublicKeyPackage) {
	reason := ReasonDealerKeygen
	if mode == "distributed" {
		reason = ReasonDistributedKeygen
	}
	event := NewAuditEventBuilder(AuditEventKeyGeneration, reason).
		WithCiphersuite(cs.ID()).
		WithThreshold(pub.MinSigners, len(pub.VerifyingShares)).
		BuildKeyGeneration(mode, pub.VerifyingKey)
	auditHandler().OnKeyGeneration(event)
}

// reportMisbehavior logs and audits an error naming a culprit. Errors
// without a culprit are reported through OnError.
func reportMisbehavior(cs *Ciphersuite, reason AuditEventReason, err error) {
	builder := NewAuditEventBuilder(AuditEventMisbehavior, reason).
		WithCiphersuite(cs.ID()).
		WithError(err)

	id, ok := Culprit(err)
	if !ok {
		logger().Warn("protocol failure", zap.String("ciphersuite", cs.ID()), zap.Error(err))
		auditHandler().OnError(builder.Build())
		return
	}

	logger().Warn("participant misbehavior detected",
		zap.String("ciphersuite", cs.ID()),
		participantField(id),
		zap.String("reason", string(reason)),
		zap.Error(err),
	)
	auditHandler().OnMisbehavior(builder.WithParticipant(id).Build())
}

// generateEventID generates a unique event ID
// Uses a combination of timestamp and random bytes to ensure uniqueness
func generateEventID() string {
	timestamp := time.Now().Format("20060102150405.000000")

	// Add 4 random bytes to ensure uniqueness even for events created at the same microsecond
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Sprintf("%s.%d", timestamp, time.Now().UnixNano()%10000)
	}

	return fmt.Sprintf("%s.%x", timestamp, randomBytes)
}
