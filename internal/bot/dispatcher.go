// Package bot routes inbound chat updates to admission, the operator key check,
// the registration form and report delivery.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	admissionModels "recruitbot/internal/admission/models"
	"recruitbot/internal/platform/metrics"
	"recruitbot/internal/registration/flow"
	"recruitbot/internal/report"
	dErrors "recruitbot/pkg/domain-errors"
	"recruitbot/pkg/requestcontext"
)

const (
	commandStart  = "start"
	commandCancel = "cancel"
)

type Dispatcher struct {
	admission    Admission
	registration Registration
	access       Access
	reports      Reports
	messenger    Messenger
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	clock        func() time.Time
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = tracer
	}
}

// WithClock overrides the time source stamped on every update.
func WithClock(clock func() time.Time) Option {
	return func(d *Dispatcher) {
		d.clock = clock
	}
}

func New(
	admission Admission,
	registration Registration,
	access Access,
	reports Reports,
	messenger Messenger,
	opts ...Option,
) (*Dispatcher, error) {
	if admission == nil {
		return nil, errors.New("admission service is required")
	}
	if registration == nil {
		return nil, errors.New("registration service is required")
	}
	if access == nil {
		return nil, errors.New("access service is required")
	}
	if reports == nil {
		return nil, errors.New("report generator is required")
	}
	if messenger == nil {
		return nil, errors.New("messenger is required")
	}

	d := &Dispatcher{
		admission:    admission,
		registration: registration,
		access:       access,
		reports:      reports,
		messenger:    messenger,
		tracer:       otel.Tracer("recruitbot/bot"),
		clock:        time.Now,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Handle processes one update to completion. Updates must be fed one at a time.
func (d *Dispatcher) Handle(ctx context.Context, u Update) error {
	ctx, span := d.tracer.Start(ctx, "bot.update", trace.WithAttributes(
		attribute.Int64("user_id", u.UserID),
		attribute.String("kind", u.Kind()),
	))
	defer span.End()

	requestID := uuid.NewString()
	if sc := span.SpanContext(); sc.HasTraceID() {
		requestID = sc.TraceID().String()
	}
	ctx = requestcontext.WithRequestID(ctx, requestID)
	ctx = requestcontext.WithTime(ctx, d.clock())

	d.metrics.IncrementUpdates(u.Kind())

	var err error
	if u.IsCallback() {
		err = d.handleCallback(ctx, u)
	} else {
		err = d.handleMessage(ctx, u)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.ErrorContext(ctx, "update failed",
			"user_id", u.UserID,
			"request_id", requestID,
			"code", dErrors.CodeOf(err),
			"error", err,
		)
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			_ = d.messenger.Send(ctx, u.ChatID, flow.Reply{Text: textInternal})
		}
	}
	return err
}

func (d *Dispatcher) handleMessage(ctx context.Context, u Update) error {
	blocked, err := d.admission.IsBlocked(ctx, u.UserID)
	if err != nil {
		return err
	}
	if blocked {
		// A banned identity trying to open the form is told so; anything else is ignored.
		if u.Command == commandStart {
			return d.deny(ctx, u, textDenied)
		}
		return nil
	}

	decision, err := d.admission.CheckMessage(ctx, u.UserID)
	if err != nil {
		return err
	}
	switch decision {
	case admissionModels.DecisionDrop, admissionModels.DecisionBlocked:
		return nil
	case admissionModels.DecisionBanned:
		return d.deny(ctx, u, textDenied)
	}

	switch u.Command {
	case commandStart:
		reply, err := d.registration.Start(ctx, u.UserID)
		if err != nil {
			return err
		}
		return d.send(ctx, u.ChatID, reply)
	case commandCancel:
		reply, err := d.registration.Cancel(ctx, u.UserID)
		if err != nil {
			return err
		}
		return d.send(ctx, u.ChatID, reply)
	case "":
	default:
		return nil
	}

	// The operator key is checked before the form sees the text.
	if d.access.TryGrant(ctx, u.UserID, u.Text) {
		if err := d.registration.Abandon(ctx, u.UserID); err != nil {
			return err
		}
		return d.send(ctx, u.ChatID, flow.Reply{Text: textChoosePeriod, Keyboard: flow.KeyboardReportPeriods})
	}

	reply, handled, err := d.registration.Handle(ctx, u.UserID, u.Text)
	if err != nil {
		return err
	}
	if handled {
		return d.send(ctx, u.ChatID, reply)
	}

	decision, err = d.admission.RecordKeyAttempt(ctx, u.UserID, u.Text)
	if err != nil {
		return err
	}
	if decision == admissionModels.DecisionBanned {
		return d.deny(ctx, u, textLockedOut)
	}
	return nil
}

// deny ends whatever the identity was doing and sends one refusal.
func (d *Dispatcher) deny(ctx context.Context, u Update, text string) error {
	d.access.Revoke(u.UserID)
	if err := d.registration.Abandon(ctx, u.UserID); err != nil {
		d.logger.WarnContext(ctx, "failed to drop session of banned identity", "user_id", u.UserID, "error", err)
	}
	return d.send(ctx, u.ChatID, flow.Reply{Text: text, Keyboard: flow.KeyboardRemove})
}

func (d *Dispatcher) handleCallback(ctx context.Context, u Update) error {
	if err := d.messenger.AnswerCallback(ctx, u.CallbackID); err != nil {
		d.logger.WarnContext(ctx, "failed to answer callback", "user_id", u.UserID, "error", err)
	}

	raw, ok := parseReportCallback(u.CallbackData)
	if !ok {
		return nil
	}
	blocked, err := d.admission.IsBlocked(ctx, u.UserID)
	if err != nil {
		return err
	}
	if blocked {
		return nil
	}
	if !d.access.IsElevated(u.UserID) {
		d.logger.WarnContext(ctx, "report requested without elevated access",
			"user_id", u.UserID,
			"event", "report_denied",
			"log_type", "audit",
		)
		return d.send(ctx, u.ChatID, flow.Reply{Text: textDenied})
	}

	period, err := report.ParsePeriod(raw)
	if err != nil {
		return d.send(ctx, u.ChatID, flow.Reply{Text: fmt.Sprintf(textReportFailed, err.Error())})
	}

	path, err := d.reports.Generate(ctx, period)
	if err != nil {
		d.logger.ErrorContext(ctx, "report generation failed", "period", period, "error", err)
		return d.send(ctx, u.ChatID, flow.Reply{Text: fmt.Sprintf(textReportFailed, userMessage(err))})
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			d.logger.WarnContext(ctx, "failed to remove report file", "path", path, "error", err)
		}
	}()

	if err := d.messenger.SendDocument(ctx, u.ChatID, path); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deliver report")
	}
	return nil
}

func (d *Dispatcher) send(ctx context.Context, chatID int64, reply flow.Reply) error {
	if reply.IsEmpty() {
		return nil
	}
	if err := d.messenger.Send(ctx, chatID, reply); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

// userMessage returns the outermost domain message, which never carries driver detail.
func userMessage(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "внутренняя ошибка"
}
