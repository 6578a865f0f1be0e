package scheduler

import (
	"context"
	"fmt"

	apptrepo "bizgenie_backend/internal/appointments/repository"
	bizrepo "bizgenie_backend/internal/business/repository"
	"bizgenie_backend/internal/notify"
	"bizgenie_backend/platform/config"
	"bizgenie_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes scheduled tasks and delivers appointment reminders.
type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	appointments *apptrepo.Repository
	businesses   *bizrepo.Repository
	email        notify.EmailSender
	whatsapp     notify.WhatsAppSender
	log          *logger.Logger
}

// NewWorker creates an asynq worker wired to the notification senders.
func NewWorker(
	cfg config.SchedulerConfig,
	pool *pgxpool.Pool,
	email notify.EmailSender,
	whatsapp notify.WhatsAppSender,
	log *logger.Logger,
) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:       server,
		mux:          mux,
		appointments: apptrepo.New(pool),
		businesses:   bizrepo.New(pool),
		email:        email,
		whatsapp:     whatsapp,
		log:          log,
	}

	mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)

	return w, nil
}

// Run blocks serving tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return err
	}

	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return err
	}
	businessID, err := uuid.Parse(payload.BusinessID)
	if err != nil {
		return err
	}

	appt, err := w.appointments.GetByID(ctx, apptID, businessID)
	if err != nil {
		return err
	}

	// Cancelled or completed appointments need no reminder.
	if appt.Status != apptrepo.StatusScheduled && appt.Status != apptrepo.StatusConfirmed {
		return nil
	}

	biz, err := w.businesses.GetByID(ctx, businessID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Hi %s, this is a reminder of your appointment with %s on %s.",
		appt.CustomerName, biz.Name, notify.FormatEventTime(appt.StartTime),
	)

	delivered := false
	if appt.CustomerEmail != "" {
		result := w.email.Send(ctx, notify.EmailMessage{
			To:      appt.CustomerEmail,
			Subject: "Appointment reminder: " + biz.Name,
			Body:    body,
		})
		w.log.ToolDispatch("email", "send_email_reminder", appt.CustomerEmail, result.Success, result.Message)
		delivered = delivered || result.Success
	}
	if appt.CustomerPhone != "" {
		result := w.whatsapp.Send(ctx, appt.CustomerPhone, body)
		w.log.ToolDispatch("whatsapp", "send_whatsapp_followup", appt.CustomerPhone, result.Success, result.Message)
		delivered = delivered || result.Success
	}

	if !delivered {
		w.log.Warn("appointment reminder not delivered",
			"appointment_id", appt.ID.String(),
			"business_id", businessID.String(),
		)
	}

	return nil
}
