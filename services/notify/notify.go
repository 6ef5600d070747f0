// Package notify delivers WhatsApp messages to clients through a pluggable
// gateway. Delivery is best-effort and at-most-once: failures are logged
// and recorded, never propagated to the write path that triggered them.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/studiokarsa/trackline-backend/database"
	"github.com/studiokarsa/trackline-backend/models"
)

// Messenger sends one message to one phone number. The raw gateway
// response is returned for auditing; it may be nil on transport errors.
type Messenger interface {
	Send(ctx context.Context, phone, body string) (json.RawMessage, error)
}

// Dispatcher formats and delivers notifications and records every attempt.
type Dispatcher struct {
	messenger Messenger
	records   *database.NotificationRepo
	baseURL   string
	logger    zerolog.Logger
}

func NewDispatcher(messenger Messenger, records *database.NotificationRepo, baseURL string) *Dispatcher {
	return &Dispatcher{
		messenger: messenger,
		records:   records,
		baseURL:   baseURL,
		logger:    log.With().Str("handlerName", "notifyDispatcher").Logger(),
	}
}

// dispatchTimeout bounds a single gateway round trip.
const dispatchTimeout = 30 * time.Second

// SendWelcome delivers the tracking link to a freshly created project's
// client and reports whether the gateway accepted it. Never returns an
// error: a WhatsApp outage must not fail project creation.
func (d *Dispatcher) SendWelcome(ctx context.Context, project *models.Project) bool {
	body := WelcomeMessage(project.ClientName, project.ProjectName, TrackingLink(d.baseURL, project.Token))
	return d.send(ctx, models.NotificationWelcome, &project.ID, project.ClientPhone, body)
}

// DispatchProgress delivers a progress notification on a background
// goroutine after the log write has committed.
func (d *Dispatcher) DispatchProgress(project *models.Project, logEntry *models.ProjectLog) {
	body := ProgressMessage(project.ProjectName, logEntry.Title, logEntry.Percentage, TrackingLink(d.baseURL, project.Token))
	projectID := project.ID
	phone := project.ClientPhone
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		d.send(ctx, models.NotificationProgress, &projectID, phone, body)
	}()
}

// DispatchRecovery delivers a single message listing every tracking link
// registered under the phone, on a background goroutine.
func (d *Dispatcher) DispatchRecovery(phone string, projects []*models.Project) {
	body := RecoveryMessage(d.baseURL, projects)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		d.send(ctx, models.NotificationRecovery, nil, phone, body)
	}()
}

// send performs one delivery attempt and records it. Returns whether the
// gateway accepted the message.
func (d *Dispatcher) send(ctx context.Context, kind string, projectID *uuid.UUID, phone, body string) bool {
	resp, err := d.messenger.Send(ctx, phone, body)
	success := err == nil

	record := &models.NotificationRecord{
		ID:        uuid.New(),
		ProjectID: projectID,
		Phone:     phone,
		Body:      body,
		Kind:      kind,
		Success:   success,
	}
	if err != nil {
		d.logger.Error().Err(err).Str("kind", kind).Str("phone", phone).Msg("WhatsApp dispatch failed")
		if errJSON, marshalErr := json.Marshal(map[string]string{"error": err.Error()}); marshalErr == nil {
			record.GatewayResponse = datatypes.JSON(errJSON)
		}
	} else {
		d.logger.Info().Str("kind", kind).Str("phone", phone).Msg("WhatsApp message dispatched")
		if len(resp) > 0 {
			record.GatewayResponse = datatypes.JSON(resp)
		}
	}

	if d.records != nil {
		if recErr := d.records.Add(record); recErr != nil {
			d.logger.Error().Err(recErr).Msg("Failed to persist notification record")
		}
	}
	return success
}
