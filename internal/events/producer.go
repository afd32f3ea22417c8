package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hospital-or-scheduling/internal/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	SurgeryBooked    = "surgery.booked"
	SurgeryUpdated   = "surgery.updated"
	SurgeryStatus    = "surgery.status_changed"
	SurgeryDelayed   = "surgery.delayed"
	SurgeryCancelled = "surgery.cancelled"
	SurgeryCompleted = "surgery.completed"
)

// SurgeryEvent is the payload written to the surgery events topic.
type SurgeryEvent struct {
	ID              string               `json:"id"`
	Type            string               `json:"type"`
	SurgeryID       uint                 `json:"surgery_id"`
	PatientID       uint                 `json:"patient_id"`
	DoctorID        uint                 `json:"doctor_id"`
	OperatingRoomID *uint                `json:"operating_room_id"`
	ScheduledDate   models.Date          `json:"scheduled_date"`
	ScheduledTime   models.ClockTime     `json:"scheduled_time"`
	DurationMinutes int                  `json:"duration_minutes"`
	Status          models.SurgeryStatus `json:"status"`
	OccurredAt      time.Time            `json:"occurred_at"`
}

func NewSurgeryEvent(eventType string, s *models.Surgery, at time.Time) SurgeryEvent {
	return SurgeryEvent{
		ID:              uuid.NewString(),
		Type:            eventType,
		SurgeryID:       s.ID,
		PatientID:       s.PatientID,
		DoctorID:        s.DoctorID,
		OperatingRoomID: s.OperatingRoomID,
		ScheduledDate:   s.ScheduledDate,
		ScheduledTime:   s.ScheduledTime,
		DurationMinutes: s.DurationMinutes,
		Status:          s.Status,
		OccurredAt:      at.UTC(),
	}
}

// Key partitions events by surgery so one surgery's events stay ordered.
func (e SurgeryEvent) Key() string {
	return fmt.Sprintf("surgery-%d", e.SurgeryID)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
	log    *zap.Logger
}

func NewProducer(brokers []string, log *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		log:    log,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	p.log.Debug("published event", zap.String("topic", topic), zap.String("key", key))
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
