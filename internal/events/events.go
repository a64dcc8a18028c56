package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fekuna/stockflow-service/internal/logger"
	"go.uber.org/zap"
)

type Type string

const (
	FolderCreated Type = "folder.created"
	FolderRenamed Type = "folder.renamed"
	FolderDeleted Type = "folder.deleted"

	FieldCreated Type = "field.created"
	FieldRenamed Type = "field.renamed"
	FieldDeleted Type = "field.deleted"

	ProductCreated Type = "product.created"
	ProductUpdated Type = "product.updated"
	ProductDeleted Type = "product.deleted"
)

// Entity is the part of the type before the dot.
func (t Type) Entity() string {
	s := string(t)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}

// Event describes one committed change to the catalog.
type Event struct {
	Type       Type      `json:"type"`
	Entity     string    `json:"entity"`
	ID         int64     `json:"id"`
	FolderID   int64     `json:"folder_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(t Type, id, folderID int64) Event {
	return Event{
		Type:       t,
		Entity:     t.Entity(),
		ID:         id,
		FolderID:   folderID,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type nop struct{}

func (nop) Publish(context.Context, Event) error { return nil }
func (nop) Close() error                         { return nil }

func Nop() Publisher { return nop{} }

// Multi delivers every event to each publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

const publishTimeout = 5 * time.Second

// Emit publishes ev after the change has been committed. Failures are logged
// and never returned; the write has already happened.
func Emit(ctx context.Context, p Publisher, log logger.ZapLogger, ev Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, ev); err != nil {
		log.Error("Failed to publish catalog event",
			zap.String("type", string(ev.Type)),
			zap.Int64("id", ev.ID),
			zap.Error(err),
		)
	}
}
