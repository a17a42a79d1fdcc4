package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/session"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Kafka topics for storefront navigation events.
var (
	TopicSearchSubmitted = pkgkafka.Topic("search", "submitted")
	TopicProductSelected = pkgkafka.Topic("product", "selected")
)

// Aggregate type of navigation events.
const AggregateTypeVisitor = "visitor"

// SourceStorefront identifies events produced by this service.
const SourceStorefront = "storefront-service"

// SearchSubmittedData is the payload of a search.submitted event.
type SearchSubmittedData struct {
	SessionID string    `json:"session_id"`
	VisitorID string    `json:"visitor_id"`
	Term      string    `json:"term"`
	Path      string    `json:"path"`
	At        time.Time `json:"at"`
}

// ProductSelectedData is the payload of a product.selected event.
type ProductSelectedData struct {
	SessionID string    `json:"session_id"`
	VisitorID string    `json:"visitor_id"`
	ProductID string    `json:"product_id"`
	Path      string    `json:"path"`
	At        time.Time `json:"at"`
}

// Publisher is the part of the Kafka producer navigation events need.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer turns session navigations into Kafka events.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

var _ session.Publisher = (*Producer)(nil)

// NewProducer creates a navigation event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishNavigation publishes the event matching the navigation's
// destination kind.
func (p *Producer) PublishNavigation(ctx context.Context, nav session.Navigation) error {
	var (
		topic string
		data  any
	)
	switch nav.Destination.Kind {
	case domain.DestinationResults:
		topic = TopicSearchSubmitted
		data = SearchSubmittedData{
			SessionID: nav.SessionID,
			VisitorID: nav.VisitorID,
			Term:      nav.Destination.Term,
			Path:      nav.Path,
			At:        nav.At,
		}
	case domain.DestinationProduct:
		topic = TopicProductSelected
		data = ProductSelectedData{
			SessionID: nav.SessionID,
			VisitorID: nav.VisitorID,
			ProductID: nav.Destination.ProductID,
			Path:      nav.Path,
			At:        nav.At,
		}
	default:
		return fmt.Errorf("unknown destination kind %q", nav.Destination.Kind)
	}

	event, err := pkgkafka.NewEvent(topic, nav.VisitorID, AggregateTypeVisitor, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}
	event.WithMetadata("session_id", nav.SessionID)

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published navigation event",
		slog.String("topic", topic),
		slog.String("session_id", nav.SessionID),
	)
	return nil
}
