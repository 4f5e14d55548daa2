package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"botoclock/config"
	"botoclock/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics for the bot
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	exporting     bool
	mu            sync.RWMutex

	// Metric instruments
	commandsCounter              metric.Int64Counter
	clocksCreatedCounter         metric.Int64Counter
	clocksRemovedCounter         metric.Int64Counter
	reconciliationCounter        metric.Int64Counter
	storeErrorsCounter           metric.Int64Counter
	refreshEditsCounter          metric.Int64Counter
	refreshDurationHist          metric.Float64Histogram
	natsMessagesPublishedCounter metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMS)*time.Millisecond),
			),
		),
	)

	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("botoclock")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.exporting = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	var err error

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.commandsCounter, CommandsTotal, "Total number of text commands handled"},
		{&mp.clocksCreatedCounter, ClocksCreatedTotal, "Total number of clocks created"},
		{&mp.clocksRemovedCounter, ClocksRemovedTotal, "Total number of clock rows removed"},
		{&mp.reconciliationCounter, ReconciliationDeletionsTotal, "Clock rows removed because the platform resource vanished"},
		{&mp.storeErrorsCounter, StoreErrorsTotal, "Total number of clock store failures"},
		{&mp.refreshEditsCounter, RefreshEditsTotal, "Channel renames and message edits issued by the refresh worker"},
		{&mp.natsMessagesPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published"},
	}

	for _, c := range counters {
		*c.target, err = mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit("1"),
		)
		if err != nil {
			return fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
	}

	mp.refreshDurationHist, err = mp.meter.Float64Histogram(
		RefreshDuration,
		metric.WithDescription("Duration of a full clock refresh pass in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 15, 30, 60, 120, 300),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh duration histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordCommand records a handled text command and how it ended
func (mp *MetricsProvider) RecordCommand(command, outcome string) {
	if !mp.isEnabled() {
		return
	}

	mp.commandsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelCommand, command),
			attribute.String(LabelOutcome, outcome),
		),
	)
}

// RecordClockCreated records a persisted clock
func (mp *MetricsProvider) RecordClockCreated(kind string) {
	if !mp.isEnabled() {
		return
	}

	mp.clocksCreatedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelType, kind)),
	)
}

// RecordClocksRemoved records deleted clock rows. Removals caused by the
// platform resource disappearing also count as reconciliation deletions.
func (mp *MetricsProvider) RecordClocksRemoved(reason string, count int64) {
	if !mp.isEnabled() || count <= 0 {
		return
	}

	attrs := metric.WithAttributes(attribute.String(LabelReason, reason))
	mp.clocksRemovedCounter.Add(context.Background(), count, attrs)

	switch reason {
	case events.RemovalReasonChannelDeleted, events.RemovalReasonMessageDeleted,
		events.RemovalReasonSweep, events.RemovalReasonRefresh:
		mp.reconciliationCounter.Add(context.Background(), count, attrs)
	}
}

// RecordStoreError records a failed registry operation
func (mp *MetricsProvider) RecordStoreError(operation string) {
	if !mp.isEnabled() {
		return
	}

	mp.storeErrorsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelOperation, operation)),
	)
}

// RecordRefreshEdits records the outcome of count clocks in one refresh pass
func (mp *MetricsProvider) RecordRefreshEdits(outcome string, count int) {
	if !mp.isEnabled() || count <= 0 {
		return
	}

	mp.refreshEditsCounter.Add(context.Background(), int64(count),
		metric.WithAttributes(attribute.String(LabelOutcome, outcome)),
	)
}

// MeasureRefresh returns a function that records the duration of a refresh pass
//
//	defer mp.MeasureRefresh()()
func (mp *MetricsProvider) MeasureRefresh() func() {
	start := time.Now()
	return func() {
		if !mp.isEnabled() {
			return
		}
		mp.refreshDurationHist.Record(context.Background(), time.Since(start).Seconds())
	}
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// SubscribeToBus records registry metrics from clock lifecycle events
func (mp *MetricsProvider) SubscribeToBus(bus *events.Bus) {
	bus.Subscribe(events.EventTypeClockCreated, func(ctx context.Context, event events.Event) error {
		if created, ok := event.(events.ClockCreatedEvent); ok {
			mp.RecordClockCreated(created.Kind)
		}
		return nil
	})
	bus.Subscribe(events.EventTypeClockRemoved, func(ctx context.Context, event events.Event) error {
		if removed, ok := event.(events.ClockRemovedEvent); ok {
			mp.RecordClocksRemoved(removed.Reason, removed.Count)
		}
		return nil
	})
}

// isEnabled checks if instruments exist and are exporting
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.exporting
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider. A nil provider records nothing.
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
