package lifecycle

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "auction-lifecycle/internal/lifecycle"

var tracer = otel.Tracer(instrumentationName)

// Options tunes a lifecycle pass
type Options struct {
	// Workers bounds how many auctions are processed concurrently
	Workers int
	// AuctionTimeout bounds the unit of work for a single auction
	AuctionTimeout time.Duration
	// BatchSize is the page size used when listing due auctions; 0 lists them in one page
	BatchSize int
	// Clock returns the pass time; defaults to time.Now in UTC
	Clock func() time.Time
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		Workers:        4,
		AuctionTimeout: 10 * time.Second,
		BatchSize:      500,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	if o.AuctionTimeout <= 0 {
		o.AuctionTimeout = def.AuctionTimeout
	}
	if o.BatchSize < 0 {
		o.BatchSize = 0
	}
	if o.Clock == nil {
		o.Clock = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// counters are created against the global meter provider; they are no-ops until one is installed
type counters struct {
	activated metric.Int64Counter
	ended     metric.Int64Counter
	failed    metric.Int64Counter
}

func newCounters() counters {
	meter := otel.Meter(instrumentationName)
	return counters{
		activated: int64Counter(meter, "lifecycle.auctions.activated", "Auctions moved from SCHEDULED to ACTIVE"),
		ended:     int64Counter(meter, "lifecycle.auctions.ended", "Auctions moved from ACTIVE to ENDED, by outcome"),
		failed:    int64Counter(meter, "lifecycle.auctions.failed", "Auctions that could not be processed, by phase"),
	}
}

func int64Counter(meter metric.Meter, name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

func phaseAttr(phase string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("phase", phase))
}
