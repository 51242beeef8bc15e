package source

import (
	"context"

	"github.com/filecoin-project/go-stakeflow/internal/measurements"
	logging "github.com/ipfs/go-log/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var log = logging.Logger("stakeflow/source")

var (
	attrCacheHit  = attribute.String("result", "hit")
	attrCacheMiss = attribute.String("result", "miss")
)

var meter = otel.Meter("stakeflow/source")
var metrics = struct {
	snapshotCache metric.Int64Counter
}{
	snapshotCache: measurements.Must(meter.Int64Counter("stakeflow_snapshot_cache",
		metric.WithDescription("Number of stake snapshot lookups labelled by cache result."))),
}

func recordCacheResult(ctx context.Context, result attribute.KeyValue) {
	metrics.snapshotCache.Add(ctx, 1, metric.WithAttributes(result))
}
