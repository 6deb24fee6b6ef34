package influxdb

import (
	"context"
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePoint writes one point and waits for the server to accept it.
//
// The call is bounded by the configured write timeout in addition to ctx.
//
// Parameters:
//   - ctx: Context for cancellation
//   - measurement: The measurement name (e.g., "mediciones")
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//   - timestamp: The exact time for this data point
//
// Returns:
//   - error: ErrNotConnected after Close, or ErrWriteFailed wrapping the server error
//
// Example:
//
//	err := client.WritePoint(ctx, "mediciones",
//	    map[string]string{"sensor_id": "SENSOR_001"},
//	    map[string]interface{}{"temperatura": 22.3},
//	    time.Now().UTC())
func (c *Client) WritePoint(ctx context.Context, measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	writeCtx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	point := write.NewPoint(measurement, tags, fields, timestamp)
	if err := c.writeAPI.WritePoint(writeCtx, point); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	return nil
}
