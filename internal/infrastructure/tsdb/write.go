package tsdb

import (
	"context"
	"fmt"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePoint writes one point and waits for VictoriaMetrics to accept it.
//
// Parameters:
//   - ctx: Context for cancellation
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing, at least one
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
//
// Returns:
//   - error: ErrNotConnected after Close, or ErrWriteFailed on any HTTP failure
func (c *Client) WritePoint(ctx context.Context, measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	line, err := formatLineProtocol(measurement, tags, fields, timestamp)
	if err != nil {
		return err
	}
	return c.post(ctx, line)
}

// formatLineProtocol encodes one point with the InfluxDB client's encoder,
// which sorts tags and fields and escapes keys, tag values and string fields.
//
// Format: measurement,tag1=val1,tag2=val2 field1=val1,field2=val2 timestamp_ns
//
// The encoder always emits a comma after the measurement, so a point
// without tags would be malformed and is rejected.
func formatLineProtocol(measurement string, tags map[string]string, fields map[string]interface{}, t time.Time) (string, error) {
	if len(tags) == 0 {
		return "", fmt.Errorf("%w: point has no tags", ErrWriteFailed)
	}
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: point has no fields", ErrWriteFailed)
	}
	return write.PointToLineProtocol(write.NewPoint(measurement, tags, fields, t), time.Nanosecond), nil
}
