package payload

// Point is one [timestamp, count] bucket of a Sentry stats series.
type Point struct {
	Timestamp int64
	Count     int64
}

// Points decodes a [[ts, count], ...] series. Malformed buckets are skipped.
func Points(v any) []Point {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	points := make([]Point, 0, len(raw))
	for _, item := range raw {
		pair, ok := item.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		ts, ok := Number(pair[0])
		if !ok {
			continue
		}
		count, ok := Number(pair[1])
		if !ok {
			continue
		}
		points = append(points, Point{Timestamp: int64(ts), Count: int64(count)})
	}
	return points
}

// Total sums the counts of a series.
func Total(points []Point) int64 {
	var total int64
	for _, p := range points {
		total += p.Count
	}
	return total
}
