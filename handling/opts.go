package handling

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"foodorder_server/structs/tables"
)

var knownStatuses = map[tables.OrderStatus]bool{
	tables.OrderStatusPending:   true,
	tables.OrderStatusConfirmed: true,
	tables.OrderStatusPreparing: true,
	tables.OrderStatusReady:     true,
	tables.OrderStatusDelivered: true,
	tables.OrderStatusRejected:  true,
	tables.OrderStatusCancelled: true,
}

// ParseStatusFilter reads the comma separated status query parameter. An
// absent parameter yields a nil filter.
func ParseStatusFilter(r *http.Request) ([]tables.OrderStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}

	statuses := make([]tables.OrderStatus, 0)
	for _, part := range splitAndTrim(raw) {
		if part == "" {
			continue
		}
		status := tables.OrderStatus(strings.ToLower(part))
		if !knownStatuses[status] {
			return nil, fmt.Errorf("unknown order status %q", part)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// ParseID reads a positive integer path value.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace efficiently
func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	// Trim in place to avoid extra allocations
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
