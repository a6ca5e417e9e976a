// Package queue defines message payloads exchanged over the message broker.
package queue

// RepairStatusEvent is published whenever a repair order is created or its
// row is updated.  It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type RepairStatusEvent struct {
    RepairID  uint64 `json:"repair_id"`
    Status    string `json:"status"`
    Brand     string `json:"brand"`
    Model     string `json:"model"`
    ChangedAt string `json:"changed_at"`
}
