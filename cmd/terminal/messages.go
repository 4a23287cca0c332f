package main

import (
	"github.com/agoralabs/agora-terminal/internal/types"
	"github.com/agoralabs/agora-terminal/pkg/feed"
)

// SnapshotMsg carries a new state snapshot from the live feed.
type SnapshotMsg struct {
	Snapshot types.Snapshot
}

// FeedStatusMsg carries the feed's connection status.
type FeedStatusMsg struct {
	Status feed.Status
}

// FeedClosedMsg signals that the feed client shut down for good.
type FeedClosedMsg struct{}
