// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
)

// =============================================================================
// ACTIVE STREAM TRACKING
// =============================================================================

// activeStream is the turn currently playing.
type activeStream struct {
	threadID  string
	messageID string
	cancel    context.CancelFunc
}

// cancelManager owns the cancel func of the playing turn. Only one turn
// plays at a time.
type cancelManager struct {
	mu      sync.Mutex
	current *activeStream
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// start records a new turn. It returns false if one is already playing.
func (cm *cancelManager) start(threadID, messageID string, cancel context.CancelFunc) bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.current != nil {
		return false
	}
	cm.current = &activeStream{threadID: threadID, messageID: messageID, cancel: cancel}
	return true
}

// cancel asks the playing turn to stop. The turn stays recorded until its
// done message arrives.
func (cm *cancelManager) cancel() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.current == nil {
		return false
	}
	cm.current.cancel()
	return true
}

// finish forgets the turn for messageID and releases its context.
func (cm *cancelManager) finish(messageID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.current == nil || cm.current.messageID != messageID {
		return
	}
	cm.current.cancel()
	cm.current = nil
}

// active returns the playing turn, if any.
func (cm *cancelManager) active() (activeStream, bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.current == nil {
		return activeStream{}, false
	}
	return *cm.current, true
}
