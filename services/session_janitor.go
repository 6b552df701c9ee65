package services

import (
	"context"
	"log"
	"time"
)

// SessionJanitor sweeps session records whose lastUpdated is older than the
// retention period. The reference system never deleted sessions, so the
// janitor is opt-in; with it disabled, stale sessions simply remain as
// expired artifacts outside the activity window.
type SessionJanitor struct {
	Store     SessionStore
	Retention time.Duration
	Interval  time.Duration
	Now       func() time.Time

	ticker *time.Ticker
	done   chan bool
}

func NewSessionJanitor(store SessionStore, retention, interval time.Duration) *SessionJanitor {
	return &SessionJanitor{
		Store:     store,
		Retention: retention,
		Interval:  interval,
		Now:       time.Now,
		done:      make(chan bool),
	}
}

// Start begins periodic sweeps.
func (sj *SessionJanitor) Start() {
	sj.ticker = time.NewTicker(sj.Interval)
	log.Printf("Session janitor started (retention %v, interval %v)", sj.Retention, sj.Interval)
	go func() {
		for {
			select {
			case <-sj.ticker.C:
				if _, err := sj.SweepOnce(context.Background()); err != nil {
					log.Printf("Session sweep failed: %v", err)
				}
			case <-sj.done:
				return
			}
		}
	}()
}

// Stop stops the janitor. A no-op when the janitor was never started.
func (sj *SessionJanitor) Stop() {
	if sj.ticker == nil {
		return
	}
	sj.ticker.Stop()
	sj.done <- true
	log.Println("Session janitor stopped")
}

// SweepOnce deletes every session idle past the retention period and returns
// how many were removed.
func (sj *SessionJanitor) SweepOnce(ctx context.Context) (int, error) {
	cutoff := sj.Now().Add(-sj.Retention).UnixMilli()
	stale, err := sj.Store.SessionsUpdatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, session := range stale {
		if err := sj.Store.DeleteSession(ctx, session.ID); err != nil {
			log.Printf("Failed to delete stale session %s: %v", session.ID, err)
			continue
		}
		deleted++
	}
	if deleted > 0 {
		log.Printf("Session janitor removed %d stale session(s)", deleted)
	}
	return deleted, nil
}
