package diag

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/iromero91/emac.go/pkg/mac"
)

// StatsTicker periodically publishes counter snapshots of a driver.
type StatsTicker struct {
	Nic    string
	Pub    Publisher
	Driver *mac.Driver
	Every  time.Duration
}

// Run implements Runnable.
func (s *StatsTicker) Run(ctx context.Context) error {
	every := s.Every
	if every <= 0 {
		every = 10 * time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			data, err := Encode(NewStatsEvent(s.Nic, s.Driver.Stats()))
			if err != nil {
				return err
			}
			if err := s.Pub.Publish(StatsTopic(s.Nic), data); err != nil {
				glog.V(2).Infof("diag: publish stats: %v", err)
			}
		}
	}
}
