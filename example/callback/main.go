package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghalamif/TrackFlow/pkg/trackflow"
)

func main() {
	flow, err := trackflow.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	callback := func(f trackflow.Frame) error {
		s := f.Sample
		fmt.Printf("%s km=%.3f gauge=%.2f xlevel=%.2f twist=%.2f speed=%.1f worst=%s\n",
			s.Timestamp.Format(time.RFC3339Nano),
			s.Chainage/1000,
			s.Gauge,
			s.CrossLevel,
			s.Twist,
			s.Speed,
			f.Worst(),
		)
		return nil
	}

	if err := flow.Run(ctx, trackflow.StreamOutCallback("stdout", callback)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
