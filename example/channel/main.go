package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/ghalamif/TrackFlow/pkg/trackflow"
)

func main() {
	flow, err := trackflow.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, frames, closeFrames := trackflow.NewChannelSink("exceedances", 32)
	defer closeFrames()

	go exceedanceWorker(frames)

	if err := flow.Run(ctx, trackflow.StreamOutSink(sink)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}

func exceedanceWorker(frames <-chan trackflow.Frame) {
	for f := range frames {
		for _, v := range f.Verdicts {
			if v.Status == trackflow.StatusCompliant {
				continue
			}
			fmt.Printf("chainage=%.2fm %s %s value=%v limit=%v -> %s\n",
				f.Sample.Chainage, v.Standard, v.Parameter, v.Value, v.Limit, v.Status)
		}
	}
}
