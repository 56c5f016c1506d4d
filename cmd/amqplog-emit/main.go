// Command amqplog-emit publishes a burst of demo log records through an
// amqplog sink. Useful for smoke-testing a broker and exchange setup:
// stop the broker mid-run and restart it to watch buffering and replay.
//
// Configuration comes from AMQPLOG_* environment variables.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	amqplog "github.com/glimte/amqplog-go"
)

func main() {
	count := flag.Int("count", 20, "number of records to emit")
	interval := flag.Duration("interval", 250*time.Millisecond, "delay between records")
	flag.Parse()

	cfg, err := amqplog.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "amqplog-emit:", err)
		os.Exit(1)
	}

	diag := slog.New(slog.NewTextHandler(os.Stderr, nil))
	sink := amqplog.NewSink(cfg, amqplog.WithLogger(diag))
	defer sink.Close()

	logger := slog.New(amqplog.NewHandler(sink,
		amqplog.WithLevel(slog.LevelDebug),
		amqplog.WithLoggerName("amqplog-emit"),
	))

	for i := 0; i < *count; i++ {
		logger.Info("demo record", "seq", i, "pid", os.Getpid())
		time.Sleep(*interval)
	}

	stats := sink.Stats()
	fmt.Printf("published=%d replayed=%d buffered=%d dropped=%d backlog=%d\n",
		stats.Published, stats.Replayed, stats.Buffered, stats.Dropped, stats.Backlog)
}
