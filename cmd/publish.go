package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tradebook/events"
	"github.com/etnz/tradebook/logger"
	"github.com/etnz/tradebook/store"
	"github.com/google/subcommands"
)

type publishCmd struct {
	brokers string
	topic   string
}

func (*publishCmd) Name() string     { return "publish" }
func (*publishCmd) Synopsis() string { return "publish the report summary to Kafka" }
func (*publishCmd) Usage() string {
	return `tbk publish [-brokers <host:port,...>] [-topic <topic>]

  Computes the report and publishes a report.computed event with the stock
  availability of every product and the account summaries.
`
}

func (c *publishCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.brokers, "brokers", "", "Comma separated Kafka brokers. Overrides TBK_KAFKA_BROKERS")
	f.StringVar(&c.topic, "topic", "", "Kafka topic. Overrides TBK_KAFKA_TOPIC")
}

func (c *publishCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close(ctx)

	brokers := a.cfg.Events.Brokers
	if c.brokers != "" {
		brokers = strings.Split(c.brokers, ",")
	}
	if len(brokers) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no Kafka brokers, set TBK_KAFKA_BROKERS or -brokers")
		return subcommands.ExitUsageError
	}
	topic := a.cfg.Events.Topic
	if c.topic != "" {
		topic = c.topic
	}

	report, err := a.report(ctx, store.LedgerFilter{}, store.ReceiptFilter{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
		return subcommands.ExitFailure
	}

	pub := events.NewPublisher(brokers, topic, logger.Named(a.log, "events"))
	defer pub.Close()
	event, err := pub.Publish(ctx, report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Published event %s for snapshot %s to %s\n", event.ID, event.Digest, topic)
	return subcommands.ExitSuccess
}
