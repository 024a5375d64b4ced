package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"ledgerbook/internal/amqp"
)

type requestCmd struct {
	printOnly bool
}

func (*requestCmd) Name() string     { return "request" }
func (*requestCmd) Synopsis() string { return "queue a report run for ledgerbook-worker" }
func (*requestCmd) Usage() string {
	return `ledgerbook request [-print-only]

  Publishes a report request on AMQP_QUEUE and prints its id. The worker
  announces the outcome on the queue of the same name suffixed ".completed".
`
}

func (c *requestCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.printOnly, "print-only", false, "Ask the worker not to write the summary sheet.")
}

func (c *requestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if a.cfg.AMQPURL == "" {
		fmt.Fprintln(os.Stderr, "Error: no broker configured, set AMQP_URL")
		return subcommands.ExitUsageError
	}

	client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer client.Close()

	msg := amqp.NewReportRequestMessage(c.printOnly)
	if err := client.PublishReportRequest(ctx, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(msg.RequestID)
	return subcommands.ExitSuccess
}
