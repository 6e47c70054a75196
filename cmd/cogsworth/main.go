// cmd/cogsworth/main.go
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "cogsworth"
	app.Usage = "inspect a Cogsworth schedule and the daemon running it"
	app.Version = "0.0.1"
	app.Commands = []cli.Command{
		{
			Name:      "validate",
			Usage:     "check a schedule document",
			ArgsUsage: "[config]",
			Action:    cmdValidate,
		},
		{
			Name:      "schedule",
			Usage:     "list events with their next occurrence",
			ArgsUsage: "[config]",
			Action:    cmdSchedule,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "at",
					Usage: "RFC3339 instant to compute occurrences from (default: now)",
				},
			},
		},
		{
			Name:   "history",
			Usage:  "show recently fired events",
			Action: cmdHistory,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "db",
					Usage:  "history database path",
					EnvVar: "SMRT_HISTORY_DB",
				},
				cli.StringFlag{
					Name:  "event, e",
					Usage: "only show this event",
				},
				cli.StringFlag{
					Name:  "kind, k",
					Usage: "only show one_time, span or solar events",
				},
				cli.IntFlag{
					Name:  "limit, n",
					Usage: "maximum number of records",
					Value: 20,
				},
			},
		},
		{
			Name:   "status",
			Usage:  "query a running daemon",
			Action: cmdStatus,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:   "url",
					Usage:  "daemon base URL",
					Value:  "http://localhost:8080",
					EnvVar: "COGSWORTH_URL",
				},
			},
		},
	}
	return app
}
