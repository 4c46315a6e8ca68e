package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "investportal",
		Usage: "Investment application portal and admin review front end",
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			applicationsCommand,
			keysCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
