package main

import (
	"fmt"
	"os"

	"investportal/internal/api"
	"investportal/internal/review"
	"investportal/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var tokenFlag = &cli.StringFlag{
	Name:     "token",
	Usage:    "Bearer token for the backend",
	EnvVars:  []string{"API_TOKEN"},
	Required: true,
}

var applicationsCommand = &cli.Command{
	Name:  "applications",
	Usage: "Review submitted applications from the terminal",
	Subcommands: []*cli.Command{
		{
			Name:  "list",
			Usage: "Fetch every application and print the ones matching the filters",
			Flags: []cli.Flag{
				tokenFlag,
				&cli.StringFlag{Name: "q", Usage: "Case-insensitive search on name, email, company and phone"},
				&cli.StringFlag{Name: "status", Usage: "Only this status"},
				&cli.StringFlag{Name: "type", Usage: "Only this application type"},
			},
			Action: listApplications,
		},
		{
			Name:      "status",
			Usage:     "Set the status and notes of one application",
			ArgsUsage: "<id>",
			Flags: []cli.Flag{
				tokenFlag,
				&cli.StringFlag{Name: "status", Usage: "pending, reviewed, approved or rejected", Required: true},
				&cli.StringFlag{Name: "notes", Usage: "Reviewer notes"},
			},
			Action: setApplicationStatus,
		},
	},
}

func newBoard(c *cli.Context) (*review.Board, api.Credentials, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, api.Credentials{}, fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)
	logger.SetOutput(os.Stderr)

	return review.NewBoard(newAPIClient(cfg, logger)), api.Credentials{Token: c.String("token")}, nil
}

func listApplications(c *cli.Context) error {
	board, creds, err := newBoard(c)
	if err != nil {
		return err
	}

	if err := board.Refresh(c.Context, creds); err != nil {
		return err
	}

	filter := review.Filter{
		Search: c.String("q"),
		Status: types.ApplicationStatus(c.String("status")),
		Type:   types.ApplicationType(c.String("type")),
	}

	visible := board.Visible(filter)
	_, _ = pp.Println(visible)
	fmt.Fprintf(os.Stderr, "%d of %d applications\n", len(visible), len(board.All()))

	return nil
}

func setApplicationStatus(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("application id is required")
	}

	board, creds, err := newBoard(c)
	if err != nil {
		return err
	}

	status := types.ApplicationStatus(c.String("status"))
	if err := board.Transition(c.Context, creds, id, status, c.String("notes")); err != nil {
		return err
	}

	app, err := board.Find(id)
	if err != nil {
		return err
	}

	_, _ = pp.Println(app)
	return nil
}
