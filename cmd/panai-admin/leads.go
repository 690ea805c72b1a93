package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/panai/console/internal/data"
	"github.com/panai/console/internal/domain/model"
	"github.com/panai/console/internal/service"
)

type leadsOptions struct {
	Limit   int
	Offset  int
	RawJSON bool
}

func parseLeadsArgs(args []string) (leadsOptions, error) {
	if len(args) == 0 || args[0] != "list" {
		return leadsOptions{}, errors.New("usage: panai-admin leads list [--limit N] [--offset N] [--json]")
	}
	fs := flag.NewFlagSet("leads list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := leadsOptions{}
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum number of leads to list")
	fs.IntVar(&opts.Offset, "offset", 0, "Number of leads to skip")
	fs.BoolVar(&opts.RawJSON, "json", false, "Print leads as JSON")
	if err := fs.Parse(args[1:]); err != nil {
		return leadsOptions{}, err
	}
	if opts.Limit <= 0 {
		return leadsOptions{}, errors.New("--limit must be greater than zero")
	}
	if opts.Offset < 0 {
		return leadsOptions{}, errors.New("--offset must not be negative")
	}
	return opts, nil
}

func runLeads(cmdCtx *commandContext, args []string) error {
	opts, err := parseLeadsArgs(args)
	if err != nil {
		return err
	}

	db, err := cmdCtx.ConnectLeads(cmdCtx.Ctx)
	if err != nil {
		return fmt.Errorf("connect leads db: %w", err)
	}
	defer db.Close()

	svc := service.NewSalesLeadService(service.SalesLeadServiceOptions{
		Store:  data.NewSalesLeadRepo(db),
		Logger: cmdCtx.Logger,
	})
	leads, err := svc.List(cmdCtx.Ctx, model.SalesLeadListOptions{Limit: opts.Limit, Offset: opts.Offset})
	if err != nil {
		return err
	}

	if opts.RawJSON {
		enc := json.NewEncoder(cmdCtx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(leads)
	}
	return printLeads(cmdCtx, leads)
}

func printLeads(cmdCtx *commandContext, leads []model.SalesLead) error {
	if len(leads) == 0 {
		return writeln(cmdCtx.Out, "No sales leads found.")
	}
	tw := tabwriter.NewWriter(cmdCtx.Out, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "SUBMITTED\tNAME\tEMAIL\tPHARMACY\tROLE\tDECISION"); err != nil {
		return fmt.Errorf("write leads header: %w", err)
	}
	for _, l := range leads {
		if err := writef(tw, "%s\t%s %s\t%s\t%s\t%s\t%s\n",
			formatTime(l.CreatedAt), l.FirstName, l.LastName, l.Email, l.PharmacyName, l.Role, l.DecisionMaker,
		); err != nil {
			return fmt.Errorf("write lead %s: %w", l.ID, err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush leads: %w", err)
	}
	return writef(cmdCtx.Out, "\n%d lead(s)\n", len(leads))
}
