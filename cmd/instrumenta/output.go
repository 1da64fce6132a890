package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mmcdole/instrumenta/internal/adapter"
	"github.com/mmcdole/instrumenta/internal/discovery"
	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/entities"
	"github.com/mmcdole/instrumenta/internal/instruments"
	"github.com/mmcdole/instrumenta/internal/relations"
)

// printHealth reports both health checks. It fails when either is down.
func printHealth(ctx context.Context, w io.Writer, client domain.HealthClient) error {
	server, serverErr := client.ServerHealth(ctx)
	if serverErr != nil {
		fmt.Fprintf(w, "server:   down (%s)\n", domain.Message(serverErr))
	} else {
		fmt.Fprintf(w, "server:   %s (uptime %.0fs)\n", server.Status, server.Uptime)
	}

	db, dbErr := client.DatabaseHealth(ctx)
	if dbErr != nil {
		fmt.Fprintf(w, "database: down (%s)\n", domain.Message(dbErr))
	} else {
		fmt.Fprintf(w, "database: %s %s\n", db.Status, db.Database)
	}

	if serverErr != nil {
		return serverErr
	}
	return dbErr
}

// printOverview writes the first page of instruments and the reference
// counts as plain text.
func printOverview(ctx context.Context, w io.Writer, svc *instruments.Service, ent *entities.Service, rel *relations.Service) error {
	p := instruments.NewPaginator(svc.Queries, instruments.DefaultPageSize)
	page, err := p.Load(ctx)
	if err != nil {
		return fmt.Errorf("list instruments: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tYEAR")
	for _, it := range page.Items() {
		year := "-"
		if it.CreationYear != nil {
			year = fmt.Sprint(*it.CreationYear)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", it.ID, it.Name, year)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\npage %d/%d, %d instruments\n", p.Page(), max(p.TotalPages(), 1), p.Total())

	snap := ent.All(ctx)
	fmt.Fprintf(w, "%d families, %d ethnic groups, %d localities, %d rhythms, %d materials\n",
		len(snap.Families), len(snap.EthnicGroups), len(snap.Localities), len(snap.Rhythms), len(snap.Materials))
	if stats, err := rel.Statistics(ctx); err == nil {
		fmt.Fprintf(w, "%d relations\n", stats.TotalRelations)
	}
	return snap.Err()
}

// printNearby lists localities around the configured map center.
func printNearby(ctx context.Context, w io.Writer, svc *discovery.Service, center adapter.MapConfig) error {
	results, err := svc.Geographic(ctx, domain.GeographicParams{Lat: center.CenterLat, Lng: center.CenterLng})
	if err != nil {
		return fmt.Errorf("geographic search: %w", err)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCALITY\tDISTANCE\tINSTRUMENTS")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%.1f km\t%d\n", r.Locality.Name, r.Distance, len(r.Instruments))
	}
	return tw.Flush()
}
