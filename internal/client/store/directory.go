package store

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/client/repositories/employees"
	"github.com/dmitrijs2005/staffdir/internal/textnorm"
)

// FilterOptions lists the distinct values present for each filterable field.
func (s *Store) FilterOptions(ctx context.Context) (models.FilterOptions, error) {
	var (
		opts models.FilterOptions
		err  error
	)

	targets := []struct {
		field employees.Field
		dst   *[]string
	}{
		{employees.FieldLocation, &opts.Locations},
		{employees.FieldBrand, &opts.Brands},
		{employees.FieldArea, &opts.Areas},
		{employees.FieldTitle, &opts.Titles},
	}
	for _, t := range targets {
		if *t.dst, err = s.employees.Distinct(ctx, t.field); err != nil {
			return models.FilterOptions{}, storageErr("filter options", err)
		}
	}

	return opts, nil
}

// Stats counts cached employees overall and per stage, location, title and area.
func (s *Store) Stats(ctx context.Context) (models.Stats, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	st := models.Stats{Total: total}
	targets := []struct {
		field employees.Field
		dst   *map[string]int
	}{
		{employees.FieldStage, &st.ByStage},
		{employees.FieldLocation, &st.ByLocation},
		{employees.FieldTitle, &st.ByTitle},
		{employees.FieldArea, &st.ByArea},
	}
	for _, t := range targets {
		if *t.dst, err = s.employees.CountBy(ctx, t.field); err != nil {
			return models.Stats{}, storageErr("stats", err)
		}
	}

	return st, nil
}

// Team returns the employees whose manager is managerName, compared without
// regard to case or accents, plus the manager's own record when cached.
func (s *Store) Team(ctx context.Context, managerName string) (models.Team, error) {
	team := models.Team{ManagerName: strings.TrimSpace(managerName), Members: []models.Employee{}}

	want := textnorm.Normalize(team.ManagerName)
	if want == "" {
		return team, nil
	}

	all, err := s.ListAll(ctx)
	if err != nil {
		return models.Team{}, err
	}

	for _, e := range all {
		if textnorm.Normalize(strings.TrimSpace(e.Manager)) == want {
			team.Members = append(team.Members, e)
		}
		if team.Manager == nil && textnorm.Normalize(strings.TrimSpace(e.Name)) == want {
			m := e
			team.Manager = &m
		}
	}

	return team, nil
}
