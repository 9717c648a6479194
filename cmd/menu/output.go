// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/smilerz/cocktail-menu/internal/models"
)

func writeResult(w io.Writer, result *models.MenuResult, format string) error {
	if format == "json" {
		return writeResultJSON(w, result)
	}
	return writeResultTable(w, result)
}

func writeResultJSON(w io.Writer, result *models.MenuResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal menu to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeResultTable(w io.Writer, result *models.MenuResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRATING\tLAST COOKED")
	fmt.Fprintln(tw, "--\t----\t------\t-----------")

	for _, r := range result.Recipes {
		rating := "-"
		if r.Rating != nil {
			rating = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
		}
		cooked := "never"
		if r.LastCooked != nil {
			cooked = r.LastCooked.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.Name, rating, cooked)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d of %d recipes, %d constraints, solver %s (%s), seed %d\n",
		len(result.Recipes), result.PoolSize, result.ActiveConstraints, result.Solver, result.Status, result.Seed)
	if err != nil {
		return err
	}
	if result.MealPlansCreated > 0 || result.MealPlansRemoved > 0 {
		_, err = fmt.Fprintf(w, "meal plan: %d created, %d removed\n", result.MealPlansCreated, result.MealPlansRemoved)
	}
	return err
}
