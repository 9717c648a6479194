// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

/*
Package tandoor defines the JSON wire records exchanged with the Tandoor
recipe manager REST API (/api/recipe/, /api/keyword/, /api/food/,
/api/recipe-book-entry/, /api/meal-plan/).

These types mirror the server payloads and carry no behaviour. Conversion
into domain entities happens in the parent models package, which is the
only place that parses timestamps and normalises nullable fields.

Endpoints used:

  - GET  /api/recipe/?page_size=N&...        Page[Recipe]
  - GET  /api/keyword/?tree=ID               Page[Keyword] (root + descendants)
  - GET  /api/food/?tree=ID                  Page[Food] (root + descendants)
  - GET  /api/food/ID/                       Food
  - GET  /api/recipe-book-entry/?book=ID     Page[BookEntry] or []BookEntry
  - GET  /api/meal-plan/?from_date=&to_date= []MealPlan
  - POST /api/meal-plan/                     MealPlan
  - DELETE /api/meal-plan/ID/
*/
package tandoor
