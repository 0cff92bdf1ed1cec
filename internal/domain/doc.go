// Package domain models the Canadian Wind Turbine Database and the
// aggregations derived from it.
//
// # Data Source
//
// Turbine records come from the TidyTuesday release of the Government of
// Canada wind turbine database, published weekly as CSV at
// https://github.com/rfordatascience/tidytuesday. A release is addressed by
// (year, ISO week); the file lives under the Tuesday of that week, e.g.
// 2020 week 44 → data/2020/2020-10-27/wind-turbine.csv.
//
// # Raw Columns
//
//	objectid                     turbine identifier, unique per row
//	project_name                 wind farm name, shared by its turbines
//	commissioning_date           "2001", "2001/2002", "2006/2007/2008", ...
//	total_project_capacity_mw    the project's capacity, repeated per turbine
//	turbine_rated_capacity_k_w   the single turbine's rating
//	latitude, longitude          WGS-84 degrees
//
// Other columns in the release are ignored.
//
// # Data Conventions
//
// Commissioning year:
//
//	Projects built in phases report a slash-separated range. The first
//	numeric token is used, so "2006/2007" → 2006. Text without any digits
//	leaves the year unset; such turbines never contribute to a year-based
//	aggregate.
//
// Known defects:
//
//	objectid 1451 ships with "NA" as its project name. Fixes of this kind are
//	listed in [Corrections] and applied by exact id match.
//
// Capacity:
//
//	total_project_capacity_mw is repeated on every turbine of a project, so a
//	project's capacity is the max over its turbines, never the sum.
package domain
