/* Copyright (c) 2018 Salesforce
 * All rights reserved.
 * Licensed under the BSD 3-Clause license.
 * For full license text, see LICENSE.txt file in the repo root  or https://opensource.org/licenses/BSD-3-Clause
 */

// Package statsd is the path oriented metrics client used by the request
// reporter. Metric names are built from ordered path segments which are
// joined with dots, e.g.
//
//	c.AddTiming(12.5, "sprockets", "timers", "widgets", "WidgetHandler", "GET", "200")
//
// records a 12.5ms timing named sprockets.timers.widgets.WidgetHandler.GET.200.
//
// A Client is meant to be created once at process start and shared by every
// handler for the lifetime of the process.
package statsd

import "strings"

// DefaultPrefix is the root segment used when nothing else is configured.
const DefaultPrefix = "sprockets"

// Client sends timings and counters named by path segments.
type Client interface {
	// SetPrefix replaces the client's active default prefix. There is one
	// active prefix per client; the last caller wins.
	SetPrefix(prefix string)

	// Prefix returns the active default prefix.
	Prefix() string

	// AddTiming records value, in milliseconds, under the joined path.
	AddTiming(value float64, path ...string)

	// Incr increments the counter named by the joined path by one.
	Incr(path ...string)
}

// Key joins path segments into a metric name, skipping empty segments. It is
// meant for names assembled from optional parts, such as an unset prefix;
// Client paths are joined verbatim.
func Key(path ...string) string {
	parts := make([]string, 0, len(path))
	for _, p := range path {
		if p == "" {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ".")
}
