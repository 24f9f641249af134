/* Copyright (c) 2018 Salesforce
 * All rights reserved.
 * Licensed under the BSD 3-Clause license.
 * For full license text, see LICENSE.txt file in the repo root  or https://opensource.org/licenses/BSD-3-Clause
 */

// Package metrics is a thin wrapper around the go-kit metrics types. Every
// backend the request reporter can emit to (statsd, l2met, the test
// provider) is exposed as a Provider.
package metrics

import (
	"github.com/go-kit/kit/metrics"
)

// Provider represents the different types of metrics that a provider
// can expose. We duplicate the definition from go-kit so that backends can
// be implemented without importing all of go-kit's providers, and so we can
// carry our own CardinalityCounter extension.
//
// Request timings are reported through NewHistogram; request counts through
// NewCounter.
type Provider interface {
	NewCounter(name string) metrics.Counter
	NewGauge(name string) metrics.Gauge
	NewHistogram(name string, buckets int) metrics.Histogram
	NewCardinalityCounter(name string) CardinalityCounter
	Stop()
}
