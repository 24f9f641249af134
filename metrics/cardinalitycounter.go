/* Copyright (c) 2018 Salesforce
 * All rights reserved.
 * Licensed under the BSD 3-Clause license.
 * For full license text, see LICENSE.txt file in the repo root  or https://opensource.org/licenses/BSD-3-Clause
 */

package metrics

// CardinalityCounter estimates how many distinct values were inserted since
// it was last reported, e.g. how many handler types served requests during
// one flush interval.
//
// Metric names carry every dimension here, so providers may return the
// receiver from With.
type CardinalityCounter interface {
	With(labelValues ...string) CardinalityCounter
	Insert(b []byte)
}
