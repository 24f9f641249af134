/* Copyright (c) 2018 Salesforce
 * All rights reserved.
 * Licensed under the BSD 3-Clause license.
 * For full license text, see LICENSE.txt file in the repo root  or https://opensource.org/licenses/BSD-3-Clause
 */

package metrics

import (
	"sync"

	hll "github.com/axiomhq/hyperloglog"
)

var _ CardinalityCounter = &HLLCounter{}

// HLLCounter is a CardinalityCounter backed by a HyperLogLog sketch. The
// statsd and l2met providers report its estimate as a gauge and start a new
// sketch on every flush.
type HLLCounter struct {
	name string

	mu     sync.Mutex
	sketch *hll.Sketch
}

// NewHLLCounter returns an empty counter reported under name.
func NewHLLCounter(name string) *HLLCounter {
	return &HLLCounter{
		name:   name,
		sketch: hll.New(),
	}
}

// Name returns the metric name the estimate is reported under.
func (c *HLLCounter) Name() string { return c.name }

// With returns c. Dimensions belong in the metric name.
func (c *HLLCounter) With(...string) CardinalityCounter { return c }

// Insert adds b to the set being counted.
func (c *HLLCounter) Insert(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sketch.Insert(b)
}

// Estimate returns the estimated number of distinct values inserted.
func (c *HLLCounter) Estimate() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sketch.Estimate()
}

// EstimateReset returns the estimate and starts counting from scratch.
func (c *HLLCounter) EstimateReset() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.sketch.Estimate()
	c.sketch = hll.New()
	return n
}
