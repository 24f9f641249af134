package metrics

import (
	"fmt"
	"sync"
	"testing"
)

func TestHLLCounterWithIsSameCounter(t *testing.T) {
	c := NewHLLCounter("sprockets.sets.handlers")
	c.With("ignored").Insert([]byte("widgets.WidgetHandler"))

	if got := c.Estimate(); got != 1 {
		t.Fatalf("Estimate() = %d, want 1", got)
	}
	if got := c.Name(); got != "sprockets.sets.handlers" {
		t.Fatalf("Name() = %q", got)
	}
}

func TestHLLCounterEstimate(t *testing.T) {
	c := NewHLLCounter("handlers")
	c.Insert([]byte("widgets.WidgetHandler"))
	c.Insert([]byte("widgets.WidgetHandler"))
	c.Insert([]byte("widgets.StatusHandler"))

	if got := c.Estimate(); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestHLLCounterEstimateReset(t *testing.T) {
	c := NewHLLCounter("handlers")
	c.Insert([]byte("widgets.WidgetHandler"))

	if got := c.EstimateReset(); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	if got := c.Estimate(); got != 0 {
		t.Errorf("got %d after reset, want 0", got)
	}
}

func TestHLLCounterConcurrentInsert(t *testing.T) {
	c := NewHLLCounter("handlers")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Insert([]byte(fmt.Sprintf("tests.Handler%d", i)))
		}(i)
	}
	wg.Wait()

	if got := c.Estimate(); got != 8 {
		t.Errorf("got %d, want 8", got)
	}
}
