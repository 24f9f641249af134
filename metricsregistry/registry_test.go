package metricsregistry

import (
	"sync"
	"testing"

	"github.com/sprockets/x/metrics/testmetrics"
)

func TestGetOrRegister(t *testing.T) {
	p := testmetrics.NewProvider(t)
	r := New(p)

	r.GetOrRegisterCounter("counters.GET").Add(1)
	r.GetOrRegisterCounter("counters.GET").Add(1)
	r.GetOrRegisterCounter("counters.POST").Add(1)
	p.CheckCounter("counters.GET", 2)
	p.CheckCounter("counters.POST", 1)

	r.GetOrRegisterGauge("inflight").Add(1)
	r.GetOrRegisterGauge("inflight").Add(1)
	p.CheckGauge("inflight", 2)

	r.GetOrRegisterHistogram("timers.GET", 50).Observe(1)
	r.GetOrRegisterHistogram("timers.GET", 50).Observe(2)
	p.CheckObservations("timers.GET", []float64{1, 2})
}

func TestConcurrentRegistration(t *testing.T) {
	p := testmetrics.NewProvider(t)
	r := New(p)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.GetOrRegisterCounter("requests").Add(1)
			r.GetOrRegisterHistogram("duration", 50).Observe(1)
		}()
	}
	wg.Wait()

	p.CheckCounter("requests", 50)
	p.CheckObservationCount("duration", 50)
}
