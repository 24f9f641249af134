package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/oklog/run"
)

func TestServerFunc(t *testing.T) {
	err := errors.New("boom")
	sf := ServerFunc(func() error { return err })
	if got := sf.Run(); got != err {
		t.Fatalf("got Run err %+v, want %+v", got, err)
	}
	sf.Stop(err)
}

func TestServerFuncs(t *testing.T) {
	err := errors.New("boom")
	var stopErr error

	sf := ServerFuncs{
		RunFunc:  func() error { return err },
		StopFunc: func(e error) { stopErr = e },
	}

	if got := sf.Run(); got != err {
		t.Fatalf("got Run err %+v, want %+v", got, err)
	}

	sf.Stop(err)
	if stopErr != err {
		t.Fatalf("got Stop err %+v, want %+v", stopErr, err)
	}

	sf.StopFunc = nil
	sf.Stop(err)
}

func TestNewContextServer(t *testing.T) {
	err := errors.New("boom")
	var gotCtx context.Context

	s := NewContextServer(func(ctx context.Context) error {
		gotCtx = ctx
		return err
	})

	if got := s.Run(); got != err {
		t.Fatalf("got Run err %+v, want %+v", got, err)
	}
	if got := gotCtx.Err(); got != nil {
		t.Fatalf("got context Err %+v, wanted none", got)
	}

	s.Stop(err)
	<-gotCtx.Done()

	if got := gotCtx.Err(); got != context.Canceled {
		t.Fatalf("got context Err %+v, wanted context.Canceled", got)
	}
}

type countingRunner struct {
	runs int32
}

func (r *countingRunner) Run(ctx context.Context) error {
	atomic.AddInt32(&r.runs, 1)
	<-ctx.Done()
	return ctx.Err()
}

func TestNewRunnerServers(t *testing.T) {
	a, b := &countingRunner{}, &countingRunner{}

	srvs := NewRunnerServers(a, nil, b)
	if len(srvs) != 2 {
		t.Fatalf("got %d servers, want 2", len(srvs))
	}

	ms := MultiServer(srvs...)
	done := make(chan error)
	go func() { done <- ms.Run() }()

	ms.Stop(nil)
	if err := <-done; err != context.Canceled {
		t.Fatalf("got %v, want context.Canceled", err)
	}

	if atomic.LoadInt32(&a.runs) != 1 || atomic.LoadInt32(&b.runs) != 1 {
		t.Fatalf("want each runner run once, got %d and %d", a.runs, b.runs)
	}
}

// Stopping any server inside a MultiServer stops all of them.
func TestMultiServerInnerStop(t *testing.T) {
	s1 := newStoppingServer()
	s2 := newStoppingServer()
	ms := MultiServer(s1, s2)

	done := make(chan struct{})
	go func() {
		if err := ms.Run(); err != nil && err != context.Canceled {
			panic(err)
		}
		close(done)
	}()

	s1.Stop(nil)
	<-done

	if !s1.isStopped() {
		t.Error("want s1 to be stopped")
	}
	if !s2.isStopped() {
		t.Error("want s2 to be stopped")
	}
}

type stoppingServer struct {
	stopped int32
	Server
}

func newStoppingServer() *stoppingServer {
	s := &stoppingServer{}
	s.Server = NewContextServer(func(ctx context.Context) error {
		<-ctx.Done()
		atomic.StoreInt32(&s.stopped, 1)
		return ctx.Err()
	})
	return s
}

func (s *stoppingServer) isStopped() bool {
	return atomic.LoadInt32(&s.stopped) == 1
}

func ExampleNewContextServer() {
	s := NewContextServer(
		func(ctx context.Context) error {
			fmt.Println("flushing")
			<-ctx.Done()
			return nil
		},
	)
	var exitFast Server = ServerFunc(func() error { return nil })

	var g run.Group
	g.Add(s.Run, s.Stop)
	g.Add(exitFast.Run, exitFast.Stop)
	if err := g.Run(); err != nil {
		panic(err)
	}
	// Output: flushing
}
