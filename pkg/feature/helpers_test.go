package feature_test

import (
	"context"
	"sync"

	"github.com/dmitrymomot/togglekit/pkg/feature"
)

// recorder captures hook calls in order and can be told to fail a phase.
type recorder struct {
	calls []feature.Phase
	fail  map[feature.Phase]error
	panic map[feature.Phase]any
}

func newRecorder() *recorder {
	return &recorder{
		fail:  make(map[feature.Phase]error),
		panic: make(map[feature.Phase]any),
	}
}

func (r *recorder) run(p feature.Phase) error {
	r.calls = append(r.calls, p)
	if v, ok := r.panic[p]; ok {
		panic(v)
	}
	return r.fail[p]
}

func (r *recorder) OnToggle(context.Context) error  { return r.run(feature.PhaseToggle) }
func (r *recorder) OnEnable(context.Context) error  { return r.run(feature.PhaseEnable) }
func (r *recorder) OnDisable(context.Context) error { return r.run(feature.PhaseDisable) }

func (r *recorder) reset() { r.calls = nil }

type faultSink struct {
	mu     sync.Mutex
	faults []*feature.CallbackError
}

func (s *faultSink) ReportFault(_ context.Context, f *feature.CallbackError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, f)
}

type persisterStub struct {
	persistable bool
	notified    []string
}

func (p *persisterStub) IsPersistable(string) bool { return p.persistable }

func (p *persisterStub) NotifyChanged(_ context.Context, name string) {
	p.notified = append(p.notified, name)
}

func testDescriptor(name string) feature.Descriptor {
	return feature.Descriptor{
		Name:        name,
		Description: "test feature " + name,
		Category:    feature.CategoryMisc,
	}
}
