package main

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/togglekit/pkg/feature"
	"github.com/dmitrymomot/togglekit/pkg/logger"
)

// catalog is the demo feature set served by featured. Hooks only flip flags
// and log; the tick loop stands in for the host's per-frame work.
type catalog struct {
	log *slog.Logger

	flight    atomic.Bool
	autoClick atomic.Bool
	clicks    atomic.Int64
	throttle  feature.Throttle
}

func newCatalog(log *slog.Logger) *catalog {
	return &catalog{log: log.With(logger.Component("catalog"))}
}

// nonPersistable lists the features whose state lasts one session only.
func (c *catalog) nonPersistable() []string {
	return []string{"Panic"}
}

func (c *catalog) flag(name string, b *atomic.Bool) feature.HookFuncs {
	return feature.HookFuncs{
		Toggle: func(ctx context.Context) error {
			c.log.DebugContext(ctx, "feature toggled", logger.Feature(name))
			return nil
		},
		Enable:  func(context.Context) error { b.Store(true); return nil },
		Disable: func(context.Context) error { b.Store(false); return nil },
	}
}

func (c *catalog) register(reg *feature.Registry) error {
	var errs []error
	add := func(desc feature.Descriptor, hooks feature.Hooks) {
		if _, err := reg.Register(desc, hooks); err != nil {
			errs = append(errs, err)
		}
	}

	add(feature.Descriptor{
		Name:        "Flight",
		Description: "Lets you fly.",
		Category:    feature.CategoryMovement,
		Tags:        []string{"fly", "creative"},
		Tutorial:    "Use the jump key to rise and the sneak key to descend.",
		Restricted:  true,
	}, c.flag("Flight", &c.flight))

	add(feature.Descriptor{
		Name:        "AutoClicker",
		Description: "Clicks automatically at a fixed rate.",
		Category:    feature.CategoryCombat,
		Tags:        []string{"click", "cps"},
		Restricted:  true,
	}, c.flag("AutoClicker", &c.autoClick))

	add(feature.Descriptor{
		Name:        "Fullbright",
		Description: "Makes everything bright.",
		Category:    feature.CategoryRender,
		Tags:        []string{"gamma", "brightness"},
	}, nil)

	add(feature.Descriptor{
		Name:        "Panic",
		Description: "Disables every feature. Never remembered between sessions.",
		Category:    feature.CategoryMisc,
	}, feature.HookFuncs{
		Enable: func(context.Context) error {
			return errors.New("panic switch has no effect in the demo host")
		},
	})

	return errors.Join(errs...)
}

// tick drives the auto clicker at 10 clicks per second until ctx is done.
func (c *catalog) tick(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("tick loop stopped", slog.Int64("clicks", c.clicks.Load()))
			return
		case now := <-t.C:
			if !c.autoClick.Load() {
				c.throttle.Reset()
				continue
			}
			if c.throttle.ReadyAtRate(now, 10) {
				c.throttle.Mark(now)
				c.clicks.Add(1)
			}
		}
	}
}
