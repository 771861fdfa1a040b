package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/simdata/simstore/internal/category"
	"github.com/simdata/simstore/internal/config"
	"github.com/simdata/simstore/internal/data"
	"github.com/simdata/simstore/internal/scripting"
	"github.com/simdata/simstore/internal/simdata"
	"github.com/simdata/simstore/internal/store"
)

// session is a store loaded with one scenario script.
type session struct {
	store    *store.MemoryStore
	scenario *data.Scenario
	ids      map[string]simdata.ObjectID
	engine   *scripting.Engine
}

// openSession reads the scenario, the default prefs and the Lua script
// concurrently, then builds the store from them.
func openSession(ctx context.Context, cfg *config.Config, path string, log *zap.Logger) (*session, error) {
	var (
		sc       *data.Scenario
		defaults *simdata.DefaultPrefs
		engine   *scripting.Engine
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sc, err = data.LoadScenario(path)
		return err
	})
	if cfg.Store.DefaultsPath != "" {
		g.Go(func() error {
			var err error
			defaults, err = data.LoadDefaultPrefs(cfg.Store.DefaultsPath)
			return err
		})
	}
	if cfg.Store.Interpolator == config.InterpolatorLua {
		g.Go(func() error {
			var err error
			engine, err = scripting.NewEngine(cfg.Store.Script, log)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		if engine != nil {
			engine.Close()
		}
		return nil, err
	}

	sess := &session{scenario: sc, engine: engine}
	s, err := sess.newStore(cfg, defaults, log)
	if err != nil {
		sess.Close()
		return nil, err
	}
	sess.store = s
	if sess.ids, err = sc.Apply(s); err != nil {
		sess.Close()
		return nil, fmt.Errorf("apply %s: %w", path, err)
	}
	log.Info("scenario loaded",
		zap.String("file", path),
		zap.Int("entities", s.NumEntities()),
		zap.Int("times", len(sc.Times)))
	return sess, nil
}

func (sess *session) newStore(cfg *config.Config, defaults *simdata.DefaultPrefs, log *zap.Logger) (*store.MemoryStore, error) {
	names := category.NewNameManager()
	if err := names.SetCaseSensitive(cfg.Category.CaseSensitive); err != nil {
		return nil, err
	}

	var interp simdata.Interpolator
	switch cfg.Store.Interpolator {
	case config.InterpolatorNearest:
		interp = simdata.NearestNeighborInterpolator{}
	case config.InterpolatorLua:
		li, err := scripting.NewInterpolator(sess.engine)
		if err != nil {
			return nil, err
		}
		interp = li
	default:
		interp = simdata.LinearInterpolator{}
	}

	s := store.New(
		store.WithLogger(log),
		store.WithNames(names),
		store.WithInterpolator(interp),
		store.WithDataLimiting(cfg.Store.DataLimiting),
		store.WithFileMode(cfg.Store.FileMode),
	)
	s.EnableInterpolation(cfg.Store.Interpolation)
	if defaults != nil {
		s.SetDefaultPrefs(*defaults)
	}
	return s, nil
}

func (sess *session) Close() {
	if sess.engine != nil {
		sess.engine.Close()
	}
}
