package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/simdata/simstore/internal/simdata"
)

// FactorFunc is the global a script defines to drive interpolation:
// factor(low, t, high) returns the weight of the high record.
const FactorFunc = "factor"

var ErrNoFunction = errors.New("lua function not defined")

// Engine wraps a single gopher-lua VM.
// Single-goroutine access only, like the store it serves.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads path, either one .lua file or
// every .lua file of a directory.
func NewEngine(path string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	info, err := os.Stat(path)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	if info.IsDir() {
		err = e.loadDir(path)
	} else {
		err = e.loadFile(path)
	}
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// NewEngineFromSource creates a Lua engine running src.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	return e, nil
}

func newEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.loadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) loadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// Has reports whether the scripts define a global function name.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// CallNumber calls the Lua function name with numeric args and returns its
// single numeric result.
func (e *Engine) CallNumber(name string, args ...float64) (float64, error) {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		return 0, fmt.Errorf("%s: %w", name, ErrNoFunction)
	}

	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		return 0, fmt.Errorf("call %s: %w", name, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("call %s: returned %s, want number", name, result.Type())
	}
	return float64(n), nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// Interpolator computes interpolation factors with the script's factor
// function. Script errors fall back to the linear factor; results are
// clamped to [0, 1].
type Interpolator struct {
	engine *Engine
}

var _ simdata.Interpolator = (*Interpolator)(nil)

// NewInterpolator checks that e defines factor.
func NewInterpolator(e *Engine) (*Interpolator, error) {
	if !e.Has(FactorFunc) {
		return nil, fmt.Errorf("interpolator: %s: %w", FactorFunc, ErrNoFunction)
	}
	return &Interpolator{engine: e}, nil
}

func (i *Interpolator) Factor(low, t, high float64) float64 {
	f, err := i.engine.CallNumber(FactorFunc, low, t, high)
	if err != nil {
		i.engine.log.Error("lua factor error", zap.Error(err))
		return simdata.LinearFactor(low, t, high)
	}
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
