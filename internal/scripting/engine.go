package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
	"github.com/l1jgo/ecsgraph/internal/snapshot"
)

// APIVersion is exposed to scripts as the API_VERSION global.
const APIVersion = 1

// Engine wraps a single gopher-lua VM. Scripts reach World state through
// the ecs module, which resolves component names via the registry.
// Single-goroutine access only (game loop).
type Engine struct {
	vm         *lua.LState
	log        *zap.Logger
	components *snapshot.ComponentRegistry

	world *ecs.World // bound for the duration of Call
}

// NewEngine creates a VM, installs the ecs module and loads every .lua file
// in scriptsDir in name order. A missing directory loads nothing.
func NewEngine(scriptsDir string, components *snapshot.ComponentRegistry, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))

	e := &Engine{vm: vm, log: log, components: components}
	e.installECS()

	if scriptsDir != "" {
		if err := e.loadDir(scriptsDir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua source in the engine's global scope.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether a global Lua function called name exists.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Call invokes the global Lua function name with dt in seconds while w is
// bound to the ecs module. Script errors are returned, not raised.
func (e *Engine) Call(w *ecs.World, name string, dt time.Duration) error {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return fmt.Errorf("lua function %s not found", name)
	}
	if e.world != nil {
		return errors.New("lua call already in progress")
	}
	e.world = w
	defer func() { e.world = nil }()

	return e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(dt.Seconds()))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
