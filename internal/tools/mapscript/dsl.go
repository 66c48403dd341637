package mapscript

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scriptTypeName = "mapscript"

// Script is the ordered list of steps recorded by a Lua file.
type Script struct {
	Name  string
	Steps []Step
}

// Step is one recorded DSL call.
type Step struct {
	Kind string
	Args map[string]any
	// ExpectError holds the error code this step must fail with.
	ExpectError string
	// Steps holds the sub-steps of a batch.
	Steps []Step
}

// LoadScriptFromFile runs a Lua file and returns the Script it builds.
func LoadScriptFromFile(path string) (*Script, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	return finishScript(state, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// LoadScript runs Lua source and returns the Script it builds.
func LoadScript(name, source string) (*Script, error) {
	state := newState()
	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	return finishScript(state, name)
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerScriptType(state)
	registerScriptConstructor(state)
	return state
}

func finishScript(state *lua.State, fallbackName string) (*Script, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("map script must return Script")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	script, ok := ud.(*Script)
	if !ok || script == nil {
		return nil, fmt.Errorf("map script returned invalid Script")
	}
	if strings.TrimSpace(script.Name) == "" {
		script.Name = fallbackName
	}
	return script, nil
}

func registerScriptType(state *lua.State) {
	lua.NewMetaTable(state, scriptTypeName)
	state.NewTable()
	lua.SetFunctions(state, scriptMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScriptConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scriptNew}}, 0)
	state.SetGlobal("Script")
}

func scriptNew(state *lua.State) int {
	pushScript(state, &Script{Name: lua.OptString(state, 1, "")})
	return 1
}

func pushScript(state *lua.State, script *Script) {
	state.PushUserData(script)
	lua.SetMetaTableNamed(state, scriptTypeName)
}

var scriptMethods = []lua.RegistryFunction{
	{Name: "open", Function: stringStep("open", "id")},
	{Name: "atlas", Function: stringStep("atlas", "name")},
	{Name: "region", Function: stringStep("region", "name")},
	{Name: "remove_region", Function: stringStep("remove_region", "name")},
	{Name: "rename_region", Function: stringStep("rename_region", "name", "to")},
	{Name: "map", Function: stringStep("map", "region", "name")},
	{Name: "select", Function: stringStep("select", "map")},
	{Name: "remove_map", Function: stringStep("remove_map", "map")},
	{Name: "rename_map", Function: stringStep("rename_map", "map", "to")},
	{Name: "move_map", Function: stringStep("move_map", "map", "region")},
	{Name: "resize", Function: scriptResize},
	{Name: "origin", Function: stringStep("origin", "map", "origin")},
	{Name: "numerals", Function: stringStep("numerals", "map", "axis", "method")},
	{Name: "offset", Function: scriptOffset},
	{Name: "margin", Function: scriptMargin},
	{Name: "grid_color", Function: stringStep("grid_color", "map", "value")},
	{Name: "background_color", Function: stringStep("background_color", "map", "value")},
	{Name: "background_image", Function: stringStep("background_image", "map", "value")},
	{Name: "axis_color", Function: stringStep("axis_color", "map", "value")},
	{Name: "axis_font", Function: stringStep("axis_font", "map", "value")},
	{Name: "text_color", Function: stringStep("text_color", "map", "value")},
	{Name: "text_font", Function: stringStep("text_font", "map", "value")},
	{Name: "show", Function: visibilityStep(true)},
	{Name: "hide", Function: visibilityStep(false)},
	{Name: "add_layer", Function: stringStep("add_layer", "map", "kind")},
	{Name: "remove_layer", Function: scriptRemoveLayer},
	{Name: "select_layer", Function: scriptSelectLayer},
	{Name: "place", Function: tableStep("place")},
	{Name: "remove_tile", Function: tableStep("remove_tile")},
	{Name: "erase", Function: tableStep("erase")},
	{Name: "batch", Function: scriptBatch},
	{Name: "undo", Function: countStep("undo")},
	{Name: "redo", Function: countStep("redo")},
	{Name: "expect_tiles", Function: tableStep("expect_tiles")},
	{Name: "expect_error", Function: scriptExpectError},
	{Name: "save", Function: scriptSave},
}

// stringStep records a step whose positional arguments are all strings.
func stringStep(kind string, keys ...string) lua.Function {
	return func(state *lua.State) int {
		script := checkScript(state)
		args := make(map[string]any, len(keys))
		for i, key := range keys {
			args[key] = lua.CheckString(state, i+2)
		}
		appendStep(script, kind, args)
		pushScript(state, script)
		return 1
	}
}

// tableStep records a step taking a single options table.
func tableStep(kind string) lua.Function {
	return func(state *lua.State) int {
		script := checkScript(state)
		lua.CheckType(state, 2, lua.TypeTable)
		appendStep(script, kind, tableToMap(state, 2))
		pushScript(state, script)
		return 1
	}
}

func countStep(kind string) lua.Function {
	return func(state *lua.State) int {
		script := checkScript(state)
		count := lua.OptInteger(state, 2, 1)
		if count < 1 {
			lua.ArgumentError(state, 2, "count must be positive")
			return 0
		}
		appendStep(script, kind, map[string]any{"count": count})
		pushScript(state, script)
		return 1
	}
}

func visibilityStep(visible bool) lua.Function {
	kind := "hide"
	if visible {
		kind = "show"
	}
	return func(state *lua.State) int {
		script := checkScript(state)
		args := map[string]any{
			"map":     lua.CheckString(state, 2),
			"layer":   lua.CheckString(state, 3),
			"index":   lua.OptInteger(state, 4, -1),
			"visible": visible,
		}
		appendStep(script, kind, args)
		pushScript(state, script)
		return 1
	}
}

func scriptResize(state *lua.State) int {
	script := checkScript(state)
	appendStep(script, "resize", map[string]any{
		"map":    lua.CheckString(state, 2),
		"width":  lua.CheckInteger(state, 3),
		"height": lua.CheckInteger(state, 4),
	})
	pushScript(state, script)
	return 1
}

func scriptOffset(state *lua.State) int {
	script := checkScript(state)
	appendStep(script, "offset", map[string]any{
		"map": lua.CheckString(state, 2),
		"x":   lua.CheckNumber(state, 3),
		"y":   lua.CheckNumber(state, 4),
	})
	pushScript(state, script)
	return 1
}

func scriptMargin(state *lua.State) int {
	script := checkScript(state)
	appendStep(script, "margin", map[string]any{
		"map":    lua.CheckString(state, 2),
		"margin": lua.CheckNumber(state, 3),
	})
	pushScript(state, script)
	return 1
}

func scriptRemoveLayer(state *lua.State) int {
	script := checkScript(state)
	appendStep(script, "remove_layer", map[string]any{
		"map":   lua.CheckString(state, 2),
		"kind":  lua.CheckString(state, 3),
		"index": lua.OptInteger(state, 4, -1),
	})
	pushScript(state, script)
	return 1
}

func scriptSelectLayer(state *lua.State) int {
	script := checkScript(state)
	appendStep(script, "select_layer", map[string]any{
		"map":   lua.CheckString(state, 2),
		"kind":  lua.CheckString(state, 3),
		"index": lua.CheckInteger(state, 4),
	})
	pushScript(state, script)
	return 1
}

func scriptSave(state *lua.State) int {
	script := checkScript(state)
	appendStep(script, "save", nil)
	pushScript(state, script)
	return 1
}

// scriptBatch records the steps made by a Lua function into one composite
// step: s:batch("name", function(b) b:region("x") end).
func scriptBatch(state *lua.State) int {
	script := checkScript(state)
	name := lua.CheckString(state, 2)
	lua.CheckType(state, 3, lua.TypeFunction)

	nested := &Script{Name: name}
	state.PushValue(3)
	pushScript(state, nested)
	state.Call(1, 0)

	for _, step := range nested.Steps {
		if !batchable(step.Kind) {
			lua.Errorf(state, "%s cannot be used inside a batch", step.Kind)
			return 0
		}
	}
	index := appendStep(script, "batch", map[string]any{"name": name})
	script.Steps[index].Steps = nested.Steps
	pushScript(state, script)
	return 1
}

func batchable(kind string) bool {
	switch kind {
	case "open", "select", "undo", "redo", "save", "expect_tiles", "batch":
		return false
	default:
		return true
	}
}

// scriptExpectError marks the previous step as required to fail with code.
func scriptExpectError(state *lua.State) int {
	script := checkScript(state)
	code := strings.TrimSpace(lua.CheckString(state, 2))
	if len(script.Steps) == 0 {
		lua.Errorf(state, "expect_error needs a preceding step")
		return 0
	}
	script.Steps[len(script.Steps)-1].ExpectError = code
	pushScript(state, script)
	return 1
}

func checkScript(state *lua.State) *Script {
	ud := lua.CheckUserData(state, 1, scriptTypeName)
	if script, ok := ud.(*Script); ok && script != nil {
		return script
	}
	lua.ArgumentError(state, 1, "script expected")
	return nil
}

func appendStep(script *Script, kind string, data map[string]any) int {
	if script == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	script.Steps = append(script.Steps, Step{Kind: kind, Args: data})
	return len(script.Steps) - 1
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToMap(state, index)
	default:
		return nil
	}
}

// normalizeNumber turns integral numbers into ints. Values outside the int64
// range stay float64 so integer arguments reject them.
func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 && value >= math.MinInt64 && value < math.MaxInt64 {
		return int(value)
	}
	return value
}
