// Package api provides the Lua API modules exposed to ksreactive plugin
// scripts.
//
// Each module implements Module and registers itself as a _ks_<name>
// global. After injection the modules are also reachable through the ks
// table, so scripts may write either _ks_reactive.watch or
// ks.reactive.watch.
//
// # Reactive module
//
// The reactive module binds composables to Lua callbacks:
//
//	local id = ks.reactive.watch({"**/*.go"}, {
//	    on_create = function(path) print("created", path) end,
//	    on_delete = function(path) print("deleted", path) end,
//	    ignore_change = true,
//	})
//
//	ks.reactive.context("myext.enabled", true)
//	ks.reactive.title("explorer", "Files")
//
//	ks.reactive.on("activeEditor", function(editor)
//	    if editor then print(editor.path) end
//	end)
//
//	for _, dir in ipairs(ks.reactive.folders()) do print(dir) end
//
//	ks.reactive.off(id)
//
// Every binding lives in a child scope of the module scope; off disposes
// one binding and Cleanup disposes them all.
//
// Callbacks run on the host loop goroutine, which also owns the Lua state.
package api
