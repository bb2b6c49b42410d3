// Package lua hosts the gopher-lua states that run ksreactive plugin
// scripts.
//
// A State opens only the base, table, string and math libraries. Output
// from print goes to the state's logger instead of stdout. Each DoFile,
// DoString or Call runs under the state's execution timeout, enforced
// through the LState context.
//
// Conversion between Go and Lua values lives in ToGo and ToLua.
package lua
