//go:build js && wasm

package main

import "syscall/js"

// main exposes __replayInit(json) to the page. The request is
// {"spec": GameSpec}; the response carries either a tape or a ReplayError.
func main() {
	js.Global().Set("__replayInit", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return mustJSON(failure(reasonInvalidRequest, "missing request payload"))
		}
		return mustJSON(handleInit(args[0].String()))
	}))

	select {}
}
