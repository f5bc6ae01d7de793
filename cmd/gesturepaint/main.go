// Command gesturepaint is a webcam virtual painter driven by hand and face
// gestures.
package main

import "runtime"

// highgui windows must be created and pumped from the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	Execute()
}
