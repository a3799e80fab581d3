// Package testing moves the working directory to the module root so tests
// resolve logs/ and sqlite files the same way the server does.
//
// Import it for its side effect:
//
//	import _ "liyu1981.xyz/safezone-service/pkg/testing"
package testing

import (
	"os"
	"path/filepath"
	"runtime"
)

func init() {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("pkg/testing: cannot locate source file")
	}
	if err := os.Chdir(filepath.Join(filepath.Dir(file), "..", "..")); err != nil {
		panic(err)
	}
}
