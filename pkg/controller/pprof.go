package controller

import (
	"net/http"
	"net/http/pprof"
)

// PprofMux returns a ServeMux with the net/http/pprof handlers registered
// at its root. Mounted under /debug/pprof/ as is, pprof.Index resolves named
// profiles; the explicit profile routes serve mounts behind http.StripPrefix.
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", pprof.Index)
	mux.HandleFunc("/cmdline", pprof.Cmdline)
	mux.HandleFunc("/profile", pprof.Profile)
	mux.HandleFunc("/symbol", pprof.Symbol)
	mux.HandleFunc("/trace", pprof.Trace)
	for _, name := range []string{"goroutine", "heap", "allocs", "block", "mutex"} {
		mux.Handle("/"+name, pprof.Handler(name))
	}

	return mux
}
