package errors

import "log"

// LogHandler is the default diagnostics handler. It writes contained
// failures to the standard logger.
type LogHandler struct {
	// Verbose includes captured stack traces in the output.
	Verbose bool
}

// HandleCallbackError logs a recovered user-callback panic.
func (h *LogHandler) HandleCallbackError(err *CallbackError) {
	if err == nil {
		return
	}
	if h.Verbose && err.StackTrace != "" {
		log.Printf("canopy: %v\n%s", err, err.StackTrace)
		return
	}
	log.Printf("canopy: %v", err)
}

// HandleDivergence logs a clamped layout divergence.
func (h *LogHandler) HandleDivergence(err *LayoutDivergence) {
	if err == nil {
		return
	}
	log.Printf("canopy: %v", err)
}
