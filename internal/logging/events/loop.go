package events

import "github.com/atomicstack/declui/internal/logging"

type LoopTracer struct{}

type SurfaceTracer struct{}

var (
	Loop    = LoopTracer{}
	Surface = SurfaceTracer{}
)

func (LoopTracer) Transition(from, to string) {
	logging.Trace("loop.state", map[string]interface{}{"from": from, "to": to})
}

func (LoopTracer) Terminate(reason string) {
	logging.Trace("loop.terminate", map[string]interface{}{"reason": reason})
}

func (LoopTracer) CommandsChanged(count int) {
	logging.Trace("loop.commands", map[string]interface{}{"count": count})
}

func (SurfaceTracer) Setup(adapter, traceDir string) {
	logging.Trace("surface.setup", map[string]interface{}{"adapter": adapter, "traceDir": traceDir})
}

func (SurfaceTracer) Configure(width, height int) {
	logging.Trace("surface.configure", map[string]interface{}{"width": width, "height": height})
}

func (SurfaceTracer) Frame(err error) {
	if err == nil {
		return
	}
	logging.Trace("surface.frame.error", map[string]interface{}{"error": err.Error()})
}
