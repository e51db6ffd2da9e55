package events

import "github.com/atomicstack/declui/internal/logging"

type MenuTracer struct{}

type InputTracer struct{}

type CommandTracer struct{}

var (
	Menu    = MenuTracer{}
	Input   = InputTracer{}
	Command = CommandTracer{}
)

func (MenuTracer) Compile(commands, nodes int) {
	logging.Trace("menu.compile", map[string]interface{}{"commands": commands, "nodes": nodes})
}

func (MenuTracer) Activate(id int, path string) {
	logging.Trace("menu.activate", map[string]interface{}{"id": id, "path": path})
}

func (MenuTracer) Miss(id int) {
	logging.Trace("menu.miss", map[string]interface{}{"id": id})
}

func (InputTracer) DropKey(name string) {
	logging.Trace("input.drop.key", map[string]interface{}{"key": name})
}

func (InputTracer) DropButton(button int) {
	logging.Trace("input.drop.button", map[string]interface{}{"button": button})
}

func (CommandTracer) Queue(path string) {
	logging.Trace("command.queue", map[string]interface{}{"path": path})
}

func (CommandTracer) Skip(path string) {
	logging.Trace("command.skip", map[string]interface{}{"path": path})
}

func (CommandTracer) Result(path string, err error) {
	payload := map[string]interface{}{"path": path}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.result", payload)
}
