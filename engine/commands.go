package engine

import "github.com/latteine1217/alife-3d-flocking/components"

// CommandKind tags a Command variant, per spec §6's
// {start, pause, reset, update_params} tagged-variant command channel.
type CommandKind uint8

const (
	CommandStart CommandKind = iota
	CommandPause
	CommandReset
	CommandUpdateParams
)

// Command is one message on the engine's command channel. Commands
// are processed between steps, never mid-step, per spec §5.
type Command struct {
	Kind   CommandKind
	Params components.Params // only meaningful for CommandUpdateParams
	Seed   uint64            // only meaningful for CommandReset; 0 means "re-derive from current seed"
}

// drainCommands applies every currently-queued command, in order,
// before the next step begins. Run() and Step() both call this first.
func (e *Engine) drainCommands() {
	for {
		select {
		case cmd := <-e.commands:
			e.applyCommand(cmd)
		default:
			return
		}
	}
}

func (e *Engine) applyCommand(cmd Command) {
	switch cmd.Kind {
	case CommandStart:
		e.paused = false
	case CommandPause:
		e.paused = true
	case CommandReset:
		seed := cmd.Seed
		if seed == 0 {
			seed = e.seed
		}
		e.reset(seed)
	case CommandUpdateParams:
		e.params = cmd.Params
	}
}

// SendCommand enqueues a command for processing at the next step
// boundary. It never blocks the caller for more than the channel's
// buffer allows.
func (e *Engine) SendCommand(cmd Command) {
	e.commands <- cmd
}
