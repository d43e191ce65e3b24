package canvas

// CommandKind is a per-node action the rendering surface can invoke.
type CommandKind string

const (
	CommandDelete       CommandKind = "delete"
	CommandClone        CommandKind = "clone"
	CommandOpenSettings CommandKind = "open-settings"
	CommandAddNote      CommandKind = "add-note"
	CommandEditNote     CommandKind = "edit-note"
)

// ParseCommandKind validates a command name received from the surface.
func ParseCommandKind(s string) (CommandKind, bool) {
	switch k := CommandKind(s); k {
	case CommandDelete, CommandClone, CommandOpenSettings, CommandAddNote, CommandEditNote:
		return k, true
	default:
		return "", false
	}
}

// Command targets a node by id. The node is looked up when the command runs,
// so a command for a node that has since been deleted does nothing.
type Command struct {
	Kind   CommandKind `json:"kind"`
	NodeID string      `json:"nodeId"`
}

// Delete builds a delete command.
func Delete(id string) Command { return Command{Kind: CommandDelete, NodeID: id} }

// Clone builds a clone command.
func Clone(id string) Command { return Command{Kind: CommandClone, NodeID: id} }

// OpenSettings builds an open-settings command.
func OpenSettings(id string) Command { return Command{Kind: CommandOpenSettings, NodeID: id} }

// AddNote builds an add-note command.
func AddNote(id string) Command { return Command{Kind: CommandAddNote, NodeID: id} }

// EditNote builds an edit-note command.
func EditNote(id string) Command { return Command{Kind: CommandEditNote, NodeID: id} }

// Dispatch runs a command. It returns false when the target node is unknown.
func (e *Editor) Dispatch(cmd Command) bool {
	switch cmd.Kind {
	case CommandDelete:
		return e.DeleteNode(cmd.NodeID)
	case CommandClone:
		_, ok := e.CloneNode(cmd.NodeID)
		return ok
	case CommandOpenSettings:
		return e.OpenSettings(cmd.NodeID)
	case CommandAddNote, CommandEditNote:
		return e.OpenAnnotation(cmd.NodeID)
	default:
		return false
	}
}
