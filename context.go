package cmdkit

// Context carries contextual information about one command execution: the
// owning Manager, the bound command (if any), the alias used to invoke it,
// whether the run is dry, and the custom-data side channel.
//
// A context passed into a subcommand is a derived child: same manager, dry
// flag inherited, command and label rebound to the matched child, customs
// shallow-copied at dispatch time.
type Context struct {
	manager *Manager
	command *Command
	label   string
	dry     bool
	customs map[interface{}]interface{}
}

func newContext(manager *Manager, command *Command, label string, dry bool) *Context {
	return &Context{
		manager: manager,
		command: command,
		label:   label,
		dry:     dry,
		customs: make(map[interface{}]interface{}),
	}
}

// child derives the context handed to a matched subcommand.
func (c *Context) child(command *Command, label string) *Context {
	return &Context{
		manager: c.manager,
		command: command,
		label:   label,
		dry:     c.dry,
		customs: cloneCustoms(c.customs),
	}
}

// IsDry reports whether the bound command is being dry-run. Completion runs
// also read as dry: command bodies must not produce side effects during
// them.
func (c *Context) IsDry() bool {
	return c.dry
}

// Manager returns the Manager that caused the execution of the command.
func (c *Context) Manager() *Manager {
	return c.manager
}

// Command returns the command this context was created for, or nil at the
// top of dispatch before any command has matched.
func (c *Context) Command() *Command {
	return c.command
}

// Label returns the alias that was used to call the command.
func (c *Context) Label() string {
	return c.label
}

// Customs implements CustomHolder.
func (c *Context) Customs() map[interface{}]interface{} {
	return c.customs
}

// Reply sends a message to the user through the Manager's message sink.
func (c *Context) Reply(msg string) {
	c.manager.sendMessage(c, msg)
}

// ReplyError sends an error message to the user through the Manager's
// error sink.
func (c *Context) ReplyError(msg string) {
	c.manager.sendError(c, msg)
}
