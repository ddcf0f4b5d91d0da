package ast

// Event is what a Handler receives for every node it subscribed to.
type Event struct {
	Node  *Node
	Phase Phase
}

// Exit reports whether the event is the post-order half of the visit.
func (e Event) Exit() bool {
	return e.Phase == PhaseExit
}

// Handler reacts to one node event.
type Handler func(ev Event) error

// Dispatcher routes walk events to handlers registered per node type.
// Handlers for one type run in registration order.
type Dispatcher struct {
	handlers map[NodeType][]Handler
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[NodeType][]Handler)}
}

// On registers h for both phases of every node of type t.
func (d *Dispatcher) On(t NodeType, h Handler) {
	d.handlers[t] = append(d.handlers[t], h)
}

// OnEnter registers fn for the enter phase of type t only.
func (d *Dispatcher) OnEnter(t NodeType, fn func(n *Node) error) {
	d.On(t, func(ev Event) error {
		if ev.Phase != PhaseEnter {
			return nil
		}
		return fn(ev.Node)
	})
}

// OnExit registers fn for the exit phase of type t only.
func (d *Dispatcher) OnExit(t NodeType, fn func(n *Node) error) {
	d.On(t, func(ev Event) error {
		if ev.Phase != PhaseExit {
			return nil
		}
		return fn(ev.Node)
	})
}

// Subscribed returns the node types that have at least one handler.
func (d *Dispatcher) Subscribed() []NodeType {
	out := make([]NodeType, 0, len(d.handlers))
	for t := range d.handlers {
		out = append(out, t)
	}
	return out
}

// Run walks root once and dispatches every event. The first handler error
// aborts the walk.
func (d *Dispatcher) Run(root *Node) error {
	return Walk(root, func(n *Node, phase Phase) error {
		for _, h := range d.handlers[n.Type] {
			if err := h(Event{Node: n, Phase: phase}); err != nil {
				return err
			}
		}
		return nil
	})
}
